package models

// Skill level tags used by the catalog
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
	LevelExpert       = "expert"
)

var levelLabels = map[string]string{
	LevelBeginner:     "Débutant",
	LevelIntermediate: "Intermédiaire",
	LevelAdvanced:     "Avancé",
	LevelExpert:       "Expert",
}

// LevelLabel returns the display label of a level tag, or the tag itself if unknown
func LevelLabel(tag string) string {
	if label, ok := levelLabels[tag]; ok {
		return label
	}
	return tag
}

// IsKnownLevel reports whether tag is one of the catalog level tags
func IsKnownLevel(tag string) bool {
	_, ok := levelLabels[tag]
	return ok
}
