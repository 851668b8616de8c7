package services

import (
	"fmt"
	"io"
	"strings"

	"ski-planner/models"
)

const (
	labelWidth = 22
	cellWidth  = 30
)

// PrintResults lists search results, marking favorites with ♥
func PrintResults(w io.Writer, results []models.Resort, favoriteIDs []string) {
	favs := make(map[string]bool, len(favoriteIDs))
	for _, id := range favoriteIDs {
		favs[id] = true
	}
	thin := strings.Repeat("─", 55)

	fmt.Fprintf(w, "\n %d STATION(S)\n%s\n", len(results), thin)
	for i := range results {
		r := &results[i]
		mark := " "
		if favs[r.ID] {
			mark = "♥"
		}
		fmt.Fprintf(w, " %s %d. %-28s %-16s %s\n", mark, i+1,
			truncate(r.Name, 28), truncate(r.Region, 16), FormattedPassPrice(r))
	}
	fmt.Fprintln(w, thin)
}

// PrintComparison renders the comparison table; winning cells are prefixed with ★
func PrintComparison(w io.Writer, resorts []models.Resort, rows []models.ComparisonRow) {
	width := labelWidth + len(resorts)*(cellWidth+1)
	border := strings.Repeat("═", width)
	thin := strings.Repeat("─", width)

	fmt.Fprintf(w, "\n╔%s╗\n", border)
	fmt.Fprintf(w, "║%s║\n", center("COMPARATIF DES STATIONS", width))
	fmt.Fprintf(w, "╚%s╝\n", border)

	fmt.Fprintf(w, "%s", pad("", labelWidth))
	for i := range resorts {
		fmt.Fprintf(w, " %s", pad(truncate(resorts[i].Name, cellWidth), cellWidth))
	}
	fmt.Fprintln(w)

	for _, row := range rows {
		if row.Section != "" {
			fmt.Fprintf(w, "\n %s\n%s\n", strings.ToUpper(row.Section), thin)
		}
		fmt.Fprintf(w, "%s", pad("  "+row.Label, labelWidth))
		for i, v := range row.Values {
			if i == row.Winner {
				v = "★ " + v
			}
			fmt.Fprintf(w, " %s", pad(truncate(v, cellWidth), cellWidth))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "\n%s\n\n", border)
}

func center(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return s
	}
	left := (width - len(runes)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-len(runes)-left)
}

// pad right-pads by rune count so accented labels stay aligned
func pad(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
