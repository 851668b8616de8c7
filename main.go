package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ski-planner/api"
	"ski-planner/catalog"
	"ski-planner/config"
	"ski-planner/favorites"
	"ski-planner/models"
	"ski-planner/services"
	"ski-planner/storage"
	"ski-planner/utils"
)

// logNavigator prints route changes; there is no detail view in the terminal
type logNavigator struct {
	logger *utils.Logger
}

func (n logNavigator) Navigate(path string) {
	n.logger.Info("→ %s", path)
}

func main() {
	os.Exit(run())
}

// run holds the whole CLI so deferred cleanup happens before the process exits
func run() int {
	query := flag.String("q", "", "free-text search")
	maxPass := flag.Float64("max-pass", 0, "max daily adult pass price")
	maxLodging := flag.Float64("max-lodging", 0, "max nightly accommodation price")
	maxDistance := flag.Float64("max-distance", 0, "max distance in km (not supported yet)")
	levels := flag.String("levels", "", "comma-separated levels (beginner,intermediate,advanced,expert)")
	toggleFavs := flag.String("fav", "", "comma-separated station ids to toggle as favorite")
	compare := flag.String("compare", "", "comma-separated station ids to compare (default: first 3 results)")
	export := flag.Bool("export", false, "write search results to CSV_FILE_PATH")
	snapshot := flag.Bool("snapshot", false, "copy the catalog to CSV/PostgreSQL and exit (or keep running with SNAPSHOT_SCHEDULE)")
	flag.Parse()

	// ================== Bootstrap ====================
	cfg := config.Load()
	logger := utils.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Ski resort planner")
	logger.Info("Catalog: %s | User: %s | Retries: %d", cfg.APIBase, cfg.UserID, cfg.MaxRetries)

	transport := api.NewTransport(cfg, logger)

	var cache catalog.Cache
	if cfg.RedisURL != "" {
		redisCache, err := catalog.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis unavailable, continuing without cache: %v", err)
		} else {
			defer redisCache.Close()
			cache = redisCache
			logger.Info("Catalog cache enabled (TTL %ds)", cfg.CacheTTLSeconds)
		}
	}
	catalogClient := catalog.NewClient(transport, cache, time.Duration(cfg.CacheTTLSeconds)*time.Second, logger)

	if *snapshot {
		return runSnapshot(ctx, cfg, catalogClient, logger)
	}

	// ================== Session ====================
	store := favorites.NewStore(transport, cfg.UserID, logger)
	engine := services.NewSearchEngine(catalogClient, logger)
	session := services.NewTripSession(store, engine, logNavigator{logger}, logger)

	events := session.Subscribe(32)
	eventsDone := make(chan struct{})
	defer func() {
		session.Close()
		<-eventsDone
	}()
	go func() {
		defer close(eventsDone)
		for ev := range events {
			switch ev.Kind {
			case services.EventFavoriteFailed, services.EventSearchFailed:
				logger.Error("%s", ev.Message)
			case services.EventSelectionLimit, services.EventNotice:
				logger.Warn("%s", ev.Message)
			}
		}
	}()

	session.LoadFavorites(ctx)
	for _, id := range splitList(*toggleFavs) {
		session.ToggleFavorite(ctx, id)
	}
	logger.Info("Favorites: %s", strings.Join(session.FavoriteIDs(), ", "))

	filters := models.Filters{
		MaxLodgingPrice:  *maxLodging,
		MaxLiftPassPrice: *maxPass,
		Levels:           splitList(*levels),
		MaxDistance:      *maxDistance,
	}
	for _, l := range filters.Levels {
		if !models.IsKnownLevel(l) {
			logger.Warn("Unknown level %q, it will match nothing", l)
		}
	}

	session.Search(ctx, *query, filters)
	st := session.Snapshot()
	switch {
	case !st.HasSearched:
		logger.Info("Nothing to search: pass -q or a filter")
	case st.SearchError != "":
		logger.Error("Search failed: %s", st.SearchError)
		return 1
	default:
		services.PrintResults(os.Stdout, st.Results, session.FavoriteIDs())
	}

	if *export && st.HasSearched && st.SearchError == "" {
		csvWriter := storage.NewCSVWriter(cfg.CSVFilePath, logger)
		if err := csvWriter.SaveResorts(ctx, st.Results); err != nil {
			logger.Error("Failed to write CSV: %v", err)
		}
	}

	// ================== Comparison ====================
	for _, r := range pickForComparison(ctx, catalogClient, st.Results, splitList(*compare), logger) {
		if err := session.ToggleCompare(r); err != nil {
			break
		}
	}
	selected := session.Snapshot().Compare
	if len(selected) == 0 {
		return 0
	}
	services.PrintComparison(os.Stdout, selected, session.Compare())
	if len(selected) == 1 {
		session.SelectStation(selected[0])
	}
	return 0
}

// pickForComparison resolves explicit ids through the catalog, or takes the first results
func pickForComparison(ctx context.Context, c *catalog.Client, results []models.Resort, ids []string, logger *utils.Logger) []models.Resort {
	if len(ids) == 0 {
		if len(results) > services.MaxCompared {
			return results[:services.MaxCompared]
		}
		return results
	}
	picked := make([]models.Resort, 0, len(ids))
	for _, id := range ids {
		r, err := c.GetStation(ctx, id)
		if err != nil {
			logger.Error("Station %s: %v", id, err)
			continue
		}
		picked = append(picked, *r)
	}
	return picked
}

func runSnapshot(ctx context.Context, cfg *config.Config, c *catalog.Client, logger *utils.Logger) int {
	sinks := []storage.ResortSink{storage.NewCSVWriter(cfg.CSVFilePath, logger)}

	if cfg.DatabaseURL != "" {
		pgWriter, err := storage.NewPostgresWriter(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			logger.Error("Cannot connect to PostgreSQL: %v", err)
			return 1
		}
		defer pgWriter.Close()
		if err := pgWriter.CreateTable(ctx); err != nil {
			logger.Error("Failed to create DB table: %v", err)
			return 1
		}
		sinks = append(sinks, pgWriter)
	}

	job := services.NewSnapshotJob(c, 5*time.Minute, logger, sinks...)
	if err := job.Run(ctx); err != nil {
		logger.Error("%v", err)
		if cfg.SnapshotSchedule == "" {
			return 1
		}
	}
	if cfg.SnapshotSchedule == "" {
		return 0
	}

	if _, err := job.Schedule(ctx, cfg.SnapshotSchedule); err != nil {
		logger.Error("%v", err)
		return 1
	}
	<-ctx.Done()
	logger.Info("Snapshot scheduler stopped")
	return 0
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
