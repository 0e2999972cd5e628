// backend-go/cmd/feedctl/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/cache"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/config"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/dashboard"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/domain"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/feed"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/orders"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/repository/postgres"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/storage"
)

type ctxKey string

const cfgKey ctxKey = "config"

func loadConfig(c *cli.Context) error {
	c.Context = context.WithValue(c.Context, cfgKey, config.Load())
	return nil
}

func cfgFrom(c *cli.Context) *config.Config {
	return c.Context.Value(cfgKey).(*config.Config)
}

func newLoader(cfg *config.Config, archive storage.ObjectStorage) *feed.Loader {
	client := &http.Client{Timeout: time.Duration(cfg.Feeds.TimeoutSeconds) * time.Second}
	loader := &feed.Loader{
		Live:        feed.NewHTTPSource(feed.FeedLive, cfg.Feeds.LiveURL, client),
		Master:      feed.NewHTTPSource(feed.FeedMaster, cfg.Feeds.MasterURL, client),
		Tracking:    feed.NewHTTPSource(feed.FeedTracking, cfg.Feeds.TrackingURL, client),
		Account:     feed.NewHTTPSource(feed.FeedAccount, cfg.Feeds.AccountURL, client),
		Credentials: feed.NewHTTPSource(feed.FeedCredentials, cfg.Feeds.CredentialsURL, client),
	}
	if archive != nil {
		loader.OnRaw = func(feedName string, raw []byte) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			key := storage.ArchiveKey(feedName, time.Now().UTC())
			if err := archive.UploadObject(ctx, key, raw); err != nil {
				fmt.Fprintf(os.Stderr, "archive %s: %v\n", feedName, err)
			}
		}
	}
	return loader
}

func loadDataset(c *cli.Context, archive storage.ObjectStorage) (*domain.Dataset, error) {
	cfg := cfgFrom(c)

	ds, err := newLoader(cfg, archive).Load(c.Context)
	if err != nil {
		return nil, err
	}
	ds.Orders = orders.Enrich(ds.Orders, ds.TrackingByOrderNo())
	return ds, nil
}

func runFetch(c *cli.Context) error {
	ds, err := loadDataset(c, nil)
	if err != nil {
		return err
	}

	fmt.Printf("orders:      %d\n", len(ds.Orders))
	fmt.Printf("catalog:     %d\n", len(ds.Catalog))
	fmt.Printf("tracking:    %d\n", len(ds.Tracking))
	fmt.Printf("accounts:    %d\n", len(ds.Accounts))
	fmt.Printf("credentials: %d\n", len(ds.Credentials))
	fmt.Printf("fiscal years: %v\n", dashboard.FiscalYears(ds.Orders))
	return nil
}

func runSnapshot(c *cli.Context) error {
	cfg := cfgFrom(c)
	if !cfg.Database.Enabled {
		return fmt.Errorf("snapshot requires DB_ENABLED=true")
	}

	var archive storage.ObjectStorage
	if cfg.Storage.Enabled {
		mc, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("connect archive: %w", err)
		}
		archive = mc
	}

	ds, err := loadDataset(c, archive)
	if err != nil {
		return err
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	repo := postgres.NewSnapshotRepository(db)
	id, err := repo.SaveSnapshot(c.Context, ds)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	if keep := c.Int("keep"); keep > 0 {
		if err := repo.PruneSnapshots(c.Context, keep); err != nil {
			return fmt.Errorf("prune snapshots: %w", err)
		}
	}

	fmt.Printf("snapshot %s saved (%d orders)\n", id, len(ds.Orders))
	return nil
}

// runWarm precomputes the dashboard view for every fiscal year and leaves
// the results in the view cache, so the first page load after a deploy is
// served hot.
func runWarm(c *cli.Context) error {
	cfg := cfgFrom(c)
	if !cfg.Cache.Enabled {
		return fmt.Errorf("warm requires CACHE_ENABLED=true")
	}

	viewCache, err := cache.NewViewCache(cfg.Cache)
	if err != nil {
		return fmt.Errorf("connect cache: %w", err)
	}

	ds, err := loadDataset(c, nil)
	if err != nil {
		return err
	}

	years := dashboard.FiscalYears(ds.Orders)
	for _, year := range years {
		st := domain.ViewState{AdminView: true, Year: year}

		scoped := dashboard.ClientScoped(ds.Orders, st)
		neverBought := dashboard.NeverBought(ds.Catalog, scoped, st)
		chartRows := dashboard.ChartRows(ds.Orders, st)

		view := &domain.DashboardView{
			KPIs:         dashboard.KPIs(ds.Orders, len(neverBought), st),
			CountryChart: dashboard.CountryChart(chartRows),
			MonthlyChart: dashboard.MonthlyChart(chartRows),
			FiscalYears:  years,
			LastUpdate:   ds.FetchedAt,
		}
		if err := viewCache.SetView(c.Context, st, view); err != nil {
			return fmt.Errorf("warm year %s: %w", year, err)
		}
	}

	fmt.Printf("warmed %d fiscal years\n", len(years))
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:   "feedctl",
		Usage:  "Fetch, persist and warm the dashboard feed snapshot",
		Before: loadConfig,
		Commands: []*cli.Command{
			{
				Name:   "fetch",
				Usage:  "Fetch all feeds and print a summary",
				Before: loadConfig,
				Action: runFetch,
			},
			{
				Name:  "snapshot",
				Usage: "Fetch all feeds and persist a snapshot to the database",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "keep",
						Usage:   "How many snapshots to keep after saving",
						Value:   10,
						EnvVars: []string{"SNAPSHOT_KEEP"},
					},
				},
				Before: loadConfig,
				Action: runSnapshot,
			},
			{
				Name:   "warm",
				Usage:  "Fetch all feeds and precompute per-year dashboard views into the cache",
				Before: loadConfig,
				Action: runWarm,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
