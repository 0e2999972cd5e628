// backend-go/cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/api"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/assistant"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/cache"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/config"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/drive"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/feed"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/repository/postgres"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/service"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/storage"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.Setup(cfg.Server.Mode, cfg.Server.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	deps, exporter, driveService := buildDeps(cfg)
	svc := service.NewDashboardService(deps)

	// First load happens before the server accepts traffic; a failure is
	// not fatal, the scheduled refresh keeps retrying.
	bootCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := svc.Bootstrap(bootCtx); err != nil {
		logger.Log.Warn().Err(err).Msg("initial data load failed, serving without data until refresh succeeds")
	}
	cancel()

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Refresh.Spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := svc.Refresh(ctx); err != nil {
			logger.Log.Warn().Err(err).Msg("scheduled refresh failed")
		}
	}); err != nil {
		logger.Log.Fatal().Err(err).Str("spec", cfg.Refresh.Spec).Msg("invalid refresh cron spec")
	}
	scheduler.Start()
	defer scheduler.Stop()

	watchCtx, stopWatcher := context.WithCancel(context.Background())
	defer stopWatcher()
	startDriveWatcher(watchCtx, cfg, svc, exporter, driveService)

	router := api.NewRouter(svc, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

func buildDeps(cfg *config.Config) (service.Deps, *drive.Exporter, *drive.Service) {
	client := &http.Client{Timeout: time.Duration(cfg.Feeds.TimeoutSeconds) * time.Second}
	deps := service.Deps{
		Loader: &feed.Loader{
			Live:        feed.NewHTTPSource(feed.FeedLive, cfg.Feeds.LiveURL, client),
			Master:      feed.NewHTTPSource(feed.FeedMaster, cfg.Feeds.MasterURL, client),
			Tracking:    feed.NewHTTPSource(feed.FeedTracking, cfg.Feeds.TrackingURL, client),
			Account:     feed.NewHTTPSource(feed.FeedAccount, cfg.Feeds.AccountURL, client),
			Credentials: feed.NewHTTPSource(feed.FeedCredentials, cfg.Feeds.CredentialsURL, client),
		},
	}

	if cfg.Cache.Enabled {
		viewCache, err := cache.NewViewCache(cfg.Cache)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("view cache unavailable, running uncached")
		} else {
			deps.ViewCache = viewCache
		}
		calendarCache, err := cache.NewCalendarCache(cfg.Cache)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("calendar cache unavailable, running uncached")
		} else {
			deps.CalendarCache = calendarCache
		}
	}

	if cfg.Database.Enabled {
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("snapshot store unavailable, running without persistence")
		} else {
			deps.Snapshots = postgres.NewSnapshotRepository(db)
		}
	}

	if cfg.Storage.Enabled {
		archive, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("raw feed archive unavailable")
		} else {
			deps.Archive = archive
		}
	}

	if cfg.OpenAI.APIKey != "" {
		deps.Assistant = assistant.New(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	}

	var (
		exporter     *drive.Exporter
		driveService *drive.Service
	)
	if cfg.Drive.Enabled {
		ds, err := drive.NewService(context.Background(), cfg.Drive.CredentialsFile)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("drive fallback unavailable")
		} else {
			driveService = ds
			exporter = drive.NewExporter(ds, cfg.Drive.FileID)
			fallback := exporter.Sources()
			// The account sheet lives in a separate spreadsheet and is
			// optional, so the fallback reuses the direct source for it.
			fallback.Account = deps.Loader.Account
			deps.Fallback = &fallback
		}
	}

	return deps, exporter, driveService
}

// startDriveWatcher polls the spreadsheet's modifiedTime and refreshes the
// snapshot as soon as the sheet changes.
func startDriveWatcher(ctx context.Context, cfg *config.Config, svc *service.DashboardService, exporter *drive.Exporter, driveService *drive.Service) {
	if driveService == nil {
		return
	}

	watcher := drive.NewWatcher(driveService, cfg.Drive.FileID, time.Duration(cfg.Drive.PollSeconds)*time.Second)
	watcher.OnChange = func(ctx context.Context, modifiedTime string) {
		exporter.Invalidate()
		refreshCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()
		if err := svc.Refresh(refreshCtx); err != nil {
			logger.Log.Warn().Err(err).Msg("drive-triggered refresh failed")
		}
	}

	go watcher.Run(ctx)
}
