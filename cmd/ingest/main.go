// backend-go/cmd/ingest/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/config"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/drive"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/repository/postgres"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/service"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/pkg/logger"
)

// The ingest server pulls data through the Drive export path only: it
// inspects the spreadsheet, exports it, and persists snapshots without
// touching the gviz endpoints. Useful when the sheets are not published.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Setup(cfg.Server.Mode, cfg.Server.LogLevel)

	driveService, err := drive.NewService(context.Background(), cfg.Drive.CredentialsFile)
	if err != nil {
		log.Fatalf("Failed to initialize Google Drive service: %v", err)
	}

	exporter := drive.NewExporter(driveService, cfg.Drive.FileID)
	loader := exporter.Sources()

	deps := service.Deps{Loader: &loader}
	if cfg.Database.Enabled {
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		deps.Snapshots = postgres.NewSnapshotRepository(db)
	}
	svc := service.NewDashboardService(deps)

	r := mux.NewRouter()

	driveHandler := drive.NewHandler(driveService, exporter)
	driveHandler.Refresh = svc.Refresh
	driveHandler.RegisterRoutes(r)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Ingest server starting on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}
