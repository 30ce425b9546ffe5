package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/nexocrm/nexo/internal/audit"
	auditStore "github.com/nexocrm/nexo/internal/audit/store"
	"github.com/nexocrm/nexo/internal/capture"
	captureStore "github.com/nexocrm/nexo/internal/capture/store"
	"github.com/nexocrm/nexo/internal/config"
	"github.com/nexocrm/nexo/internal/contact"
	contactStore "github.com/nexocrm/nexo/internal/contact/store"
	"github.com/nexocrm/nexo/internal/database"
	"github.com/nexocrm/nexo/internal/deal"
	dealStore "github.com/nexocrm/nexo/internal/deal/store"
	nexoHttp "github.com/nexocrm/nexo/internal/http"
	captureHandler "github.com/nexocrm/nexo/internal/http/capture"
	contactHandler "github.com/nexocrm/nexo/internal/http/contact"
	dealHandler "github.com/nexocrm/nexo/internal/http/deal"
	importHandler "github.com/nexocrm/nexo/internal/http/importcsv"
	"github.com/nexocrm/nexo/internal/importer"
	"github.com/nexocrm/nexo/internal/importer/csv"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(cfg.ConnectionString(), cfg.Migrations.Path); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	recorder := audit.NewRecorder(auditStore.New(db))

	var (
		contactService = contact.NewService(contactStore.New(db))
		dealService    = deal.NewService(dealStore.New(db))
		captureService = capture.NewService(captureStore.New(db))
		importService  = importer.NewService(csv.New(), contactService)
	)

	var (
		contactH = contactHandler.NewHandler(contactService, recorder)
		dealH    = dealHandler.NewHandler(dealService, recorder)
		captureH = captureHandler.NewHandler(captureService, recorder)
		importH  = importHandler.NewHandler(importService, recorder)
	)

	router := nexoHttp.New(cfg.Auth.JWTSecret, contactH, dealH, captureH, importH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
