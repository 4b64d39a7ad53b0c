// Command server runs the backend HTTP API.
package main

import (
	"fmt"
	nethttp "net/http"
	"os"

	"github.com/yalin/transinvert/backend/internal/analysis"
	"github.com/yalin/transinvert/backend/internal/backup"
	"github.com/yalin/transinvert/backend/internal/config"
	"github.com/yalin/transinvert/backend/internal/handlers"
	"github.com/yalin/transinvert/backend/internal/http"
	"github.com/yalin/transinvert/backend/internal/logging"
	"github.com/yalin/transinvert/backend/internal/service"
	"github.com/yalin/transinvert/backend/internal/store"
)

func main() {
	logging.Init(os.Stdout, logging.LevelInfo)
	cfg := config.Load()

	st, err := openStore(cfg)
	if err != nil {
		logging.Error("failed to open store", err)
		os.Exit(1)
	}

	analyzer := buildAnalyzer(cfg)
	svc := service.New(st, analyzer)

	router := http.NewRouter(&http.Deps{
		Backup:   handlers.NewBackupHandler(backup.NewExporter(st), backup.NewImporter(st)),
		Texts:    handlers.NewTextHandler(svc),
		Folders:  handlers.NewFolderHandler(svc),
		Practice: handlers.NewPracticeHandler(svc),
	})

	addr := ":" + cfg.APIPort
	logging.Info("server listening", map[string]interface{}{
		"addr":    addr,
		"backend": cfg.StoreBackend,
	})
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		logging.Error("server stopped", err)
		os.Exit(1)
	}
}

// openStore selects the persistence backend from configuration.
func openStore(cfg *config.Config) (store.PersistentStore, error) {
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		return store.OpenSQLiteStore(cfg.DataDir)
	case config.BackendFile:
		return store.NewFileStore(cfg.DataDir)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// buildAnalyzer wires the AI provider, or returns nil when no key is
// configured. The server still runs; AI endpoints report AI_NOT_CONFIGURED.
func buildAnalyzer(cfg *config.Config) *analysis.Analyzer {
	client, err := analysis.NewClient(cfg)
	if err != nil {
		logging.Warn("AI provider not configured, analysis endpoints disabled", map[string]interface{}{
			"provider": cfg.AIProvider,
		})
		return nil
	}
	logging.Info("AI provider configured", map[string]interface{}{
		"provider": cfg.AIProvider,
		"model":    cfg.AIModel,
	})
	return analysis.NewAnalyzer(client)
}
