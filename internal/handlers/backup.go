package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/yalin/transinvert/backend/internal/backup"
	apperrors "github.com/yalin/transinvert/backend/internal/errors"
	"github.com/yalin/transinvert/backend/internal/logging"
)

// BackupHandler serves snapshot export and import.
type BackupHandler struct {
	exporter *backup.Exporter
	importer *backup.Importer

	// Imports are single-writer: two overlapping imports against the same
	// store could interleave their load/save pairs.
	importMu sync.Mutex
}

// NewBackupHandler creates a backup handler over a store.
func NewBackupHandler(exporter *backup.Exporter, importer *backup.Importer) *BackupHandler {
	return &BackupHandler{exporter: exporter, importer: importer}
}

// Export writes the full snapshot as a JSON download.
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	snap, err := h.exporter.Export()
	if err != nil {
		writeError(w, err)
		return
	}

	filename := fmt.Sprintf("backup_%s_%s.json",
		snap.Version, time.Now().UTC().Format("20060102150405"))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	writeJSON(w, http.StatusOK, snap)
}

// Import applies an uploaded snapshot. Query parameters: mode=merge|replace
// (default merge) and dry_run=true|false (default false).
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	var snap backup.Snapshot
	if err := decodeJSON(r, &snap); err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrBadSnapshot, "snapshot is not valid JSON", err))
		return
	}

	opts := backup.Options{Mode: backup.Mode(strings.ToLower(r.URL.Query().Get("mode")))}
	if raw := r.URL.Query().Get("dry_run"); raw != "" {
		dryRun, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, apperrors.New(apperrors.ErrInvalid, "dry_run must be a boolean"))
			return
		}
		opts.DryRun = dryRun
	}

	h.importMu.Lock()
	summary, err := h.importer.Import(&snap, opts)
	h.importMu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}

	logging.Info("snapshot imported", map[string]interface{}{
		"mode":    string(summary.Mode),
		"dry_run": summary.DryRun,
		"texts":   summary.Counts.Texts,
	})
	writeData(w, http.StatusOK, summary, "import complete")
}
