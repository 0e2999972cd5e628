// backend-go/internal/drive/watcher.go
package drive

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Watcher polls a Drive file's modifiedTime and fires a callback when the
// spreadsheet changes, so edits show up without waiting for the scheduled
// refresh.
type Watcher struct {
	service  *Service
	fileID   string
	interval time.Duration

	// OnChange runs whenever modifiedTime moves. It receives the new
	// modifiedTime string as reported by Drive.
	OnChange func(ctx context.Context, modifiedTime string)

	lastModified string
}

// NewWatcher builds a watcher with the given poll interval.
func NewWatcher(service *Service, fileID string, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Watcher{service: service, fileID: fileID, interval: interval}
}

// Run polls until ctx is cancelled. Poll failures are logged and retried
// on the next tick.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

func (w *Watcher) poll(ctx context.Context) {
	f, err := w.service.GetFile(ctx, w.fileID)
	if err != nil {
		log.Warn().Err(err).Str("file", w.fileID).Msg("drive poll failed")
		return
	}

	if f.ModifiedTime == w.lastModified {
		return
	}

	first := w.lastModified == ""
	w.lastModified = f.ModifiedTime
	if first {
		// First poll just records the baseline.
		return
	}

	log.Info().Str("file", w.fileID).Str("modified", f.ModifiedTime).Msg("spreadsheet changed on drive")
	if w.OnChange != nil {
		w.OnChange(ctx, f.ModifiedTime)
	}
}
