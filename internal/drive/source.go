// backend-go/internal/drive/source.go
package drive

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/feed"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/gviz"
)

// Sheet names inside the exported workbook, one per feed.
const (
	SheetLive        = "Live"
	SheetMaster      = "MASTER"
	SheetTracking    = "Step Tracker"
	SheetCredentials = "Credentials"
)

const exportCacheTTL = time.Minute

// Exporter downloads the dashboard spreadsheet once per refresh and hands
// out per-sheet feed sources, so five feeds cost one Drive export.
type Exporter struct {
	service *Service
	fileID  string

	mu        sync.Mutex
	workbook  *Workbook
	fetchedAt time.Time
}

// NewExporter wraps a Drive service around a single spreadsheet file.
func NewExporter(service *Service, fileID string) *Exporter {
	return &Exporter{service: service, fileID: fileID}
}

// Source returns a feed source that reads the named sheet from the shared
// export.
func (e *Exporter) Source(name, sheet string) feed.Source {
	return &sheetSource{exporter: e, name: name, sheet: sheet}
}

// Sources builds the full source set the feed loader expects. The account
// feed lives in a separate spreadsheet and has no workbook fallback.
func (e *Exporter) Sources() feed.Loader {
	return feed.Loader{
		Live:        e.Source(feed.FeedLive, SheetLive),
		Master:      e.Source(feed.FeedMaster, SheetMaster),
		Tracking:    e.Source(feed.FeedTracking, SheetTracking),
		Credentials: e.Source(feed.FeedCredentials, SheetCredentials),
	}
}

// Invalidate drops the cached export so the next fetch downloads a fresh
// copy. The watcher calls this when the file's modifiedTime moves.
func (e *Exporter) Invalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closeLocked()
}

func (e *Exporter) closeLocked() {
	if e.workbook != nil {
		if err := e.workbook.Close(); err != nil {
			log.Warn().Err(err).Msg("close cached workbook")
		}
		e.workbook = nil
	}
	e.fetchedAt = time.Time{}
}

func (e *Exporter) book(ctx context.Context) (*Workbook, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.workbook != nil && time.Since(e.fetchedAt) < exportCacheTTL {
		return e.workbook, nil
	}

	raw, err := e.service.ExportSpreadsheet(ctx, e.fileID)
	if err != nil {
		return nil, err
	}

	wb, err := OpenWorkbook(raw)
	if err != nil {
		return nil, err
	}

	e.closeLocked()
	e.workbook = wb
	e.fetchedAt = time.Now()

	log.Debug().Str("file", e.fileID).Int("bytes", len(raw)).Msg("spreadsheet exported from drive")
	return wb, nil
}

type sheetSource struct {
	exporter *Exporter
	name     string
	sheet    string
}

func (s *sheetSource) Name() string { return s.name }

func (s *sheetSource) Fetch(ctx context.Context) (feed.Result, error) {
	wb, err := s.exporter.book(ctx)
	if err != nil {
		return feed.Result{}, err
	}

	table, err := wb.SheetTable(s.sheet)
	if err != nil {
		return feed.Result{}, err
	}

	raw, err := json.Marshal(struct {
		Status string      `json:"status"`
		Table  *gviz.Table `json:"table"`
	}{Status: "ok", Table: table})
	if err != nil {
		return feed.Result{}, err
	}

	return feed.Result{Table: table, Raw: raw}, nil
}
