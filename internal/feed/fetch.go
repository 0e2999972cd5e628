// backend-go/internal/feed/fetch.go
package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/domain"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/gviz"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Feed names used in logs, cache keys and the raw-payload archive.
const (
	FeedLive        = "live"
	FeedMaster      = "master"
	FeedTracking    = "step"
	FeedAccount     = "account"
	FeedCredentials = "credentials"
)

// FatalLoadError means a mandatory feed (live orders or master catalog)
// could not be loaded. No partial dataset is produced.
type FatalLoadError struct {
	Feed string
	Err  error
}

func (e *FatalLoadError) Error() string {
	return fmt.Sprintf("fatal load error on %s feed: %v", e.Feed, e.Err)
}

func (e *FatalLoadError) Unwrap() error { return e.Err }

// Result is one fetched feed: the decoded table plus the raw payload for
// archiving.
type Result struct {
	Table *gviz.Table
	Raw   []byte
}

// Source fetches and decodes one feed.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (Result, error)
}

type httpSource struct {
	name   string
	url    string
	client *http.Client
}

// NewHTTPSource fetches a gviz endpoint over plain HTTP.
func NewHTTPSource(name, url string, client *http.Client) Source {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &httpSource{name: name, url: url, client: client}
}

func (s *httpSource) Name() string { return s.name }

func (s *httpSource) Fetch(ctx context.Context) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("fetch %s: %w", s.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("fetch %s: http status %d", s.name, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read %s body: %w", s.name, err)
	}

	table, err := gviz.ParseResponse(raw)
	if err != nil {
		return Result{}, err
	}

	return Result{Table: table, Raw: raw}, nil
}

// Loader assembles one dataset snapshot from the five feeds. Live and
// Master must both succeed; the remaining feeds degrade to empty slices on
// any failure so one broken sheet cannot take the dashboard down.
type Loader struct {
	Live        Source
	Master      Source
	Tracking    Source
	Account     Source
	Credentials Source

	// OnRaw, when set, receives every successfully fetched raw payload.
	OnRaw func(feed string, raw []byte)
}

// Load fetches all configured feeds concurrently and returns the parsed
// snapshot. Only a primary-feed failure returns an error.
func (l *Loader) Load(ctx context.Context) (*domain.Dataset, error) {
	if l.Live == nil {
		return nil, &FatalLoadError{Feed: FeedLive, Err: fmt.Errorf("no source configured")}
	}
	if l.Master == nil {
		return nil, &FatalLoadError{Feed: FeedMaster, Err: fmt.Errorf("no source configured")}
	}

	ds := &domain.Dataset{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := l.Live.Fetch(gctx)
		if err != nil {
			return &FatalLoadError{Feed: FeedLive, Err: err}
		}
		l.archive(FeedLive, res.Raw)
		ds.Orders = ParseOrders(res.Table)
		return nil
	})
	g.Go(func() error {
		res, err := l.Master.Fetch(gctx)
		if err != nil {
			return &FatalLoadError{Feed: FeedMaster, Err: err}
		}
		l.archive(FeedMaster, res.Raw)
		ds.Catalog = ParseCatalog(res.Table)
		return nil
	})

	// Secondary feeds are isolated from the primaries and from each
	// other: a failure just leaves that slice empty.
	var wg sync.WaitGroup
	secondary := func(src Source, assign func(*gviz.Table)) {
		if src == nil {
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := src.Fetch(ctx)
			if err != nil {
				log.Warn().Err(err).Str("feed", src.Name()).Msg("secondary feed unavailable, continuing without it")
				return
			}
			l.archive(src.Name(), res.Raw)
			assign(res.Table)
		}()
	}

	secondary(l.Tracking, func(t *gviz.Table) { ds.Tracking = ParseTracking(t) })
	secondary(l.Account, func(t *gviz.Table) { ds.Accounts = ParseAccounts(t) })
	secondary(l.Credentials, func(t *gviz.Table) { ds.Credentials = ParseCredentials(t) })

	if err := g.Wait(); err != nil {
		wg.Wait()
		return nil, err
	}
	wg.Wait()

	ds.FetchedAt = time.Now()

	log.Info().
		Int("orders", len(ds.Orders)).
		Int("catalog", len(ds.Catalog)).
		Int("tracking", len(ds.Tracking)).
		Int("accounts", len(ds.Accounts)).
		Msg("feed snapshot loaded")

	return ds, nil
}

func (l *Loader) archive(feed string, raw []byte) {
	if l.OnRaw != nil && len(raw) > 0 {
		l.OnRaw(feed, raw)
	}
}
