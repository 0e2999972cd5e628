// backend-go/internal/service/dashboard_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/account"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/assistant"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/auth"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/cache"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/calendar"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/dashboard"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/domain"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/feed"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/orders"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/repository"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/storage"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/tracking"
)

// ErrNoData means no snapshot has been loaded yet, from the feeds or from
// the snapshot store.
var ErrNoData = errors.New("no dataset loaded")

const defaultKeepSnapshots = 10

// Deps wires the dashboard service. Loader is required; everything else
// degrades gracefully when nil.
type Deps struct {
	Loader   *feed.Loader
	Fallback *feed.Loader

	ViewCache     cache.ViewCache
	CalendarCache cache.CalendarCache
	Snapshots     repository.SnapshotRepository
	Archive       storage.ObjectStorage
	Assistant     *assistant.Assistant

	KeepSnapshots int
}

// DashboardService owns the in-memory snapshot and serves every dashboard
// query from it. A refresh swaps the snapshot atomically; readers never see
// a partially loaded dataset.
type DashboardService struct {
	deps Deps

	mu      sync.RWMutex
	current *domain.Dataset
	tracked map[string]bool
	users   *auth.Store
}

func NewDashboardService(deps Deps) *DashboardService {
	if deps.KeepSnapshots <= 0 {
		deps.KeepSnapshots = defaultKeepSnapshots
	}
	return &DashboardService{deps: deps, users: auth.NewStore(nil)}
}

// Bootstrap loads the first snapshot: from the live feeds when they are
// reachable, otherwise from the most recent persisted snapshot.
func (s *DashboardService) Bootstrap(ctx context.Context) error {
	if err := s.Refresh(ctx); err == nil {
		return nil
	} else if s.deps.Snapshots == nil {
		return err
	} else {
		log.Warn().Err(err).Msg("initial feed load failed, falling back to snapshot store")
	}

	ds, err := s.deps.Snapshots.LatestSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("load latest snapshot: %w", err)
	}
	if ds == nil {
		return ErrNoData
	}

	s.install(ds)
	log.Info().Time("fetchedAt", ds.FetchedAt).Msg("restored dataset from snapshot store")
	return nil
}

// Refresh pulls a fresh snapshot from the feeds, enriches the order
// statuses from tracking milestones, and swaps it in. Caches are
// invalidated and the snapshot is persisted when a store is configured.
func (s *DashboardService) Refresh(ctx context.Context) error {
	if s.deps.Loader == nil {
		return fmt.Errorf("no feed loader configured")
	}

	if s.deps.Archive != nil {
		s.deps.Loader.OnRaw = s.archiveRaw
	}

	ds, err := s.deps.Loader.Load(ctx)
	if err != nil && s.deps.Fallback != nil {
		log.Warn().Err(err).Msg("feed load failed, trying drive export fallback")
		ds, err = s.deps.Fallback.Load(ctx)
	}
	if err != nil {
		return err
	}

	ds.Orders = orders.Enrich(ds.Orders, ds.TrackingByOrderNo())
	s.install(ds)

	if s.deps.ViewCache != nil {
		if err := s.deps.ViewCache.InvalidateAll(ctx); err != nil {
			log.Warn().Err(err).Msg("view cache invalidation failed")
		}
	}
	if s.deps.CalendarCache != nil {
		if err := s.deps.CalendarCache.InvalidateAll(ctx); err != nil {
			log.Warn().Err(err).Msg("calendar cache invalidation failed")
		}
	}

	if s.deps.Snapshots != nil {
		id, err := s.deps.Snapshots.SaveSnapshot(ctx, ds)
		if err != nil {
			log.Warn().Err(err).Msg("snapshot persist failed")
		} else {
			log.Debug().Str("snapshot", id).Msg("snapshot persisted")
			if err := s.deps.Snapshots.PruneSnapshots(ctx, s.deps.KeepSnapshots); err != nil {
				log.Warn().Err(err).Msg("snapshot prune failed")
			}
		}
	}

	return nil
}

func (s *DashboardService) archiveRaw(feedName string, raw []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	key := storage.ArchiveKey(feedName, time.Now().UTC())
	if err := s.deps.Archive.UploadObject(ctx, key, raw); err != nil {
		log.Warn().Err(err).Str("feed", feedName).Str("key", key).Msg("raw feed archive failed")
	}
}

func (s *DashboardService) install(ds *domain.Dataset) {
	tracked := make(map[string]bool, len(ds.Tracking))
	for _, t := range ds.Tracking {
		tracked[t.OrderNo] = true
	}

	s.mu.Lock()
	s.current = ds
	s.tracked = tracked
	s.users = auth.NewStore(ds.Credentials)
	s.mu.Unlock()
}

func (s *DashboardService) dataset() (*domain.Dataset, map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, nil, ErrNoData
	}
	return s.current, s.tracked, nil
}

// LastUpdate reports when the current snapshot was fetched.
func (s *DashboardService) LastUpdate() (time.Time, error) {
	ds, _, err := s.dataset()
	if err != nil {
		return time.Time{}, err
	}
	return ds.FetchedAt, nil
}

// Login authenticates against the credentials feed of the current snapshot.
func (s *DashboardService) Login(name, key string) (auth.User, error) {
	s.mu.RLock()
	users := s.users
	s.mu.RUnlock()
	return users.Authenticate(name, key)
}

// Dashboard assembles the KPI-and-charts view for one view state, serving
// from the view cache when possible.
func (s *DashboardService) Dashboard(ctx context.Context, st domain.ViewState) (*domain.DashboardView, error) {
	ds, _, err := s.dataset()
	if err != nil {
		return nil, err
	}

	if s.deps.ViewCache != nil {
		if view, ok, err := s.deps.ViewCache.GetView(ctx, st); err == nil && ok {
			return view, nil
		} else if err != nil {
			log.Warn().Err(err).Msg("view cache get failed")
		}
	}

	scoped := dashboard.ClientScoped(ds.Orders, st)
	neverBought := dashboard.NeverBought(ds.Catalog, scoped, st)
	chartRows := dashboard.ChartRows(ds.Orders, st)

	view := &domain.DashboardView{
		KPIs:         dashboard.KPIs(ds.Orders, len(neverBought), st),
		CountryChart: dashboard.CountryChart(chartRows),
		MonthlyChart: dashboard.MonthlyChart(chartRows),
		FiscalYears:  dashboard.FiscalYears(ds.Orders),
		LastUpdate:   ds.FetchedAt,
	}

	if s.deps.ViewCache != nil {
		if err := s.deps.ViewCache.SetView(ctx, st, view); err != nil {
			log.Warn().Err(err).Msg("view cache set failed")
		}
	}

	return view, nil
}

// Orders returns one page of the grouped order table for a view state.
func (s *DashboardService) Orders(ctx context.Context, st domain.ViewState) (domain.OrderPage, error) {
	ds, tracked, err := s.dataset()
	if err != nil {
		return domain.OrderPage{}, err
	}

	rows := dashboard.TableRows(ds.Orders, st)
	return orders.BuildPage(rows, tracked, st.Drill, st.Page), nil
}

// NeverBought lists catalog products the scoped client has never ordered.
func (s *DashboardService) NeverBought(ctx context.Context, st domain.ViewState) ([]domain.NeverBoughtProduct, error) {
	ds, _, err := s.dataset()
	if err != nil {
		return nil, err
	}

	scoped := dashboard.ClientScoped(ds.Orders, st)
	return dashboard.NeverBought(ds.Catalog, scoped, st), nil
}

// Tracking builds the milestone timeline and settlement summary for one
// order number.
func (s *DashboardService) Tracking(ctx context.Context, orderNo string) (domain.TrackingTimeline, error) {
	ds, _, err := s.dataset()
	if err != nil {
		return domain.TrackingTimeline{}, err
	}
	return tracking.Lookup(ds, orderNo), nil
}

// Account serves the payment dashboard for one account query.
func (s *DashboardService) Account(ctx context.Context, q account.Query) (domain.AccountSummary, error) {
	ds, _, err := s.dataset()
	if err != nil {
		return domain.AccountSummary{}, err
	}
	return account.Summarize(ds.Accounts, q), nil
}

// AccountFilters returns the country and client dropdown options for the
// account dashboard.
func (s *DashboardService) AccountFilters(ctx context.Context, q account.Query) (countries, clients []string, err error) {
	ds, _, err := s.dataset()
	if err != nil {
		return nil, nil, err
	}
	return account.Countries(ds.Accounts, q), account.Clients(ds.Accounts, q), nil
}

// Calendar builds the shipment calendar for one query, serving from the
// calendar cache when possible.
func (s *DashboardService) Calendar(ctx context.Context, q calendar.Query) (*domain.CalendarView, error) {
	ds, _, err := s.dataset()
	if err != nil {
		return nil, err
	}

	if s.deps.CalendarCache != nil {
		if view, ok, err := s.deps.CalendarCache.Get(ctx, q); err == nil && ok {
			return view, nil
		} else if err != nil {
			log.Warn().Err(err).Msg("calendar cache get failed")
		}
	}

	view := calendar.Build(ds.Orders, q)

	if s.deps.CalendarCache != nil {
		if err := s.deps.CalendarCache.Set(ctx, q, &view); err != nil {
			log.Warn().Err(err).Msg("calendar cache set failed")
		}
	}

	return &view, nil
}

// Chat answers a data question over the caller's scoped snapshot. One
// question per session runs at a time.
func (s *DashboardService) Chat(ctx context.Context, sessionID string, st domain.ViewState, question string) (string, error) {
	if s.deps.Assistant == nil {
		return "", fmt.Errorf("assistant not configured")
	}

	ds, _, err := s.dataset()
	if err != nil {
		return "", err
	}

	scoped := dashboard.ClientScoped(ds.Orders, st)
	chartRows := dashboard.ChartRows(ds.Orders, st)
	neverBought := dashboard.NeverBought(ds.Catalog, scoped, st)

	in := assistant.ContextInput{
		Orders:       scoped,
		Catalog:      ds.Catalog,
		Tracking:     ds.TrackingByOrderNo(),
		KPIs:         dashboard.KPIs(ds.Orders, len(neverBought), st),
		CountryChart: dashboard.CountryChart(chartRows),
		MonthlyChart: dashboard.MonthlyChart(chartRows),
		ClientName:   st.User,
		Admin:        st.AdminView,
	}

	return s.deps.Assistant.Ask(ctx, sessionID, in, question)
}
