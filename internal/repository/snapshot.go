package repository

import (
	"context"

	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/domain"
)

// SnapshotRepository persists refresh-cycle snapshots so a restart can serve
// the last known data before the first live fetch completes.
type SnapshotRepository interface {
	SaveSnapshot(ctx context.Context, ds *domain.Dataset) (string, error)
	LatestSnapshot(ctx context.Context) (*domain.Dataset, error)
	PruneSnapshots(ctx context.Context, keep int) error
}
