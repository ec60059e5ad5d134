package cache

import (
	"context"
	"time"

	"frenz/gateway/internal/domain"
)

// SupplierCache shields the upstream supplier endpoint from the load
// of every portal page fetching the same rarely-changing list.
// Purchase orders are never cached.
type SupplierCache interface {
	Get(ctx context.Context, key string) ([]domain.Supplier, bool, error)
	Set(ctx context.Context, key string, suppliers []domain.Supplier, ttl time.Duration) error
}

type NoopSupplierCache struct{}

func (NoopSupplierCache) Get(_ context.Context, _ string) ([]domain.Supplier, bool, error) {
	return nil, false, nil
}

func (NoopSupplierCache) Set(_ context.Context, _ string, _ []domain.Supplier, _ time.Duration) error {
	return nil
}
