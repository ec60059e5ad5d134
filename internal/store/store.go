package store

import (
	"context"
	"errors"

	"frenz/gateway/internal/domain"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidDecision = errors.New("invalid decision")
)

// Repository is the gateway's local decision audit trail. Purchase
// orders themselves live upstream; the gateway only records who
// approved or rejected what, and when.
type Repository interface {
	CreateDecision(ctx context.Context, decision domain.Decision) error
	ListDecisions(ctx context.Context, date string, limit int) ([]domain.Decision, error)
}
