package queries

import (
	"context"
	"log/slog"

	"exoterior-booking/internal/pkg/errs"
	"exoterior-booking/internal/usecase/shared"
)

type StoreStatus int

const (
	StoreNotConfigured StoreStatus = iota
	StoreUnreachable
	StoreReachable
)

type StatusQueries interface {
	StoreStatus(ctx context.Context) StoreStatus
}

type statusQueriesImpl struct {
	store shared.BookingStore
}

func NewStatusQueries(store shared.BookingStore) StatusQueries {
	return &statusQueriesImpl{store: store}
}

// StoreStatus pings the store; keepalive callers use it to keep an idle database awake.
func (q *statusQueriesImpl) StoreStatus(ctx context.Context) StoreStatus {
	err := q.store.Ping(ctx)
	switch {
	case err == nil:
		return StoreReachable
	case errs.Is(err, shared.ErrStoreAbsent):
		return StoreNotConfigured
	default:
		slog.WarnContext(ctx, "store ping failed", "store", string(q.store.Mode()), "error", err.Error())
		return StoreUnreachable
	}
}
