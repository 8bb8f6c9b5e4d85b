package repository

import (
	"context"
	"time"

	"exoterior-booking/internal/infra"
	"exoterior-booking/internal/infra/db"
	"exoterior-booking/internal/pkg/pgconv"
	"exoterior-booking/internal/usecase/shared"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const idempotencyTable = "idempotency_keys"

type IdempotencyRepository struct {
	builder sq.StatementBuilderType
}

func NewIdempotencyRepository() *IdempotencyRepository {
	return &IdempotencyRepository{builder: psql}
}

func (r *IdempotencyRepository) TryInsert(ctx context.Context, tx db.DBTX, key uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	query, args, err := r.builder.Insert(idempotencyTable).
		Columns("key", "endpoint", "request_hash", "status", "expires_at").
		Values(key, endpoint, requestHash, shared.IdempotencyStatusProcessing, expiresAt).
		Suffix("ON CONFLICT (key) DO NOTHING").
		ToSql()
	if err != nil {
		return false, infra.WrapRepoErr("failed to build idempotency insert", err, infra.KindDBFailure)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return false, infra.WrapRepoErr("failed to try insert idempotency key", err)
	}

	return tag.RowsAffected() == 1, nil
}

// FindByKey locks the row for the rest of the transaction.
func (r *IdempotencyRepository) FindByKey(ctx context.Context, tx db.DBTX, key uuid.UUID) (*shared.IdempotencyRecord, error) {
	query, args, err := r.builder.Select("key", "endpoint", "status", "request_hash", "appointment_id", "expires_at").
		From(idempotencyTable).
		Where(sq.Eq{"key": key}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build idempotency select", err, infra.KindDBFailure)
	}

	var (
		rec           shared.IdempotencyRecord
		appointmentID pgtype.UUID
		expiresAt     pgtype.Timestamptz
	)
	err = tx.QueryRow(ctx, query, args...).Scan(
		&rec.Key,
		&rec.Endpoint,
		&rec.Status,
		&rec.RequestHash,
		&appointmentID,
		&expiresAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get idempotency key", err)
	}
	rec.AppointmentID = pgconv.UUIDPtrFromPgtype(appointmentID)
	rec.ExpiresAt = pgconv.TimeFromPgtype(expiresAt)

	return &rec, nil
}

func (r *IdempotencyRepository) ClaimExpired(ctx context.Context, tx db.DBTX, key uuid.UUID, requestHash string, expiresAt time.Time) (int64, error) {
	query, args, err := r.builder.Update(idempotencyTable).
		Set("request_hash", requestHash).
		Set("status", shared.IdempotencyStatusProcessing).
		Set("appointment_id", nil).
		Set("expires_at", expiresAt).
		Where(sq.Eq{"key": key}).
		Where(sq.Expr("expires_at <= now()")).
		ToSql()
	if err != nil {
		return 0, infra.WrapRepoErr("failed to build idempotency claim", err, infra.KindDBFailure)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to claim expired idempotency key", err)
	}

	return tag.RowsAffected(), nil
}

func (r *IdempotencyRepository) MarkCompleted(ctx context.Context, tx db.DBTX, key uuid.UUID, appointmentID uuid.UUID) error {
	query, args, err := r.builder.Update(idempotencyTable).
		Set("status", shared.IdempotencyStatusCompleted).
		Set("appointment_id", appointmentID).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build idempotency update", err, infra.KindDBFailure)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr("failed to update idempotency key status", err)
	}

	return nil
}

func (r *IdempotencyRepository) DeleteExpired(ctx context.Context, tx db.DBTX) (int64, error) {
	query, args, err := r.builder.Delete(idempotencyTable).
		Where(sq.Expr("expires_at <= now()")).
		ToSql()
	if err != nil {
		return 0, infra.WrapRepoErr("failed to build idempotency cleanup", err, infra.KindDBFailure)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired idempotency keys", err)
	}

	return tag.RowsAffected(), nil
}
