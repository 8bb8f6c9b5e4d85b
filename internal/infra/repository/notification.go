package repository

import (
	"context"
	"time"

	"exoterior-booking/internal/infra"
	"exoterior-booking/internal/infra/db"
	"exoterior-booking/internal/usecase/shared"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	notificationTable = "notification_jobs"

	jobStatusQueued = "queued"
	jobStatusSent   = "sent"
	jobStatusFailed = "failed"
)

type NotificationRepository struct {
	builder sq.StatementBuilderType
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{builder: psql}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, tx db.DBTX, kind string, payload []byte, runAt time.Time) error {
	query, args, err := r.builder.Insert(notificationTable).
		Columns("kind", "payload", "status", "run_at").
		Values(kind, payload, jobStatusQueued, pgtype.Timestamptz{Time: runAt, Valid: true}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build notification insert", err, infra.KindDBFailure)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}

	return nil
}

func (r *NotificationRepository) ClaimDue(ctx context.Context, tx db.DBTX, now time.Time, limit int) ([]shared.NotificationJob, error) {
	if limit <= 0 {
		return nil, nil
	}
	query, args, err := r.builder.Select("id", "kind", "payload", "attempts", "run_at").
		From(notificationTable).
		Where(sq.Eq{"status": jobStatusQueued}).
		Where(sq.LtOrEq{"run_at": now}).
		OrderBy("run_at").
		Limit(uint64(limit)).
		Suffix("FOR UPDATE SKIP LOCKED").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build notification claim", err, infra.KindDBFailure)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim notification jobs", err)
	}
	defer rows.Close()

	var jobs []shared.NotificationJob
	for rows.Next() {
		var (
			job   shared.NotificationJob
			runAt pgtype.Timestamptz
		)
		if err := rows.Scan(&job.ID, &job.Kind, &job.Payload, &job.Attempts, &runAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan notification job", err)
		}
		job.RunAt = runAt.Time
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate notification jobs", err)
	}

	return jobs, nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, tx db.DBTX, id uuid.UUID, sentAt time.Time) error {
	return r.update(ctx, tx, id, "failed to mark notification job sent", map[string]any{
		"status":     jobStatusSent,
		"sent_at":    sentAt,
		"last_error": nil,
	})
}

func (r *NotificationRepository) MarkRetry(ctx context.Context, tx db.DBTX, id uuid.UUID, lastError string, nextRunAt time.Time) error {
	return r.update(ctx, tx, id, "failed to reschedule notification job", map[string]any{
		"last_error": lastError,
		"run_at":     nextRunAt,
	})
}

func (r *NotificationRepository) MarkFailed(ctx context.Context, tx db.DBTX, id uuid.UUID, lastError string) error {
	return r.update(ctx, tx, id, "failed to mark notification job failed", map[string]any{
		"status":     jobStatusFailed,
		"last_error": lastError,
	})
}

// update always bumps attempts; every transition records one delivery try.
func (r *NotificationRepository) update(ctx context.Context, tx db.DBTX, id uuid.UUID, msg string, set map[string]any) error {
	query, args, err := r.builder.Update(notificationTable).
		SetMap(set).
		Set("attempts", sq.Expr("attempts + 1")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build notification update", err, infra.KindDBFailure)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr(msg, err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(msg, nil, infra.KindNotFound)
	}

	return nil
}
