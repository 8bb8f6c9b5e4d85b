package shared

//go:generate mockgen -source=uow.go -destination=../../../tests/mock/shared/uow.go -package=sharedmock

import (
	"context"
	"time"

	"exoterior-booking/internal/domain/appointment"
	"exoterior-booking/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// Appointments: Repository for reads outside a transaction, used with WithDB
	Appointments() AppointmentRepository
	Ping(ctx context.Context) error
}

type Tx interface {
	Appointments() AppointmentRepository
	Idempotency() IdempotencyRepository
	Notifications() NotificationRepository
	DB() db.DBTX
}

type AppointmentRepository interface {
	Insert(ctx context.Context, tx db.DBTX, appt *appointment.Appointment) (uuid.UUID, time.Time, error)
	FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*appointment.Appointment, error)
	ListOccupiedSlots(ctx context.Context, tx db.DBTX, date appointment.Date) ([]appointment.TimeSlot, error)
}

type IdempotencyRepository interface {
	// TryInsert reports false when the key already exists.
	TryInsert(ctx context.Context, tx db.DBTX, key uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	FindByKey(ctx context.Context, tx db.DBTX, key uuid.UUID) (*IdempotencyRecord, error)
	ClaimExpired(ctx context.Context, tx db.DBTX, key uuid.UUID, requestHash string, expiresAt time.Time) (int64, error)
	MarkCompleted(ctx context.Context, tx db.DBTX, key uuid.UUID, appointmentID uuid.UUID) error
	DeleteExpired(ctx context.Context, tx db.DBTX) (int64, error)
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, tx db.DBTX, kind string, payload []byte, runAt time.Time) error
	// ClaimDue locks due jobs with SKIP LOCKED; call inside a transaction.
	ClaimDue(ctx context.Context, tx db.DBTX, now time.Time, limit int) ([]NotificationJob, error)
	MarkSent(ctx context.Context, tx db.DBTX, id uuid.UUID, sentAt time.Time) error
	MarkRetry(ctx context.Context, tx db.DBTX, id uuid.UUID, lastError string, nextRunAt time.Time) error
	MarkFailed(ctx context.Context, tx db.DBTX, id uuid.UUID, lastError string) error
}
