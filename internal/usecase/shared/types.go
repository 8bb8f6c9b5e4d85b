package shared

import (
	"time"

	"github.com/google/uuid"
)

const (
	IdempotencyStatusProcessing = "processing"
	IdempotencyStatusCompleted  = "completed"
)

type IdempotencyRecord struct {
	Key           uuid.UUID
	Endpoint      string
	Status        string
	RequestHash   string
	AppointmentID *uuid.UUID
	ExpiresAt     time.Time
}

func (r IdempotencyRecord) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}

type NotificationJob struct {
	ID       uuid.UUID
	Kind     string
	Payload  []byte
	Attempts int
	RunAt    time.Time
}
