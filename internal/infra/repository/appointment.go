package repository

import (
	"context"
	"time"

	"exoterior-booking/internal/domain/appointment"
	"exoterior-booking/internal/infra"
	"exoterior-booking/internal/infra/db"
	"exoterior-booking/internal/pkg/pgconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	appointmentsTable = "appointments"

	// AppointmentSlotConstraint guards (date, time_slot); a violation is a lost race, not a fault.
	AppointmentSlotConstraint = "appointments_date_time_slot_key"
)

var appointmentColumns = []string{
	"id", "date", "time_slot", "full_name", "phone", "governorate",
	"address_line", "sub_services", "notes", "created_at",
}

type AppointmentRepository struct {
	builder sq.StatementBuilderType
}

func NewAppointmentRepository() *AppointmentRepository {
	return &AppointmentRepository{builder: psql}
}

func (r *AppointmentRepository) Insert(ctx context.Context, tx db.DBTX, appt *appointment.Appointment) (uuid.UUID, time.Time, error) {
	c := appt.Customer()
	query, args, err := r.builder.Insert(appointmentsTable).
		Columns("date", "time_slot", "full_name", "phone", "governorate", "address_line", "sub_services", "notes").
		Values(
			pgconv.DateFromTime(appt.Date().Time()),
			appt.TimeSlot().String(),
			c.FullName(),
			c.Phone().String(),
			string(c.Governorate()),
			c.AddressLine(),
			serviceStrings(appt.RequestedServices()),
			pgconv.TextOrNull(c.Notes()),
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return uuid.Nil, time.Time{}, infra.WrapRepoErr("failed to build appointment insert", err, infra.KindDBFailure)
	}

	var (
		id        uuid.UUID
		createdAt pgtype.Timestamptz
	)
	if err := tx.QueryRow(ctx, query, args...).Scan(&id, &createdAt); err != nil {
		return uuid.Nil, time.Time{}, infra.WrapRepoErr("failed to insert appointment", err)
	}

	return id, pgconv.TimeFromPgtype(createdAt), nil
}

func (r *AppointmentRepository) FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*appointment.Appointment, error) {
	query, args, err := r.builder.Select(appointmentColumns...).
		From(appointmentsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build appointment select", err, infra.KindDBFailure)
	}

	var (
		row       appointmentRow
		createdAt pgtype.Timestamptz
	)
	err = tx.QueryRow(ctx, query, args...).Scan(
		&row.ID,
		&row.Date,
		&row.TimeSlot,
		&row.FullName,
		&row.Phone,
		&row.Governorate,
		&row.AddressLine,
		&row.SubServices,
		&row.Notes,
		&createdAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find appointment", err)
	}
	row.CreatedAt = pgconv.TimeFromPgtype(createdAt)

	return row.toDomain(), nil
}

func (r *AppointmentRepository) ListOccupiedSlots(ctx context.Context, tx db.DBTX, date appointment.Date) ([]appointment.TimeSlot, error) {
	query, args, err := r.builder.Select("time_slot").
		From(appointmentsTable).
		Where(sq.Eq{"date": pgconv.DateFromTime(date.Time())}).
		OrderBy("time_slot").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build occupied slots query", err, infra.KindDBFailure)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list occupied slots", err)
	}
	defer rows.Close()

	slots := make([]appointment.TimeSlot, 0, appointment.DefaultSlotCount)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, infra.WrapRepoErr("failed to scan occupied slot", err)
		}
		slots = append(slots, appointment.TimeSlot(s))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate occupied slots", err)
	}

	return slots, nil
}

type appointmentRow struct {
	ID          uuid.UUID
	Date        pgtype.Date
	TimeSlot    string
	FullName    string
	Phone       string
	Governorate string
	AddressLine string
	SubServices []string
	Notes       pgtype.Text
	CreatedAt   time.Time
}

// toDomain skips truncation; stored values already satisfy the caps.
func (r appointmentRow) toDomain() *appointment.Appointment {
	customer := appointment.NewCustomer(
		r.FullName,
		appointment.Phone(r.Phone),
		r.AddressLine,
		pgconv.StringFromText(r.Notes),
		appointment.GovernorateID(r.Governorate),
		appointment.FieldLimits{},
	)
	services := make([]appointment.ServiceID, 0, len(r.SubServices))
	for _, s := range r.SubServices {
		services = append(services, appointment.ServiceID(s))
	}
	return appointment.Reconstruct(
		r.ID,
		appointment.DateIn(r.Date.Time, time.UTC),
		appointment.TimeSlot(r.TimeSlot),
		customer,
		services,
		r.CreatedAt,
	)
}

func serviceStrings(ids []appointment.ServiceID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, string(id))
	}
	return out
}
