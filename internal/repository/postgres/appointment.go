package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/meddesk/clinic-api/internal/model"
	"github.com/meddesk/clinic-api/internal/repository"
	"github.com/meddesk/clinic-api/pkg/apperr"
)

const appointmentColumns = `
	id, clinic_id, branch_id, patient_id, service_id, staff_id, scheduled_by,
	start_time, end_time, status, notes, staff_notes, cancel_reason,
	created_at, updated_at`

type appointmentTx struct {
	tx *sqlx.Tx
}

func (r *appointmentRepository) WithTx(ctx context.Context, fn func(repository.AppointmentTx) error) error {
	return withTx(r.db, func(tx *sqlx.Tx) error {
		return fn(&appointmentTx{tx: tx})
	})
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	var appt model.Appointment
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	if err := r.db.GetContext(ctx, &appt, query, id); err != nil {
		return nil, mapErr("appointment", err)
	}
	return &appt, nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE clinic_id = $1`
	args := []interface{}{filters.ClinicID}
	argCount := 2

	if filters.StaffID != uuid.Nil {
		query += fmt.Sprintf(" AND staff_id = $%d", argCount)
		args = append(args, filters.StaffID)
		argCount++
	}
	if filters.PatientID != uuid.Nil {
		query += fmt.Sprintf(" AND patient_id = $%d", argCount)
		args = append(args, filters.PatientID)
		argCount++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}
	if !filters.StartDate.IsZero() {
		query += fmt.Sprintf(" AND start_time >= $%d", argCount)
		args = append(args, filters.StartDate)
		argCount++
	}
	if !filters.EndDate.IsZero() {
		query += fmt.Sprintf(" AND end_time <= $%d", argCount)
		args = append(args, filters.EndDate)
		argCount++
	}

	query += " ORDER BY start_time ASC"

	if filters.Page.PageSize > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, filters.Page.PageSize)
		argCount++
		if filters.Page.Page > 1 {
			query += fmt.Sprintf(" OFFSET $%d", argCount)
			args = append(args, (filters.Page.Page-1)*filters.Page.PageSize)
		}
	}

	var appts []*model.Appointment
	if err := r.db.SelectContext(ctx, &appts, query, args...); err != nil {
		return nil, mapErr("appointment", err)
	}
	return appts, nil
}

func (t *appointmentTx) GetForUpdate(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	var appt model.Appointment
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1 FOR UPDATE`
	if err := t.tx.GetContext(ctx, &appt, query, id); err != nil {
		return nil, mapErr("appointment", err)
	}
	return &appt, nil
}

// ListStaffActiveInWindow locks the pending/confirmed appointments whose
// range intersects [start, end], bounds inclusive, matching the overlap rule
// used everywhere else.
func (t *appointmentTx) ListStaffActiveInWindow(ctx context.Context, staffID uuid.UUID, start, end time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE staff_id = $1
		AND status IN ('pending', 'confirmed')
		AND start_time <= $3
		AND end_time >= $2
		ORDER BY start_time ASC
		FOR UPDATE
	`
	var appts []*model.Appointment
	if err := t.tx.SelectContext(ctx, &appts, query, staffID, start, end); err != nil {
		return nil, mapErr("appointment", err)
	}
	return appts, nil
}

func (t *appointmentTx) Insert(ctx context.Context, appt *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, clinic_id, branch_id, patient_id, service_id, staff_id, scheduled_by,
			start_time, end_time, status, notes, staff_notes, cancel_reason,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	appt.ID = uuid.New()
	appt.CreatedAt = time.Now()
	appt.UpdatedAt = appt.CreatedAt

	_, err := t.tx.ExecContext(ctx, query,
		appt.ID, appt.ClinicID, appt.BranchID, appt.PatientID, appt.ServiceID,
		appt.StaffID, appt.ScheduledBy, appt.StartTime, appt.EndTime, appt.Status,
		appt.Notes, appt.StaffNotes, appt.CancelReason, appt.CreatedAt, appt.UpdatedAt,
	)
	if isExclusionViolation(err) {
		// Constraint backstop: a concurrent booking won the slot.
		return apperr.SlotTaken("time slot already booked")
	}
	return mapErr("appointment", err)
}

func (t *appointmentTx) Update(ctx context.Context, appt *model.Appointment) error {
	query := `
		UPDATE appointments
		SET start_time = $1, end_time = $2, status = $3, notes = $4,
			staff_notes = $5, cancel_reason = $6, updated_at = $7
		WHERE id = $8
	`
	appt.UpdatedAt = time.Now()

	result, err := t.tx.ExecContext(ctx, query,
		appt.StartTime, appt.EndTime, appt.Status, appt.Notes,
		appt.StaffNotes, appt.CancelReason, appt.UpdatedAt, appt.ID,
	)
	if isExclusionViolation(err) {
		return apperr.SlotTaken("time slot already booked")
	}
	if err != nil {
		return mapErr("appointment", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperr.Storage(err)
	}
	if rows == 0 {
		return apperr.NotFound("appointment", nil)
	}
	return nil
}

func (t *appointmentTx) InsertOutboxEvent(ctx context.Context, event *model.OutboxEvent) error {
	query := `
		INSERT INTO outbox_events (
			id, event_type, payload, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`
	event.ID = uuid.New()
	event.Status = model.OutboxStatusPending
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt

	_, err := t.tx.ExecContext(ctx, query,
		event.ID, event.EventType, event.Payload, event.Status,
		event.CreatedAt, event.UpdatedAt,
	)
	return mapErr("outbox event", err)
}
