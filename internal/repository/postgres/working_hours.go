package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/meddesk/clinic-api/internal/model"
	"github.com/meddesk/clinic-api/internal/repository"
	"github.com/meddesk/clinic-api/pkg/apperr"
)

const clinicHoursColumns = `id, clinic_id, day_of_week, start_time, end_time, is_available, created_at, updated_at`
const staffHoursColumns = `id, clinic_id, staff_id, day_of_week, start_time, end_time, is_available, created_at, updated_at`

type workingHoursTx struct {
	tx *sqlx.Tx
}

func (r *workingHoursRepository) WithTx(ctx context.Context, fn func(repository.WorkingHoursTx) error) error {
	return withTx(r.db, func(tx *sqlx.Tx) error {
		return fn(&workingHoursTx{tx: tx})
	})
}

func (r *workingHoursRepository) ListClinicHours(ctx context.Context, clinicID uuid.UUID, dayOfWeek *int) ([]*model.ClinicWorkingHours, error) {
	query := `
		SELECT ` + clinicHoursColumns + `
		FROM clinic_working_hours
		WHERE clinic_id = $1
	`
	args := []interface{}{clinicID}
	if dayOfWeek != nil {
		query += " AND day_of_week = $2"
		args = append(args, *dayOfWeek)
	}
	query += " ORDER BY day_of_week ASC, start_time ASC"

	var hours []*model.ClinicWorkingHours
	if err := r.db.SelectContext(ctx, &hours, query, args...); err != nil {
		return nil, mapErr("working hours", err)
	}
	return hours, nil
}

func (r *workingHoursRepository) ListStaffHours(ctx context.Context, staffID uuid.UUID, dayOfWeek *int) ([]*model.StaffWorkingHours, error) {
	query := `
		SELECT ` + staffHoursColumns + `
		FROM staff_working_hours
		WHERE staff_id = $1
	`
	args := []interface{}{staffID}
	if dayOfWeek != nil {
		query += " AND day_of_week = $2"
		args = append(args, *dayOfWeek)
	}
	query += " ORDER BY day_of_week ASC, start_time ASC"

	var hours []*model.StaffWorkingHours
	if err := r.db.SelectContext(ctx, &hours, query, args...); err != nil {
		return nil, mapErr("working hours", err)
	}
	return hours, nil
}

func (r *workingHoursRepository) GetClinicHours(ctx context.Context, id uuid.UUID) (*model.ClinicWorkingHours, error) {
	var wh model.ClinicWorkingHours
	query := `SELECT ` + clinicHoursColumns + ` FROM clinic_working_hours WHERE id = $1`
	if err := r.db.GetContext(ctx, &wh, query, id); err != nil {
		return nil, mapErr("working hours", err)
	}
	return &wh, nil
}

func (r *workingHoursRepository) GetStaffHours(ctx context.Context, id uuid.UUID) (*model.StaffWorkingHours, error) {
	var wh model.StaffWorkingHours
	query := `SELECT ` + staffHoursColumns + ` FROM staff_working_hours WHERE id = $1`
	if err := r.db.GetContext(ctx, &wh, query, id); err != nil {
		return nil, mapErr("working hours", err)
	}
	return &wh, nil
}

func (r *workingHoursRepository) DeleteClinicHours(ctx context.Context, id uuid.UUID) error {
	return r.deleteByID(ctx, "clinic_working_hours", id)
}

func (r *workingHoursRepository) DeleteStaffHours(ctx context.Context, id uuid.UUID) error {
	return r.deleteByID(ctx, "staff_working_hours", id)
}

func (r *workingHoursRepository) deleteByID(ctx context.Context, table string, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return mapErr("working hours", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperr.Storage(err)
	}
	if rows == 0 {
		return apperr.NotFound("working hours", nil)
	}
	return nil
}

func (t *workingHoursTx) ListClinicDayHours(ctx context.Context, clinicID uuid.UUID, dayOfWeek int) ([]*model.ClinicWorkingHours, error) {
	query := `
		SELECT ` + clinicHoursColumns + `
		FROM clinic_working_hours
		WHERE clinic_id = $1 AND day_of_week = $2
		ORDER BY start_time ASC
		FOR UPDATE
	`
	var hours []*model.ClinicWorkingHours
	if err := t.tx.SelectContext(ctx, &hours, query, clinicID, dayOfWeek); err != nil {
		return nil, mapErr("working hours", err)
	}
	return hours, nil
}

func (t *workingHoursTx) ListStaffDayHours(ctx context.Context, staffID uuid.UUID, dayOfWeek int) ([]*model.StaffWorkingHours, error) {
	query := `
		SELECT ` + staffHoursColumns + `
		FROM staff_working_hours
		WHERE staff_id = $1 AND day_of_week = $2
		ORDER BY start_time ASC
		FOR UPDATE
	`
	var hours []*model.StaffWorkingHours
	if err := t.tx.SelectContext(ctx, &hours, query, staffID, dayOfWeek); err != nil {
		return nil, mapErr("working hours", err)
	}
	return hours, nil
}

func (t *workingHoursTx) InsertClinicHours(ctx context.Context, wh *model.ClinicWorkingHours) error {
	query := `
		INSERT INTO clinic_working_hours (
			id, clinic_id, day_of_week, start_time, end_time, is_available,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	wh.ID = uuid.New()
	wh.CreatedAt = time.Now()
	wh.UpdatedAt = wh.CreatedAt

	_, err := t.tx.ExecContext(ctx, query,
		wh.ID, wh.ClinicID, wh.DayOfWeek, wh.StartTime, wh.EndTime, wh.IsAvailable,
		wh.CreatedAt, wh.UpdatedAt,
	)
	return mapErr("working hours", err)
}

func (t *workingHoursTx) InsertStaffHours(ctx context.Context, wh *model.StaffWorkingHours) error {
	query := `
		INSERT INTO staff_working_hours (
			id, clinic_id, staff_id, day_of_week, start_time, end_time, is_available,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	wh.ID = uuid.New()
	wh.CreatedAt = time.Now()
	wh.UpdatedAt = wh.CreatedAt

	_, err := t.tx.ExecContext(ctx, query,
		wh.ID, wh.ClinicID, wh.StaffID, wh.DayOfWeek, wh.StartTime, wh.EndTime, wh.IsAvailable,
		wh.CreatedAt, wh.UpdatedAt,
	)
	return mapErr("working hours", err)
}

func (t *workingHoursTx) UpdateClinicHours(ctx context.Context, wh *model.ClinicWorkingHours) error {
	query := `
		UPDATE clinic_working_hours
		SET day_of_week = $1, start_time = $2, end_time = $3, is_available = $4, updated_at = $5
		WHERE id = $6
	`
	wh.UpdatedAt = time.Now()
	return t.execExpectRow(ctx, query,
		wh.DayOfWeek, wh.StartTime, wh.EndTime, wh.IsAvailable, wh.UpdatedAt, wh.ID)
}

func (t *workingHoursTx) UpdateStaffHours(ctx context.Context, wh *model.StaffWorkingHours) error {
	query := `
		UPDATE staff_working_hours
		SET day_of_week = $1, start_time = $2, end_time = $3, is_available = $4, updated_at = $5
		WHERE id = $6
	`
	wh.UpdatedAt = time.Now()
	return t.execExpectRow(ctx, query,
		wh.DayOfWeek, wh.StartTime, wh.EndTime, wh.IsAvailable, wh.UpdatedAt, wh.ID)
}

func (t *workingHoursTx) DeleteAllStaffHours(ctx context.Context, staffID uuid.UUID) error {
	_, err := t.tx.ExecContext(ctx, `DELETE FROM staff_working_hours WHERE staff_id = $1`, staffID)
	return mapErr("working hours", err)
}

func (t *workingHoursTx) execExpectRow(ctx context.Context, query string, args ...interface{}) error {
	result, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return mapErr("working hours", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperr.Storage(err)
	}
	if rows == 0 {
		return apperr.NotFound("working hours", nil)
	}
	return nil
}
