package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/meddesk/clinic-api/internal/model"
	"github.com/meddesk/clinic-api/pkg/apperr"
)

const clinicColumns = `id, name, address, phone, status, created_at, updated_at`
const staffColumns = `id, clinic_id, name, email, password_hash, role, specialty, status, created_at, updated_at`

func (r *clinicRepository) Create(ctx context.Context, clinic *model.Clinic) error {
	query := `
		INSERT INTO clinics (id, name, address, phone, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	clinic.ID = uuid.New()
	clinic.CreatedAt = time.Now()
	clinic.UpdatedAt = clinic.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		clinic.ID, clinic.Name, clinic.Address, clinic.Phone, clinic.Status,
		clinic.CreatedAt, clinic.UpdatedAt,
	)
	return mapErr("clinic", err)
}

func (r *clinicRepository) Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	var clinic model.Clinic
	query := `SELECT ` + clinicColumns + ` FROM clinics WHERE id = $1`
	if err := r.db.GetContext(ctx, &clinic, query, id); err != nil {
		return nil, mapErr("clinic", err)
	}
	return &clinic, nil
}

func (r *clinicRepository) Update(ctx context.Context, clinic *model.Clinic) error {
	query := `
		UPDATE clinics
		SET name = $1, address = $2, phone = $3, status = $4, updated_at = $5
		WHERE id = $6
	`
	clinic.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		clinic.Name, clinic.Address, clinic.Phone, clinic.Status,
		clinic.UpdatedAt, clinic.ID,
	)
	if err != nil {
		return mapErr("clinic", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperr.Storage(err)
	}
	if rows == 0 {
		return apperr.NotFound("clinic", nil)
	}
	return nil
}

func (r *clinicRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clinics WHERE id = $1`, id)
	if err != nil {
		return mapErr("clinic", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperr.Storage(err)
	}
	if rows == 0 {
		return apperr.NotFound("clinic", nil)
	}
	return nil
}

func (r *clinicRepository) List(ctx context.Context) ([]*model.Clinic, error) {
	var clinics []*model.Clinic
	query := `SELECT ` + clinicColumns + ` FROM clinics ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &clinics, query); err != nil {
		return nil, mapErr("clinic", err)
	}
	return clinics, nil
}

func (r *clinicRepository) CreateStaff(ctx context.Context, staff *model.ClinicStaff) error {
	query := `
		INSERT INTO clinic_staff (
			id, clinic_id, name, email, password_hash, role, specialty, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	staff.ID = uuid.New()
	staff.CreatedAt = time.Now()
	staff.UpdatedAt = staff.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		staff.ID, staff.ClinicID, staff.Name, staff.Email, staff.PasswordHash,
		staff.Role, staff.Specialty, staff.Status, staff.CreatedAt, staff.UpdatedAt,
	)
	return mapErr("staff", err)
}

func (r *clinicRepository) GetStaff(ctx context.Context, id uuid.UUID) (*model.ClinicStaff, error) {
	var staff model.ClinicStaff
	query := `SELECT ` + staffColumns + ` FROM clinic_staff WHERE id = $1`
	if err := r.db.GetContext(ctx, &staff, query, id); err != nil {
		return nil, mapErr("staff", err)
	}
	return &staff, nil
}

func (r *clinicRepository) GetStaffByEmail(ctx context.Context, email string) (*model.ClinicStaff, error) {
	var staff model.ClinicStaff
	query := `SELECT ` + staffColumns + ` FROM clinic_staff WHERE email = $1`
	if err := r.db.GetContext(ctx, &staff, query, email); err != nil {
		return nil, mapErr("staff", err)
	}
	return &staff, nil
}

func (r *clinicRepository) ListStaff(ctx context.Context, clinicID uuid.UUID) ([]*model.ClinicStaff, error) {
	var staff []*model.ClinicStaff
	query := `SELECT ` + staffColumns + ` FROM clinic_staff WHERE clinic_id = $1 ORDER BY name ASC`
	if err := r.db.SelectContext(ctx, &staff, query, clinicID); err != nil {
		return nil, mapErr("staff", err)
	}
	return staff, nil
}

func (r *clinicRepository) RemoveStaff(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clinic_staff WHERE id = $1`, id)
	if err != nil {
		return mapErr("staff", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperr.Storage(err)
	}
	if rows == 0 {
		return apperr.NotFound("staff", nil)
	}
	return nil
}
