package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/meddesk/clinic-api/internal/model"
)

// Write paths that must hold the no-overlap invariant run inside a
// transaction: the Tx views lock the sibling rows they read (SELECT ... FOR
// UPDATE in the postgres implementation) so concurrent writers serialize on
// the same scope instead of racing past an unlocked pre-check.

type (
	// WorkingHoursTx is the transactional view of the working-hours store.
	WorkingHoursTx interface {
		// ListClinicDayHours returns and locks all clinic-scope intervals
		// for one clinic and weekday.
		ListClinicDayHours(ctx context.Context, clinicID uuid.UUID, dayOfWeek int) ([]*model.ClinicWorkingHours, error)
		// ListStaffDayHours returns and locks all staff-scope intervals for
		// one staff member and weekday.
		ListStaffDayHours(ctx context.Context, staffID uuid.UUID, dayOfWeek int) ([]*model.StaffWorkingHours, error)
		InsertClinicHours(ctx context.Context, wh *model.ClinicWorkingHours) error
		InsertStaffHours(ctx context.Context, wh *model.StaffWorkingHours) error
		UpdateClinicHours(ctx context.Context, wh *model.ClinicWorkingHours) error
		UpdateStaffHours(ctx context.Context, wh *model.StaffWorkingHours) error
		DeleteAllStaffHours(ctx context.Context, staffID uuid.UUID) error
	}

	WorkingHoursRepository interface {
		WithTx(ctx context.Context, fn func(WorkingHoursTx) error) error
		ListClinicHours(ctx context.Context, clinicID uuid.UUID, dayOfWeek *int) ([]*model.ClinicWorkingHours, error)
		ListStaffHours(ctx context.Context, staffID uuid.UUID, dayOfWeek *int) ([]*model.StaffWorkingHours, error)
		GetClinicHours(ctx context.Context, id uuid.UUID) (*model.ClinicWorkingHours, error)
		GetStaffHours(ctx context.Context, id uuid.UUID) (*model.StaffWorkingHours, error)
		DeleteClinicHours(ctx context.Context, id uuid.UUID) error
		DeleteStaffHours(ctx context.Context, id uuid.UUID) error
	}

	// AppointmentTx is the transactional view of the appointment store.
	AppointmentTx interface {
		GetForUpdate(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		// ListStaffActiveInWindow returns and locks pending/confirmed
		// appointments for the staff member whose range intersects
		// [start, end], bounds inclusive.
		ListStaffActiveInWindow(ctx context.Context, staffID uuid.UUID, start, end time.Time) ([]*model.Appointment, error)
		Insert(ctx context.Context, appt *model.Appointment) error
		Update(ctx context.Context, appt *model.Appointment) error
		InsertOutboxEvent(ctx context.Context, event *model.OutboxEvent) error
	}

	AppointmentRepository interface {
		WithTx(ctx context.Context, fn func(AppointmentTx) error) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
	}

	ClinicRepository interface {
		Create(ctx context.Context, clinic *model.Clinic) error
		Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
		Update(ctx context.Context, clinic *model.Clinic) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Clinic, error)
		CreateStaff(ctx context.Context, staff *model.ClinicStaff) error
		GetStaff(ctx context.Context, id uuid.UUID) (*model.ClinicStaff, error)
		GetStaffByEmail(ctx context.Context, email string) (*model.ClinicStaff, error)
		ListStaff(ctx context.Context, clinicID uuid.UUID) ([]*model.ClinicStaff, error)
		RemoveStaff(ctx context.Context, id uuid.UUID) error
	}

	OutboxRepository interface {
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error
	}
)
