package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusNoShow    AppointmentStatus = "no_show"
)

// ActiveStatuses are the statuses that block a staff member's time slot.
var ActiveStatuses = []AppointmentStatus{AppointmentStatusPending, AppointmentStatusConfirmed}

type Appointment struct {
	Base
	ClinicID     uuid.UUID         `db:"clinic_id" json:"clinic_id"`
	BranchID     uuid.UUID         `db:"branch_id" json:"branch_id"`
	PatientID    uuid.UUID         `db:"patient_id" json:"patient_id"`
	ServiceID    uuid.UUID         `db:"service_id" json:"service_id"`
	StaffID      uuid.UUID         `db:"staff_id" json:"staff_id"`
	ScheduledBy  uuid.UUID         `db:"scheduled_by" json:"scheduled_by"`
	StartTime    time.Time         `db:"start_time" json:"start_time"`
	EndTime      time.Time         `db:"end_time" json:"end_time"`
	Status       AppointmentStatus `db:"status" json:"status"`
	Notes        string            `db:"notes" json:"notes,omitempty"`
	StaffNotes   string            `db:"staff_notes" json:"staff_notes,omitempty"`
	CancelReason *string           `db:"cancel_reason" json:"cancel_reason,omitempty"`
}

type CreateAppointmentRequest struct {
	ClinicID        uuid.UUID `json:"clinic_id" binding:"required"`
	BranchID        uuid.UUID `json:"branch_id" binding:"required"`
	PatientID       uuid.UUID `json:"patient_id" binding:"required"`
	ServiceID       uuid.UUID `json:"service_id" binding:"required"`
	StaffID         uuid.UUID `json:"staff_id" binding:"required"`
	AppointmentDate string    `json:"appointment_date" binding:"required,datetime=2006-01-02"`
	StartTime       string    `json:"start_time" binding:"required,clock"`
	EndTime         string    `json:"end_time" binding:"required,clock"`
	Notes           string    `json:"notes" binding:"max=1000"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

type AppointmentFilters struct {
	ClinicID  uuid.UUID
	StaffID   uuid.UUID
	PatientID uuid.UUID
	Status    AppointmentStatus
	StartDate time.Time
	EndDate   time.Time
	Page      Pagination
}
