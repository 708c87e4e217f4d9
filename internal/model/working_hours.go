package model

import (
	"github.com/google/uuid"
)

// ClinicWorkingHours is a clinic-scope working interval: the general opening
// hours for one day of the week. No two rows for the same clinic and day may
// overlap; the service layer enforces this at write time.
type ClinicWorkingHours struct {
	Base
	ClinicID    uuid.UUID `db:"clinic_id" json:"clinic_id"`
	DayOfWeek   int       `db:"day_of_week" json:"day_of_week"`
	StartTime   string    `db:"start_time" json:"start_time"`
	EndTime     string    `db:"end_time" json:"end_time"`
	IsAvailable bool      `db:"is_available" json:"is_available"`
}

// StaffWorkingHours is a staff-scope working interval. Same no-overlap
// invariant, keyed by (staff_id, day_of_week).
type StaffWorkingHours struct {
	Base
	ClinicID    uuid.UUID `db:"clinic_id" json:"clinic_id"`
	StaffID     uuid.UUID `db:"staff_id" json:"staff_id"`
	DayOfWeek   int       `db:"day_of_week" json:"day_of_week"`
	StartTime   string    `db:"start_time" json:"start_time"`
	EndTime     string    `db:"end_time" json:"end_time"`
	IsAvailable bool      `db:"is_available" json:"is_available"`
}

// StaffWorkingHoursView is the external presentation of a staff interval,
// with the weekday rendered as a lowercase English name.
type StaffWorkingHoursView struct {
	StaffWorkingHours
	DayName string `json:"day_name"`
}

type CreateWorkingHoursRequest struct {
	ClinicID    uuid.UUID  `json:"clinic_id" binding:"required"`
	StaffID     *uuid.UUID `json:"staff_id"`
	DayOfWeek   int        `json:"day_of_week" binding:"min=0,max=6"`
	StartTime   string     `json:"start_time" binding:"required,clock"`
	EndTime     string     `json:"end_time" binding:"required,clock"`
	IsAvailable *bool      `json:"is_available"`
}

type UpdateWorkingHoursRequest struct {
	DayOfWeek   *int    `json:"day_of_week" binding:"omitempty,min=0,max=6"`
	StartTime   *string `json:"start_time" binding:"omitempty,clock"`
	EndTime     *string `json:"end_time" binding:"omitempty,clock"`
	IsAvailable *bool   `json:"is_available"`
}

// BulkScheduleEntry is one day in a full staff-schedule replacement. Entries
// with IsAvailable=false are skipped entirely, not stored as closed days.
type BulkScheduleEntry struct {
	DayOfWeek   string `json:"day_of_week" binding:"required"`
	StartTime   string `json:"start_time" binding:"required,clock"`
	EndTime     string `json:"end_time" binding:"required,clock"`
	IsAvailable bool   `json:"is_available"`
}

type BulkReplaceRequest struct {
	ClinicID     uuid.UUID           `json:"clinic_id" binding:"required"`
	WorkingHours []BulkScheduleEntry `json:"working_hours" binding:"required,dive"`
}
