package model

import (
	"time"

	"github.com/google/uuid"
)

type Clinic struct {
	Base
	Name    string `db:"name" json:"name"`
	Address string `db:"address" json:"address"`
	Phone   string `db:"phone" json:"phone,omitempty"`
	Status  string `db:"status" json:"status"`
}

type Branch struct {
	Base
	ClinicID uuid.UUID `db:"clinic_id" json:"clinic_id"`
	Name     string    `db:"name" json:"name"`
	Address  string    `db:"address" json:"address"`
	Status   string    `db:"status" json:"status"`
}

// ClinicStaff is a staff member (doctor, assistant, admin) of a clinic.
// Staff-scope working hours and appointments hang off this record.
type ClinicStaff struct {
	Base
	ClinicID     uuid.UUID `db:"clinic_id" json:"clinic_id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	Specialty    string    `db:"specialty" json:"specialty,omitempty"`
	Status       string    `db:"status" json:"status"`
}

type Patient struct {
	Base
	ClinicID  uuid.UUID  `db:"clinic_id" json:"clinic_id"`
	Name      string     `db:"name" json:"name"`
	Email     string     `db:"email" json:"email,omitempty"`
	Phone     string     `db:"phone" json:"phone,omitempty"`
	BirthDate *time.Time `db:"birth_date" json:"birth_date,omitempty"`
}

// Service is a bookable offering of a clinic (consultation, cleaning, ...).
type Service struct {
	Base
	ClinicID    uuid.UUID `db:"clinic_id" json:"clinic_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	Duration    int       `db:"duration" json:"duration"` // minutes
	Price       float64   `db:"price" json:"price"`
	Status      string    `db:"status" json:"status"`
}

type CreateClinicRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	Address string `json:"address" binding:"required,max=500"`
	Phone   string `json:"phone" binding:"max=50"`
}

type UpdateClinicRequest struct {
	Name    *string `json:"name" binding:"omitempty,max=255"`
	Address *string `json:"address" binding:"omitempty,max=500"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	Status  *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

type CreateStaffRequest struct {
	Name      string `json:"name" binding:"required,max=255"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Role      string `json:"role" binding:"required,oneof=admin doctor assistant"`
	Specialty string `json:"specialty" binding:"max=255"`
}
