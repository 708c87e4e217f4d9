package appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meddesk/clinic-api/internal/config"
	"github.com/meddesk/clinic-api/internal/model"
	"github.com/meddesk/clinic-api/internal/repository"
	"github.com/meddesk/clinic-api/pkg/apperr"
	"github.com/meddesk/clinic-api/pkg/interval"
	"github.com/meddesk/clinic-api/pkg/logger"
	"github.com/meddesk/clinic-api/pkg/metrics"
)

// HoursProvider yields the bookable clock ranges for a staff member on a
// weekday. Implemented by the working-hours service.
type HoursProvider interface {
	AvailableRanges(ctx context.Context, clinicID, staffID uuid.UUID, dayOfWeek int) ([]interval.Range, error)
}

// Service books appointments and drives their lifecycle. Booking runs its
// slot checks inside a transaction that locks the staff member's active
// appointments in the requested window; a database exclusion constraint
// backstops the check against writers outside this service.
type Service struct {
	repo    repository.AppointmentRepository
	hours   HoursProvider
	logger  *logger.Logger
	metrics *metrics.Metrics
	msgs    config.Messages
}

func NewService(repo repository.AppointmentRepository, hours HoursProvider, logger *logger.Logger, m *metrics.Metrics, msgs config.Messages) *Service {
	return &Service{
		repo:    repo,
		hours:   hours,
		logger:  logger,
		metrics: m,
		msgs:    msgs,
	}
}

// Book validates and creates an appointment. Checks run in a fixed order:
// range validity, then working hours, then slot availability. The first
// failure wins, so a request that is both outside hours and colliding with
// another appointment reports the working-hours error.
func (s *Service) Book(ctx context.Context, scheduledBy uuid.UUID, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	day, err := time.Parse("2006-01-02", req.AppointmentDate)
	if err != nil {
		return nil, apperr.Validation("invalid appointment date", err)
	}

	slot, err := interval.ParseRange(req.StartTime, req.EndTime)
	if err != nil {
		return nil, apperr.Validation(err.Error(), err)
	}
	if !slot.Valid() {
		s.reject("invalid_range")
		return nil, apperr.InvalidRange(s.msgs.InvalidTimeRange)
	}

	weekday := int(day.Weekday())
	available, err := s.hours.AvailableRanges(ctx, req.ClinicID, req.StaffID, weekday)
	if err != nil {
		return nil, err
	}
	if !slotWithinHours(available, slot) {
		s.reject("outside_working_hours")
		return nil, apperr.OutsideWorkingHours(s.msgs.OutsideWorkingHours)
	}

	start := day.Add(time.Duration(slot.Start) * time.Minute)
	end := day.Add(time.Duration(slot.End) * time.Minute)

	appt := &model.Appointment{
		ClinicID:    req.ClinicID,
		BranchID:    req.BranchID,
		PatientID:   req.PatientID,
		ServiceID:   req.ServiceID,
		StaffID:     req.StaffID,
		ScheduledBy: scheduledBy,
		StartTime:   start,
		EndTime:     end,
		Status:      model.AppointmentStatusPending,
		Notes:       req.Notes,
	}

	err = s.repo.WithTx(ctx, func(tx repository.AppointmentTx) error {
		existing, err := tx.ListStaffActiveInWindow(ctx, req.StaffID, start, end)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return apperr.SlotTaken(s.msgs.SlotTaken)
		}
		if err := tx.Insert(ctx, appt); err != nil {
			return err
		}
		return s.recordEvent(ctx, tx, "appointment.created", appt)
	})
	if err != nil {
		if apperr.Is(err, apperr.CodeSlotTaken) {
			s.reject("slot_taken")
		}
		return nil, err
	}

	s.metrics.BookingsCreated.Inc()
	s.logger.Info("appointment booked",
		"appointment_id", appt.ID.String(),
		"staff_id", appt.StaffID.String(),
		"start_time", appt.StartTime.Format(time.RFC3339))
	return appt, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	return s.repo.List(ctx, filters)
}

// Confirm moves a pending appointment to confirmed.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.transition(ctx, id, model.AppointmentStatusConfirmed, nil, "")
}

// Cancel moves a pending or confirmed appointment to cancelled. The record is
// kept with its reason; appointments are never deleted.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, reason string) (*model.Appointment, error) {
	return s.transition(ctx, id, model.AppointmentStatusCancelled, &reason, "")
}

// Complete moves a confirmed appointment to completed.
func (s *Service) Complete(ctx context.Context, id uuid.UUID, staffNotes string) (*model.Appointment, error) {
	return s.transition(ctx, id, model.AppointmentStatusCompleted, nil, staffNotes)
}

// MarkNoShow moves a confirmed appointment to no_show.
func (s *Service) MarkNoShow(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.transition(ctx, id, model.AppointmentStatusNoShow, nil, "")
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, to model.AppointmentStatus, cancelReason *string, staffNotes string) (*model.Appointment, error) {
	var result *model.Appointment

	err := s.repo.WithTx(ctx, func(tx repository.AppointmentTx) error {
		appt, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !canTransition(appt.Status, to) {
			return apperr.InvalidTransition(s.msgs.InvalidTransition)
		}

		from := appt.Status
		appt.Status = to
		if cancelReason != nil {
			appt.CancelReason = cancelReason
		}
		if staffNotes != "" {
			appt.StaffNotes = staffNotes
		}
		if err := tx.Update(ctx, appt); err != nil {
			return err
		}
		if err := s.recordEvent(ctx, tx, "appointment."+string(to), appt); err != nil {
			return err
		}

		s.logger.Info("appointment transition",
			"appointment_id", appt.ID.String(),
			"from", string(from),
			"to", string(to))
		result = appt
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.LifecycleChanges.WithLabelValues(string(to)).Inc()
	return result, nil
}

func (s *Service) recordEvent(ctx context.Context, tx repository.AppointmentTx, eventType string, appt *model.Appointment) error {
	payload, err := json.Marshal(appt)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	return tx.InsertOutboxEvent(ctx, &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
		Status:    model.OutboxStatusPending,
	})
}

func (s *Service) reject(reason string) {
	s.metrics.BookingsRejected.WithLabelValues(reason).Inc()
}

// slotWithinHours requires the slot to fit fully inside a single working
// interval. Two adjacent intervals do not combine into a larger bookable
// window.
func slotWithinHours(available []interval.Range, slot interval.Range) bool {
	for _, r := range available {
		if r.Contains(slot) {
			return true
		}
	}
	return false
}
