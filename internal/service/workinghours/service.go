package workinghours

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/meddesk/clinic-api/internal/config"
	"github.com/meddesk/clinic-api/internal/model"
	"github.com/meddesk/clinic-api/internal/repository"
	"github.com/meddesk/clinic-api/pkg/apperr"
	"github.com/meddesk/clinic-api/pkg/interval"
	"github.com/meddesk/clinic-api/pkg/logger"
	"github.com/meddesk/clinic-api/pkg/metrics"
)

// Service owns the working-hours store: clinic-scope and staff-scope interval
// collections with the no-overlap invariant enforced at write time. All
// writes run the conflict check inside a transaction that locks the sibling
// rows, so concurrent writers to the same scope+day serialize.
type Service struct {
	repo    repository.WorkingHoursRepository
	cache   *gocache.Cache
	logger  *logger.Logger
	metrics *metrics.Metrics
	msgs    config.Messages
}

func NewService(repo repository.WorkingHoursRepository, cache *gocache.Cache, logger *logger.Logger, m *metrics.Metrics, msgs config.Messages) *Service {
	return &Service{
		repo:    repo,
		cache:   cache,
		logger:  logger,
		metrics: m,
		msgs:    msgs,
	}
}

func (s *Service) ListClinicHours(ctx context.Context, clinicID uuid.UUID, dayOfWeek *int) ([]*model.ClinicWorkingHours, error) {
	return s.repo.ListClinicHours(ctx, clinicID, dayOfWeek)
}

// ListStaffHours returns the staff member's intervals with the weekday
// rendered as a lowercase English day name.
func (s *Service) ListStaffHours(ctx context.Context, staffID uuid.UUID, dayOfWeek *int) ([]*model.StaffWorkingHoursView, error) {
	hours, err := s.repo.ListStaffHours(ctx, staffID, dayOfWeek)
	if err != nil {
		return nil, err
	}
	views := make([]*model.StaffWorkingHoursView, 0, len(hours))
	for _, wh := range hours {
		views = append(views, &model.StaffWorkingHoursView{
			StaffWorkingHours: *wh,
			DayName:           model.DayName(wh.DayOfWeek),
		})
	}
	return views, nil
}

func (s *Service) CreateClinicHours(ctx context.Context, req *model.CreateWorkingHoursRequest) (*model.ClinicWorkingHours, error) {
	rng, err := s.parseRange(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	wh := &model.ClinicWorkingHours{
		ClinicID:    req.ClinicID,
		DayOfWeek:   req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsAvailable: req.IsAvailable == nil || *req.IsAvailable,
	}

	err = s.repo.WithTx(ctx, func(tx repository.WorkingHoursTx) error {
		siblings, err := tx.ListClinicDayHours(ctx, req.ClinicID, req.DayOfWeek)
		if err != nil {
			return err
		}
		if interval.ConflictsAny(clinicRanges(siblings, uuid.Nil), rng) {
			s.metrics.WorkingHourReject.Inc()
			return apperr.Conflict(s.msgs.WorkingHoursOverlap)
		}
		return tx.InsertClinicHours(ctx, wh)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.WorkingHourWrites.WithLabelValues("create").Inc()
	s.invalidateCache()
	return wh, nil
}

func (s *Service) CreateStaffHours(ctx context.Context, req *model.CreateWorkingHoursRequest) (*model.StaffWorkingHours, error) {
	if req.StaffID == nil {
		return nil, apperr.Validation("staff_id is required", nil)
	}
	rng, err := s.parseRange(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	wh := &model.StaffWorkingHours{
		ClinicID:    req.ClinicID,
		StaffID:     *req.StaffID,
		DayOfWeek:   req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsAvailable: req.IsAvailable == nil || *req.IsAvailable,
	}

	err = s.repo.WithTx(ctx, func(tx repository.WorkingHoursTx) error {
		siblings, err := tx.ListStaffDayHours(ctx, *req.StaffID, req.DayOfWeek)
		if err != nil {
			return err
		}
		if interval.ConflictsAny(staffRanges(siblings, uuid.Nil), rng) {
			s.metrics.WorkingHourReject.Inc()
			return apperr.Conflict(s.msgs.WorkingHoursOverlap)
		}
		return tx.InsertStaffHours(ctx, wh)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.WorkingHourWrites.WithLabelValues("create").Inc()
	s.invalidateCache()
	return wh, nil
}

// UpdateClinicHours merges the provided fields onto the stored record. When
// any of day/start/end is supplied the conflict check reruns against the
// siblings, excluding the record itself.
func (s *Service) UpdateClinicHours(ctx context.Context, id uuid.UUID, req *model.UpdateWorkingHoursRequest) (*model.ClinicWorkingHours, error) {
	existing, err := s.repo.GetClinicHours(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := *existing
	timingChanged := applyUpdate(&merged.DayOfWeek, &merged.StartTime, &merged.EndTime, req)
	if req.IsAvailable != nil {
		merged.IsAvailable = *req.IsAvailable
	}

	rng, err := s.parseRange(merged.StartTime, merged.EndTime)
	if err != nil {
		return nil, err
	}

	err = s.repo.WithTx(ctx, func(tx repository.WorkingHoursTx) error {
		if timingChanged {
			siblings, err := tx.ListClinicDayHours(ctx, merged.ClinicID, merged.DayOfWeek)
			if err != nil {
				return err
			}
			if interval.ConflictsAny(clinicRanges(siblings, id), rng) {
				s.metrics.WorkingHourReject.Inc()
				return apperr.Conflict(s.msgs.WorkingHoursOverlap)
			}
		}
		return tx.UpdateClinicHours(ctx, &merged)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.WorkingHourWrites.WithLabelValues("update").Inc()
	s.invalidateCache()
	return &merged, nil
}

func (s *Service) UpdateStaffHours(ctx context.Context, id uuid.UUID, req *model.UpdateWorkingHoursRequest) (*model.StaffWorkingHours, error) {
	existing, err := s.repo.GetStaffHours(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := *existing
	timingChanged := applyUpdate(&merged.DayOfWeek, &merged.StartTime, &merged.EndTime, req)
	if req.IsAvailable != nil {
		merged.IsAvailable = *req.IsAvailable
	}

	rng, err := s.parseRange(merged.StartTime, merged.EndTime)
	if err != nil {
		return nil, err
	}

	err = s.repo.WithTx(ctx, func(tx repository.WorkingHoursTx) error {
		if timingChanged {
			siblings, err := tx.ListStaffDayHours(ctx, merged.StaffID, merged.DayOfWeek)
			if err != nil {
				return err
			}
			if interval.ConflictsAny(staffRanges(siblings, id), rng) {
				s.metrics.WorkingHourReject.Inc()
				return apperr.Conflict(s.msgs.WorkingHoursOverlap)
			}
		}
		return tx.UpdateStaffHours(ctx, &merged)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.WorkingHourWrites.WithLabelValues("update").Inc()
	s.invalidateCache()
	return &merged, nil
}

func (s *Service) DeleteClinicHours(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteClinicHours(ctx, id); err != nil {
		return err
	}
	s.metrics.WorkingHourWrites.WithLabelValues("delete").Inc()
	s.invalidateCache()
	return nil
}

func (s *Service) DeleteStaffHours(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteStaffHours(ctx, id); err != nil {
		return err
	}
	s.metrics.WorkingHourWrites.WithLabelValues("delete").Inc()
	s.invalidateCache()
	return nil
}

// BulkReplaceForStaff replaces the staff member's entire schedule: every
// existing staff-scope interval is deleted, then one interval is inserted per
// entry with is_available=true. Unavailable entries are skipped entirely and
// leave no record. The incoming list is cross-checked for internal overlaps
// before anything is deleted, so a malformed payload cannot wipe a schedule
// and store a conflicting one.
func (s *Service) BulkReplaceForStaff(ctx context.Context, staffID uuid.UUID, req *model.BulkReplaceRequest) ([]*model.StaffWorkingHours, error) {
	var toInsert []*model.StaffWorkingHours
	perDay := make(map[int][]interval.Range)

	for _, entry := range req.WorkingHours {
		if !entry.IsAvailable {
			continue
		}
		day, known := model.DayNumber(entry.DayOfWeek)
		if !known {
			s.metrics.UnknownDayDefaults.Inc()
			s.logger.Warn("unknown day name defaulted to monday",
				"day_of_week", entry.DayOfWeek, "staff_id", staffID.String())
		}
		rng, err := s.parseRange(entry.StartTime, entry.EndTime)
		if err != nil {
			return nil, err
		}
		perDay[day] = append(perDay[day], rng)
		toInsert = append(toInsert, &model.StaffWorkingHours{
			ClinicID:    req.ClinicID,
			StaffID:     staffID,
			DayOfWeek:   day,
			StartTime:   entry.StartTime,
			EndTime:     entry.EndTime,
			IsAvailable: true,
		})
	}

	for _, ranges := range perDay {
		if interval.SelfConflicts(ranges) {
			s.metrics.WorkingHourReject.Inc()
			return nil, apperr.Conflict(s.msgs.WorkingHoursOverlap)
		}
	}

	err := s.repo.WithTx(ctx, func(tx repository.WorkingHoursTx) error {
		if err := tx.DeleteAllStaffHours(ctx, staffID); err != nil {
			return err
		}
		for _, wh := range toInsert {
			if err := tx.InsertStaffHours(ctx, wh); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.WorkingHourWrites.WithLabelValues("bulk_replace").Inc()
	s.invalidateCache()
	return toInsert, nil
}

// AvailableRanges returns the bookable clock ranges for a staff member on the
// given weekday. A staff member with no staff-scope intervals at all falls
// back to the clinic's general hours. Results are cached briefly; any
// working-hours write flushes the cache.
func (s *Service) AvailableRanges(ctx context.Context, clinicID, staffID uuid.UUID, dayOfWeek int) ([]interval.Range, error) {
	key := fmt.Sprintf("hours:%s:%s:%d", clinicID, staffID, dayOfWeek)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]interval.Range), nil
	}

	staffHours, err := s.repo.ListStaffHours(ctx, staffID, nil)
	if err != nil {
		return nil, err
	}

	var ranges []interval.Range
	if len(staffHours) > 0 {
		for _, wh := range staffHours {
			if wh.DayOfWeek != dayOfWeek || !wh.IsAvailable {
				continue
			}
			rng, err := interval.ParseRange(wh.StartTime, wh.EndTime)
			if err != nil {
				return nil, apperr.Storage(err)
			}
			ranges = append(ranges, rng)
		}
	} else {
		clinicHours, err := s.repo.ListClinicHours(ctx, clinicID, &dayOfWeek)
		if err != nil {
			return nil, err
		}
		for _, wh := range clinicHours {
			if !wh.IsAvailable {
				continue
			}
			rng, err := interval.ParseRange(wh.StartTime, wh.EndTime)
			if err != nil {
				return nil, apperr.Storage(err)
			}
			ranges = append(ranges, rng)
		}
	}

	s.cache.SetDefault(key, ranges)
	return ranges, nil
}

func (s *Service) parseRange(start, end string) (interval.Range, error) {
	rng, err := interval.ParseRange(start, end)
	if err != nil {
		return interval.Range{}, apperr.Validation(err.Error(), err)
	}
	if !rng.Valid() {
		return interval.Range{}, apperr.InvalidRange(s.msgs.InvalidTimeRange)
	}
	return rng, nil
}

func (s *Service) invalidateCache() {
	s.cache.Flush()
}

func applyUpdate(day *int, start, end *string, req *model.UpdateWorkingHoursRequest) bool {
	changed := false
	if req.DayOfWeek != nil {
		*day = *req.DayOfWeek
		changed = true
	}
	if req.StartTime != nil {
		*start = *req.StartTime
		changed = true
	}
	if req.EndTime != nil {
		*end = *req.EndTime
		changed = true
	}
	return changed
}

func clinicRanges(hours []*model.ClinicWorkingHours, excludeID uuid.UUID) []interval.Range {
	ranges := make([]interval.Range, 0, len(hours))
	for _, wh := range hours {
		if wh.ID == excludeID {
			continue
		}
		if rng, err := interval.ParseRange(wh.StartTime, wh.EndTime); err == nil {
			ranges = append(ranges, rng)
		}
	}
	return ranges
}

func staffRanges(hours []*model.StaffWorkingHours, excludeID uuid.UUID) []interval.Range {
	ranges := make([]interval.Range, 0, len(hours))
	for _, wh := range hours {
		if wh.ID == excludeID {
			continue
		}
		if rng, err := interval.ParseRange(wh.StartTime, wh.EndTime); err == nil {
			ranges = append(ranges, rng)
		}
	}
	return ranges
}
