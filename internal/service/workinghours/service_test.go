package workinghours

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meddesk/clinic-api/internal/config"
	"github.com/meddesk/clinic-api/internal/model"
	"github.com/meddesk/clinic-api/internal/repository"
	"github.com/meddesk/clinic-api/pkg/apperr"
	"github.com/meddesk/clinic-api/pkg/logger"
	"github.com/meddesk/clinic-api/pkg/metrics"
)

type fakeHoursRepo struct {
	clinicHours map[uuid.UUID]*model.ClinicWorkingHours
	staffHours  map[uuid.UUID]*model.StaffWorkingHours
}

func newFakeHoursRepo() *fakeHoursRepo {
	return &fakeHoursRepo{
		clinicHours: make(map[uuid.UUID]*model.ClinicWorkingHours),
		staffHours:  make(map[uuid.UUID]*model.StaffWorkingHours),
	}
}

func (f *fakeHoursRepo) WithTx(ctx context.Context, fn func(repository.WorkingHoursTx) error) error {
	return fn(f)
}

func (f *fakeHoursRepo) ListClinicDayHours(ctx context.Context, clinicID uuid.UUID, dayOfWeek int) ([]*model.ClinicWorkingHours, error) {
	var out []*model.ClinicWorkingHours
	for _, wh := range f.clinicHours {
		if wh.ClinicID == clinicID && wh.DayOfWeek == dayOfWeek {
			out = append(out, wh)
		}
	}
	return out, nil
}

func (f *fakeHoursRepo) ListStaffDayHours(ctx context.Context, staffID uuid.UUID, dayOfWeek int) ([]*model.StaffWorkingHours, error) {
	var out []*model.StaffWorkingHours
	for _, wh := range f.staffHours {
		if wh.StaffID == staffID && wh.DayOfWeek == dayOfWeek {
			out = append(out, wh)
		}
	}
	return out, nil
}

func (f *fakeHoursRepo) InsertClinicHours(ctx context.Context, wh *model.ClinicWorkingHours) error {
	wh.ID = uuid.New()
	wh.CreatedAt = time.Now()
	wh.UpdatedAt = wh.CreatedAt
	f.clinicHours[wh.ID] = wh
	return nil
}

func (f *fakeHoursRepo) InsertStaffHours(ctx context.Context, wh *model.StaffWorkingHours) error {
	wh.ID = uuid.New()
	wh.CreatedAt = time.Now()
	wh.UpdatedAt = wh.CreatedAt
	f.staffHours[wh.ID] = wh
	return nil
}

func (f *fakeHoursRepo) UpdateClinicHours(ctx context.Context, wh *model.ClinicWorkingHours) error {
	if _, ok := f.clinicHours[wh.ID]; !ok {
		return apperr.NotFound("working hours", nil)
	}
	f.clinicHours[wh.ID] = wh
	return nil
}

func (f *fakeHoursRepo) UpdateStaffHours(ctx context.Context, wh *model.StaffWorkingHours) error {
	if _, ok := f.staffHours[wh.ID]; !ok {
		return apperr.NotFound("working hours", nil)
	}
	f.staffHours[wh.ID] = wh
	return nil
}

func (f *fakeHoursRepo) DeleteAllStaffHours(ctx context.Context, staffID uuid.UUID) error {
	for id, wh := range f.staffHours {
		if wh.StaffID == staffID {
			delete(f.staffHours, id)
		}
	}
	return nil
}

func (f *fakeHoursRepo) ListClinicHours(ctx context.Context, clinicID uuid.UUID, dayOfWeek *int) ([]*model.ClinicWorkingHours, error) {
	var out []*model.ClinicWorkingHours
	for _, wh := range f.clinicHours {
		if wh.ClinicID != clinicID {
			continue
		}
		if dayOfWeek != nil && wh.DayOfWeek != *dayOfWeek {
			continue
		}
		out = append(out, wh)
	}
	return out, nil
}

func (f *fakeHoursRepo) ListStaffHours(ctx context.Context, staffID uuid.UUID, dayOfWeek *int) ([]*model.StaffWorkingHours, error) {
	var out []*model.StaffWorkingHours
	for _, wh := range f.staffHours {
		if wh.StaffID != staffID {
			continue
		}
		if dayOfWeek != nil && wh.DayOfWeek != *dayOfWeek {
			continue
		}
		out = append(out, wh)
	}
	return out, nil
}

func (f *fakeHoursRepo) GetClinicHours(ctx context.Context, id uuid.UUID) (*model.ClinicWorkingHours, error) {
	wh, ok := f.clinicHours[id]
	if !ok {
		return nil, apperr.NotFound("working hours", nil)
	}
	cp := *wh
	return &cp, nil
}

func (f *fakeHoursRepo) GetStaffHours(ctx context.Context, id uuid.UUID) (*model.StaffWorkingHours, error) {
	wh, ok := f.staffHours[id]
	if !ok {
		return nil, apperr.NotFound("working hours", nil)
	}
	cp := *wh
	return &cp, nil
}

func (f *fakeHoursRepo) DeleteClinicHours(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.clinicHours[id]; !ok {
		return apperr.NotFound("working hours", nil)
	}
	delete(f.clinicHours, id)
	return nil
}

func (f *fakeHoursRepo) DeleteStaffHours(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.staffHours[id]; !ok {
		return apperr.NotFound("working hours", nil)
	}
	delete(f.staffHours, id)
	return nil
}

var testMessages = config.Messages{
	WorkingHoursOverlap: "Die Arbeitszeiten überschneiden sich mit bestehenden Zeiten.",
	SlotTaken:           "Der Termin überschneidet sich mit einem bestehenden Termin.",
	OutsideWorkingHours: "Der Termin liegt außerhalb der Arbeitszeiten.",
	InvalidTimeRange:    "Die Endzeit muss nach der Startzeit liegen.",
	InvalidTransition:   "Diese Statusänderung ist nicht zulässig.",
}

func newTestService(t *testing.T) (*Service, *fakeHoursRepo) {
	t.Helper()
	repo := newFakeHoursRepo()
	svc := NewService(
		repo,
		gocache.New(time.Minute, time.Minute),
		logger.New(&logger.Config{Level: "error", Output: io.Discard}),
		metrics.New("test", prometheus.NewRegistry()),
		testMessages,
	)
	return svc, repo
}

func boolPtr(b bool) *bool { return &b }

func TestCreateClinicHours(t *testing.T) {
	svc, _ := newTestService(t)
	clinicID := uuid.New()

	wh, err := svc.CreateClinicHours(context.Background(), &model.CreateWorkingHoursRequest{
		ClinicID:  clinicID,
		DayOfWeek: 1,
		StartTime: "09:00",
		EndTime:   "17:00",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, wh.ID)
	assert.True(t, wh.IsAvailable)
}

func TestCreateClinicHoursRejectsOverlap(t *testing.T) {
	svc, _ := newTestService(t)
	clinicID := uuid.New()
	ctx := context.Background()

	_, err := svc.CreateClinicHours(ctx, &model.CreateWorkingHoursRequest{
		ClinicID: clinicID, DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00",
	})
	require.NoError(t, err)

	_, err = svc.CreateClinicHours(ctx, &model.CreateWorkingHoursRequest{
		ClinicID: clinicID, DayOfWeek: 1, StartTime: "11:00", EndTime: "14:00",
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeConflict))
	assert.Contains(t, err.Error(), "überschneiden")
}

func TestCreateClinicHoursTouchingEndpointsConflict(t *testing.T) {
	svc, _ := newTestService(t)
	clinicID := uuid.New()
	ctx := context.Background()

	_, err := svc.CreateClinicHours(ctx, &model.CreateWorkingHoursRequest{
		ClinicID: clinicID, DayOfWeek: 2, StartTime: "09:00", EndTime: "12:00",
	})
	require.NoError(t, err)

	// 12:00 touches the existing end; inclusive bounds make this a conflict.
	_, err = svc.CreateClinicHours(ctx, &model.CreateWorkingHoursRequest{
		ClinicID: clinicID, DayOfWeek: 2, StartTime: "12:00", EndTime: "15:00",
	})
	assert.True(t, apperr.Is(err, apperr.CodeConflict))
}

func TestCreateClinicHoursDifferentDayNoConflict(t *testing.T) {
	svc, _ := newTestService(t)
	clinicID := uuid.New()
	ctx := context.Background()

	_, err := svc.CreateClinicHours(ctx, &model.CreateWorkingHoursRequest{
		ClinicID: clinicID, DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00",
	})
	require.NoError(t, err)

	_, err = svc.CreateClinicHours(ctx, &model.CreateWorkingHoursRequest{
		ClinicID: clinicID, DayOfWeek: 2, StartTime: "09:00", EndTime: "17:00",
	})
	assert.NoError(t, err)
}

func TestCreateClinicHoursInvalidRange(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateClinicHours(context.Background(), &model.CreateWorkingHoursRequest{
		ClinicID: uuid.New(), DayOfWeek: 1, StartTime: "17:00", EndTime: "09:00",
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeInvalidRange))
}

func TestCreateStaffHoursRequiresStaffID(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateStaffHours(context.Background(), &model.CreateWorkingHoursRequest{
		ClinicID: uuid.New(), DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00",
	})
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}

func TestStaffHoursIndependentOfOtherStaff(t *testing.T) {
	svc, _ := newTestService(t)
	clinicID := uuid.New()
	alice, bob := uuid.New(), uuid.New()
	ctx := context.Background()

	_, err := svc.CreateStaffHours(ctx, &model.CreateWorkingHoursRequest{
		ClinicID: clinicID, StaffID: &alice, DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00",
	})
	require.NoError(t, err)

	// Bob's overlapping interval is a different scope, no conflict.
	_, err = svc.CreateStaffHours(ctx, &model.CreateWorkingHoursRequest{
		ClinicID: clinicID, StaffID: &bob, DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00",
	})
	assert.NoError(t, err)
}

func TestUpdateClinicHoursExcludesSelf(t *testing.T) {
	svc, _ := newTestService(t)
	clinicID := uuid.New()
	ctx := context.Background()

	wh, err := svc.CreateClinicHours(ctx, &model.CreateWorkingHoursRequest{
		ClinicID: clinicID, DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00",
	})
	require.NoError(t, err)

	// Shrinking a record overlaps only itself, which must not conflict.
	start := "10:00"
	updated, err := svc.UpdateClinicHours(ctx, wh.ID, &model.UpdateWorkingHoursRequest{StartTime: &start})
	require.NoError(t, err)
	assert.Equal(t, "10:00", updated.StartTime)
	assert.Equal(t, "12:00", updated.EndTime)
}

func TestUpdateClinicHoursConflictsWithSibling(t *testing.T) {
	svc, _ := newTestService(t)
	clinicID := uuid.New()
	ctx := context.Background()

	_, err := svc.CreateClinicHours(ctx, &model.CreateWorkingHoursRequest{
		ClinicID: clinicID, DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00",
	})
	require.NoError(t, err)
	second, err := svc.CreateClinicHours(ctx, &model.CreateWorkingHoursRequest{
		ClinicID: clinicID, DayOfWeek: 1, StartTime: "13:00", EndTime: "17:00",
	})
	require.NoError(t, err)

	start := "11:00"
	_, err = svc.UpdateClinicHours(ctx, second.ID, &model.UpdateWorkingHoursRequest{StartTime: &start})
	assert.True(t, apperr.Is(err, apperr.CodeConflict))
}

func TestUpdateClinicHoursNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	start := "10:00"
	_, err := svc.UpdateClinicHours(context.Background(), uuid.New(), &model.UpdateWorkingHoursRequest{StartTime: &start})
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestUpdateAvailabilityOnlySkipsConflictCheck(t *testing.T) {
	svc, repo := newTestService(t)
	clinicID := uuid.New()
	ctx := context.Background()

	wh, err := svc.CreateClinicHours(ctx, &model.CreateWorkingHoursRequest{
		ClinicID: clinicID, DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateClinicHours(ctx, wh.ID, &model.UpdateWorkingHoursRequest{IsAvailable: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, updated.IsAvailable)
	assert.False(t, repo.clinicHours[wh.ID].IsAvailable)
}

func TestDeleteClinicHours(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	wh, err := svc.CreateClinicHours(ctx, &model.CreateWorkingHoursRequest{
		ClinicID: uuid.New(), DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteClinicHours(ctx, wh.ID))
	assert.Empty(t, repo.clinicHours)
	assert.True(t, apperr.Is(svc.DeleteClinicHours(ctx, wh.ID), apperr.CodeNotFound))
}

func TestListStaffHoursRendersDayNames(t *testing.T) {
	svc, _ := newTestService(t)
	clinicID := uuid.New()
	staffID := uuid.New()
	ctx := context.Background()

	_, err := svc.CreateStaffHours(ctx, &model.CreateWorkingHoursRequest{
		ClinicID: clinicID, StaffID: &staffID, DayOfWeek: 3, StartTime: "09:00", EndTime: "17:00",
	})
	require.NoError(t, err)

	views, err := svc.ListStaffHours(ctx, staffID, nil)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "wednesday", views[0].DayName)
}

func TestBulkReplaceForStaff(t *testing.T) {
	svc, repo := newTestService(t)
	clinicID := uuid.New()
	staffID := uuid.New()
	ctx := context.Background()

	_, err := svc.CreateStaffHours(ctx, &model.CreateWorkingHoursRequest{
		ClinicID: clinicID, StaffID: &staffID, DayOfWeek: 5, StartTime: "08:00", EndTime: "16:00",
	})
	require.NoError(t, err)

	inserted, err := svc.BulkReplaceForStaff(ctx, staffID, &model.BulkReplaceRequest{
		ClinicID: clinicID,
		WorkingHours: []model.BulkScheduleEntry{
			{DayOfWeek: "monday", StartTime: "09:00", EndTime: "17:00", IsAvailable: true},
			{DayOfWeek: "tuesday", StartTime: "09:00", EndTime: "17:00", IsAvailable: true},
			{DayOfWeek: "wednesday", StartTime: "09:00", EndTime: "17:00", IsAvailable: false},
		},
	})
	require.NoError(t, err)
	require.Len(t, inserted, 2)

	// Old friday interval gone, unavailable wednesday never stored.
	stored, err := svc.ListStaffHours(ctx, staffID, nil)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
	days := map[int]bool{}
	for _, wh := range repo.staffHours {
		days[wh.DayOfWeek] = true
	}
	assert.Equal(t, map[int]bool{1: true, 2: true}, days)
}

func TestBulkReplaceUnknownDayDefaultsToMonday(t *testing.T) {
	svc, repo := newTestService(t)
	staffID := uuid.New()

	inserted, err := svc.BulkReplaceForStaff(context.Background(), staffID, &model.BulkReplaceRequest{
		ClinicID: uuid.New(),
		WorkingHours: []model.BulkScheduleEntry{
			{DayOfWeek: "funday", StartTime: "09:00", EndTime: "17:00", IsAvailable: true},
		},
	})
	require.NoError(t, err)
	require.Len(t, inserted, 1)
	assert.Equal(t, 1, inserted[0].DayOfWeek)
	for _, wh := range repo.staffHours {
		assert.Equal(t, 1, wh.DayOfWeek)
	}
}

func TestBulkReplaceRejectsSelfConflictBeforeDeleting(t *testing.T) {
	svc, repo := newTestService(t)
	clinicID := uuid.New()
	staffID := uuid.New()
	ctx := context.Background()

	_, err := svc.CreateStaffHours(ctx, &model.CreateWorkingHoursRequest{
		ClinicID: clinicID, StaffID: &staffID, DayOfWeek: 1, StartTime: "08:00", EndTime: "16:00",
	})
	require.NoError(t, err)

	_, err = svc.BulkReplaceForStaff(ctx, staffID, &model.BulkReplaceRequest{
		ClinicID: clinicID,
		WorkingHours: []model.BulkScheduleEntry{
			{DayOfWeek: "tuesday", StartTime: "09:00", EndTime: "12:00", IsAvailable: true},
			{DayOfWeek: "tuesday", StartTime: "11:00", EndTime: "15:00", IsAvailable: true},
		},
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeConflict))

	// The existing schedule survives a rejected replacement.
	assert.Len(t, repo.staffHours, 1)
}

func TestAvailableRangesStaffScope(t *testing.T) {
	svc, _ := newTestService(t)
	clinicID := uuid.New()
	staffID := uuid.New()
	ctx := context.Background()

	_, err := svc.CreateClinicHours(ctx, &model.CreateWorkingHoursRequest{
		ClinicID: clinicID, DayOfWeek: 1, StartTime: "08:00", EndTime: "20:00",
	})
	require.NoError(t, err)
	_, err = svc.CreateStaffHours(ctx, &model.CreateWorkingHoursRequest{
		ClinicID: clinicID, StaffID: &staffID, DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00",
	})
	require.NoError(t, err)

	// Staff intervals exist, so clinic hours are ignored.
	ranges, err := svc.AvailableRanges(ctx, clinicID, staffID, 1)
	require.NoError(t, err)
	require.Len(t, ranges, 1)
	assert.Equal(t, 9*60, ranges[0].Start)
	assert.Equal(t, 17*60, ranges[0].End)
}

func TestAvailableRangesClinicFallback(t *testing.T) {
	svc, _ := newTestService(t)
	clinicID := uuid.New()
	staffID := uuid.New()
	ctx := context.Background()

	_, err := svc.CreateClinicHours(ctx, &model.CreateWorkingHoursRequest{
		ClinicID: clinicID, DayOfWeek: 1, StartTime: "08:00", EndTime: "20:00",
	})
	require.NoError(t, err)

	ranges, err := svc.AvailableRanges(ctx, clinicID, staffID, 1)
	require.NoError(t, err)
	require.Len(t, ranges, 1)
	assert.Equal(t, 8*60, ranges[0].Start)
	assert.Equal(t, 20*60, ranges[0].End)
}

func TestAvailableRangesStaffHoursOtherDayBlockFallback(t *testing.T) {
	svc, _ := newTestService(t)
	clinicID := uuid.New()
	staffID := uuid.New()
	ctx := context.Background()

	_, err := svc.CreateClinicHours(ctx, &model.CreateWorkingHoursRequest{
		ClinicID: clinicID, DayOfWeek: 1, StartTime: "08:00", EndTime: "20:00",
	})
	require.NoError(t, err)
	_, err = svc.CreateStaffHours(ctx, &model.CreateWorkingHoursRequest{
		ClinicID: clinicID, StaffID: &staffID, DayOfWeek: 2, StartTime: "09:00", EndTime: "17:00",
	})
	require.NoError(t, err)

	// The staff member has a schedule; a day without intervals means off, not
	// clinic fallback.
	ranges, err := svc.AvailableRanges(ctx, clinicID, staffID, 1)
	require.NoError(t, err)
	assert.Empty(t, ranges)
}

func TestAvailableRangesCacheInvalidatedOnWrite(t *testing.T) {
	svc, _ := newTestService(t)
	clinicID := uuid.New()
	staffID := uuid.New()
	ctx := context.Background()

	ranges, err := svc.AvailableRanges(ctx, clinicID, staffID, 1)
	require.NoError(t, err)
	assert.Empty(t, ranges)

	_, err = svc.CreateStaffHours(ctx, &model.CreateWorkingHoursRequest{
		ClinicID: clinicID, StaffID: &staffID, DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00",
	})
	require.NoError(t, err)

	ranges, err = svc.AvailableRanges(ctx, clinicID, staffID, 1)
	require.NoError(t, err)
	assert.Len(t, ranges, 1)
}
