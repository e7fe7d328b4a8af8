package slot

import (
	"context"
	"fmt"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/fhir_dto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeSlotFhirClient struct {
	created      []fhir_dto.Slot
	failAtCreate int // index at which CreateSlot fails, -1 disables
	searchResult []fhir_dto.Slot
	searchParams contracts.SlotSearchParams
}

func newFakeSlotFhirClient() *fakeSlotFhirClient {
	return &fakeSlotFhirClient{failAtCreate: -1}
}

func (f *fakeSlotFhirClient) CreateSlot(ctx context.Context, request *fhir_dto.Slot) (*fhir_dto.Slot, error) {
	if f.failAtCreate >= 0 && len(f.created) == f.failAtCreate {
		return nil, exceptions.ErrCreateFHIRResource(fmt.Errorf("store unavailable"), constvars.ResourceSlot)
	}
	created := *request
	created.ID = fmt.Sprintf("slot-%d", len(f.created)+1)
	created.Meta.VersionId = "1"
	f.created = append(f.created, created)
	return &created, nil
}

func (f *fakeSlotFhirClient) FindSlotByID(ctx context.Context, slotID string) (*fhir_dto.Slot, error) {
	return nil, exceptions.ErrResourceNotFound(nil, constvars.ResourceSlot, slotID)
}

func (f *fakeSlotFhirClient) UpdateSlot(ctx context.Context, request *fhir_dto.Slot, ifMatchVersion string) (*fhir_dto.Slot, error) {
	return request, nil
}

func (f *fakeSlotFhirClient) DeleteSlot(ctx context.Context, slotID string) error {
	return nil
}

func (f *fakeSlotFhirClient) FindSlotsByScheduleWithQuery(ctx context.Context, scheduleID string, params contracts.SlotSearchParams) ([]fhir_dto.Slot, error) {
	f.searchParams = params
	return f.searchResult, nil
}

type fakeScheduleFhirClient struct {
	schedule *fhir_dto.Schedule
}

func (f *fakeScheduleFhirClient) CreateSchedule(ctx context.Context, request *fhir_dto.Schedule) (*fhir_dto.Schedule, error) {
	return request, nil
}

func (f *fakeScheduleFhirClient) FindScheduleByID(ctx context.Context, scheduleID string) (*fhir_dto.Schedule, error) {
	if f.schedule == nil || f.schedule.ID != scheduleID {
		return nil, exceptions.ErrResourceNotFound(nil, constvars.ResourceSchedule, scheduleID)
	}
	schedule := *f.schedule
	return &schedule, nil
}

func (f *fakeScheduleFhirClient) FindScheduleByPractitionerID(ctx context.Context, practitionerID string) ([]fhir_dto.Schedule, error) {
	return nil, nil
}

func (f *fakeScheduleFhirClient) UpdateSchedule(ctx context.Context, request *fhir_dto.Schedule) (*fhir_dto.Schedule, error) {
	return request, nil
}

func (f *fakeScheduleFhirClient) DeleteSchedule(ctx context.Context, scheduleID string) error {
	return nil
}

func newTestUsecase(slots *fakeSlotFhirClient, schedules *fakeScheduleFhirClient) *SlotUsecase {
	return NewSlotUsecase(
		slots,
		schedules,
		nil,
		&config.InternalConfig{},
		time.UTC,
		zap.NewNop(),
	)
}

func mondayTemplate() contracts.SlotTemplate {
	return contracts.SlotTemplate{
		StartDate:           "2026-01-05", // a Monday
		EndDate:             "2026-01-05",
		DaysOfWeek:          []int{1},
		StartTime:           "09:00",
		EndTime:             "12:00",
		SlotDurationMinutes: 30,
		Breaks:              []contracts.BreakWindow{{Start: "10:30", End: "11:00"}},
	}
}

func TestGenerateSlots(t *testing.T) {
	schedule := &fhir_dto.Schedule{
		ResourceType: constvars.ResourceSchedule,
		ID:           "sched-1",
		Active:       true,
		Actor:        []fhir_dto.Reference{{Reference: "Practitioner/prac-1", Type: constvars.ResourcePractitioner}},
	}

	t.Run("One Monday with a break yields exactly five slots", func(t *testing.T) {
		slotClient := newFakeSlotFhirClient()
		usecase := newTestUsecase(slotClient, &fakeScheduleFhirClient{schedule: schedule})

		outcome, err := usecase.GenerateSlots(context.Background(), "sched-1", mondayTemplate())

		assert.NoError(t, err)
		assert.Len(t, outcome.CreatedSlots, 5)

		day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
		at := func(h, m int) time.Time {
			return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, time.UTC)
		}
		expectedStarts := []time.Time{at(9, 0), at(9, 30), at(10, 0), at(11, 0), at(11, 30)}
		for i, created := range outcome.CreatedSlots {
			assert.Equal(t, expectedStarts[i], created.Start)
			assert.Equal(t, expectedStarts[i].Add(30*time.Minute), created.End)
			assert.Equal(t, fhir_dto.SlotStatusFree, created.Status)
			assert.Equal(t, "Schedule/sched-1", created.Schedule.Reference)
		}
	})

	t.Run("Date range entirely on an excluded weekday yields empty outcome", func(t *testing.T) {
		slotClient := newFakeSlotFhirClient()
		usecase := newTestUsecase(slotClient, &fakeScheduleFhirClient{schedule: schedule})

		template := mondayTemplate()
		template.StartDate = "2026-01-06" // a Tuesday
		template.EndDate = "2026-01-06"

		outcome, err := usecase.GenerateSlots(context.Background(), "sched-1", template)

		assert.NoError(t, err)
		assert.Empty(t, outcome.CreatedSlots)
		assert.Empty(t, slotClient.created)
	})

	t.Run("Weekday filter skips days not in the template", func(t *testing.T) {
		slotClient := newFakeSlotFhirClient()
		usecase := newTestUsecase(slotClient, &fakeScheduleFhirClient{schedule: schedule})

		template := mondayTemplate()
		template.StartDate = "2026-01-05" // Monday
		template.EndDate = "2026-01-11"   // Sunday
		template.DaysOfWeek = []int{1, 3, 5}

		outcome, err := usecase.GenerateSlots(context.Background(), "sched-1", template)

		assert.NoError(t, err)
		assert.Len(t, outcome.CreatedSlots, 15)
		for _, created := range outcome.CreatedSlots {
			weekday := int(created.Start.Weekday())
			assert.Contains(t, []int{1, 3, 5}, weekday)
		}
	})

	t.Run("Invalid template fails before any store call", func(t *testing.T) {
		slotClient := newFakeSlotFhirClient()
		usecase := newTestUsecase(slotClient, &fakeScheduleFhirClient{schedule: schedule})

		template := mondayTemplate()
		template.StartTime = "13:00"
		template.Breaks = nil

		_, err := usecase.GenerateSlots(context.Background(), "sched-1", template)

		assert.Error(t, err)
		assert.True(t, exceptions.IsStatus(err, constvars.StatusBadRequest))
		assert.Empty(t, slotClient.created)
	})

	t.Run("Unknown schedule is a not found error", func(t *testing.T) {
		slotClient := newFakeSlotFhirClient()
		usecase := newTestUsecase(slotClient, &fakeScheduleFhirClient{schedule: schedule})

		_, err := usecase.GenerateSlots(context.Background(), "missing", mondayTemplate())

		assert.Error(t, err)
		assert.True(t, exceptions.IsStatus(err, constvars.StatusNotFound))
	})

	t.Run("Persistence failure aborts the day with a bad gateway error", func(t *testing.T) {
		slotClient := newFakeSlotFhirClient()
		slotClient.failAtCreate = 2
		usecase := newTestUsecase(slotClient, &fakeScheduleFhirClient{schedule: schedule})

		_, err := usecase.GenerateSlots(context.Background(), "sched-1", mondayTemplate())

		assert.Error(t, err)
		assert.True(t, exceptions.IsStatus(err, constvars.StatusBadGateway))
		// The two slots created before the failure remain; generation is fail-fast,
		// not rolled back.
		assert.Len(t, slotClient.created, 2)
	})
}

func TestFindAvailability(t *testing.T) {
	schedule := &fhir_dto.Schedule{ID: "sched-1", Active: true}
	base := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	t.Run("Queries free slots from the requested instant sorted by start", func(t *testing.T) {
		slotClient := newFakeSlotFhirClient()
		slotClient.searchResult = []fhir_dto.Slot{
			makeSlot("a", base, 20),
			makeSlot("b", base.Add(20*time.Minute), 20),
			makeSlot("c", base.Add(40*time.Minute), 20),
		}
		usecase := newTestUsecase(slotClient, &fakeScheduleFhirClient{schedule: schedule})

		matches, err := usecase.FindAvailability(context.Background(), "sched-1", base, 60)

		assert.NoError(t, err)
		assert.Len(t, matches, 1)
		assert.Equal(t, []string{"a", "b", "c"}, matches[0].SlotIDs)

		assert.Equal(t, string(fhir_dto.SlotStatusFree), slotClient.searchParams.Status)
		assert.Equal(t, "ge"+base.Format(time.RFC3339), slotClient.searchParams.Start)
		assert.Equal(t, constvars.FhirSearchSortAscendingStart, slotClient.searchParams.Sort)
	})

	t.Run("Non-positive duration is rejected", func(t *testing.T) {
		usecase := newTestUsecase(newFakeSlotFhirClient(), &fakeScheduleFhirClient{schedule: schedule})

		_, err := usecase.FindAvailability(context.Background(), "sched-1", base, 0)

		assert.Error(t, err)
		assert.True(t, exceptions.IsStatus(err, constvars.StatusBadRequest))
	})
}
