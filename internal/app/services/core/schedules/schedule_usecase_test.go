package schedules

import (
	"context"
	"fmt"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/fhir_dto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeScheduleFhirClient struct {
	schedules map[string]*fhir_dto.Schedule
	updated   *fhir_dto.Schedule
	deleted   []string
}

func newFakeScheduleFhirClient(schedules ...*fhir_dto.Schedule) *fakeScheduleFhirClient {
	client := &fakeScheduleFhirClient{schedules: make(map[string]*fhir_dto.Schedule)}
	for _, schedule := range schedules {
		client.schedules[schedule.ID] = schedule
	}
	return client
}

func (f *fakeScheduleFhirClient) CreateSchedule(ctx context.Context, request *fhir_dto.Schedule) (*fhir_dto.Schedule, error) {
	created := *request
	created.ID = fmt.Sprintf("sched-%d", len(f.schedules)+1)
	f.schedules[created.ID] = &created
	result := created
	return &result, nil
}

func (f *fakeScheduleFhirClient) FindScheduleByID(ctx context.Context, scheduleID string) (*fhir_dto.Schedule, error) {
	schedule, ok := f.schedules[scheduleID]
	if !ok {
		return nil, exceptions.ErrResourceNotFound(nil, constvars.ResourceSchedule, scheduleID)
	}
	found := *schedule
	return &found, nil
}

func (f *fakeScheduleFhirClient) FindScheduleByPractitionerID(ctx context.Context, practitionerID string) ([]fhir_dto.Schedule, error) {
	return nil, nil
}

func (f *fakeScheduleFhirClient) UpdateSchedule(ctx context.Context, request *fhir_dto.Schedule) (*fhir_dto.Schedule, error) {
	updated := *request
	f.schedules[updated.ID] = &updated
	f.updated = &updated
	result := updated
	return &result, nil
}

func (f *fakeScheduleFhirClient) DeleteSchedule(ctx context.Context, scheduleID string) error {
	delete(f.schedules, scheduleID)
	f.deleted = append(f.deleted, scheduleID)
	return nil
}

type fakeSlotFhirClient struct {
	freeSlots    []fhir_dto.Slot
	searchParams contracts.SlotSearchParams
	deleted      []string
	failDelete   bool
}

func (f *fakeSlotFhirClient) CreateSlot(ctx context.Context, request *fhir_dto.Slot) (*fhir_dto.Slot, error) {
	return request, nil
}

func (f *fakeSlotFhirClient) FindSlotByID(ctx context.Context, slotID string) (*fhir_dto.Slot, error) {
	return nil, exceptions.ErrResourceNotFound(nil, constvars.ResourceSlot, slotID)
}

func (f *fakeSlotFhirClient) UpdateSlot(ctx context.Context, request *fhir_dto.Slot, ifMatchVersion string) (*fhir_dto.Slot, error) {
	return request, nil
}

func (f *fakeSlotFhirClient) DeleteSlot(ctx context.Context, slotID string) error {
	if f.failDelete {
		return exceptions.ErrDeleteFHIRResource(fmt.Errorf("store unavailable"), constvars.ResourceSlot)
	}
	f.deleted = append(f.deleted, slotID)
	return nil
}

func (f *fakeSlotFhirClient) FindSlotsByScheduleWithQuery(ctx context.Context, scheduleID string, params contracts.SlotSearchParams) ([]fhir_dto.Slot, error) {
	f.searchParams = params
	return f.freeSlots, nil
}

type fakeRedisRepository struct {
	removedFromSet []string
	deletedKeys    []string
}

func (f *fakeRedisRepository) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil
}

func (f *fakeRedisRepository) Get(ctx context.Context, key string) (string, error) {
	return "", nil
}

func (f *fakeRedisRepository) Delete(ctx context.Context, key string) error {
	f.deletedKeys = append(f.deletedKeys, key)
	return nil
}

func (f *fakeRedisRepository) TrySetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return true, nil
}

func (f *fakeRedisRepository) AddToSet(ctx context.Context, key string, values ...interface{}) error {
	return nil
}

func (f *fakeRedisRepository) GetSetMembers(ctx context.Context, key string) ([]string, error) {
	return nil, nil
}

func (f *fakeRedisRepository) RemoveFromSet(ctx context.Context, key string, values ...interface{}) error {
	for _, value := range values {
		f.removedFromSet = append(f.removedFromSet, fmt.Sprintf("%s:%v", key, value))
	}
	return nil
}

func activeSchedule(id string) *fhir_dto.Schedule {
	return &fhir_dto.Schedule{
		ResourceType: constvars.ResourceSchedule,
		ID:           id,
		Active:       true,
		Actor:        []fhir_dto.Reference{{Reference: "Practitioner/prac-1", Type: constvars.ResourcePractitioner}},
	}
}

func TestCreate(t *testing.T) {
	t.Run("Builds an active schedule around the practitioner", func(t *testing.T) {
		scheduleClient := newFakeScheduleFhirClient()
		usecase := NewScheduleUsecase(scheduleClient, &fakeSlotFhirClient{}, nil, zap.NewNop())

		response, err := usecase.Create(context.Background(), &requests.CreateScheduleRequest{
			PractitionerID: "prac-1",
			ServiceType:    "consultation",
			HorizonStart:   "2026-01-05",
			HorizonEnd:     "2026-03-01",
		})

		assert.NoError(t, err)
		assert.True(t, response.Active)
		assert.Equal(t, "prac-1", response.PractitionerID)
		assert.Equal(t, "consultation", response.ServiceType)
		assert.Equal(t, "2026-01-05", response.HorizonStart)
		assert.Equal(t, "2026-03-01", response.HorizonEnd)

		stored := scheduleClient.schedules[response.ID]
		assert.Equal(t, "Practitioner/prac-1", stored.Actor[0].Reference)
		assert.Equal(t, constvars.FhirServiceTypeSystem, stored.ServiceType[0].Coding[0].System)
	})

	t.Run("Service type and horizon are optional", func(t *testing.T) {
		scheduleClient := newFakeScheduleFhirClient()
		usecase := NewScheduleUsecase(scheduleClient, &fakeSlotFhirClient{}, nil, zap.NewNop())

		response, err := usecase.Create(context.Background(), &requests.CreateScheduleRequest{
			PractitionerID: "prac-1",
		})

		assert.NoError(t, err)
		assert.Empty(t, response.ServiceType)
		assert.Empty(t, scheduleClient.schedules[response.ID].ServiceType)
	})
}

func TestPurgeFutureFreeSlots(t *testing.T) {
	base := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	t.Run("Deletes every future free slot and reports the count", func(t *testing.T) {
		slotClient := &fakeSlotFhirClient{
			freeSlots: []fhir_dto.Slot{
				{ID: "slot-1", Status: fhir_dto.SlotStatusFree, Start: base},
				{ID: "slot-2", Status: fhir_dto.SlotStatusFree, Start: base.Add(30 * time.Minute)},
			},
		}
		usecase := NewScheduleUsecase(newFakeScheduleFhirClient(activeSchedule("sched-1")), slotClient, nil, zap.NewNop())

		response, err := usecase.PurgeFutureFreeSlots(context.Background(), "sched-1")

		assert.NoError(t, err)
		assert.Equal(t, "sched-1", response.ScheduleID)
		assert.Equal(t, 2, response.DeletedCount)
		assert.Equal(t, []string{"slot-1", "slot-2"}, slotClient.deleted)

		assert.Equal(t, string(fhir_dto.SlotStatusFree), slotClient.searchParams.Status)
		assert.True(t, strings.HasPrefix(slotClient.searchParams.Start, constvars.FhirSearchPrefixGreaterEqual))
		assert.Equal(t, constvars.FhirSearchSortAscendingStart, slotClient.searchParams.Sort)
	})

	t.Run("No matching slots yields a zero count", func(t *testing.T) {
		slotClient := &fakeSlotFhirClient{}
		usecase := NewScheduleUsecase(newFakeScheduleFhirClient(activeSchedule("sched-1")), slotClient, nil, zap.NewNop())

		response, err := usecase.PurgeFutureFreeSlots(context.Background(), "sched-1")

		assert.NoError(t, err)
		assert.Equal(t, 0, response.DeletedCount)
	})

	t.Run("Unknown schedule is a not found error before any delete", func(t *testing.T) {
		slotClient := &fakeSlotFhirClient{
			freeSlots: []fhir_dto.Slot{{ID: "slot-1", Status: fhir_dto.SlotStatusFree}},
		}
		usecase := NewScheduleUsecase(newFakeScheduleFhirClient(), slotClient, nil, zap.NewNop())

		_, err := usecase.PurgeFutureFreeSlots(context.Background(), "missing")

		assert.Error(t, err)
		assert.True(t, exceptions.IsStatus(err, constvars.StatusNotFound))
		assert.Empty(t, slotClient.deleted)
	})

	t.Run("Delete failure surfaces as a bad gateway error", func(t *testing.T) {
		slotClient := &fakeSlotFhirClient{
			freeSlots:  []fhir_dto.Slot{{ID: "slot-1", Status: fhir_dto.SlotStatusFree}},
			failDelete: true,
		}
		usecase := NewScheduleUsecase(newFakeScheduleFhirClient(activeSchedule("sched-1")), slotClient, nil, zap.NewNop())

		_, err := usecase.PurgeFutureFreeSlots(context.Background(), "sched-1")

		assert.Error(t, err)
		assert.True(t, exceptions.IsStatus(err, constvars.StatusBadGateway))
	})
}

func TestDeactivate(t *testing.T) {
	t.Run("Marks the schedule inactive and deregisters it from the worker", func(t *testing.T) {
		scheduleClient := newFakeScheduleFhirClient(activeSchedule("sched-1"))
		redisRepo := &fakeRedisRepository{}
		usecase := NewScheduleUsecase(scheduleClient, &fakeSlotFhirClient{}, redisRepo, zap.NewNop())

		response, err := usecase.Deactivate(context.Background(), "sched-1")

		assert.NoError(t, err)
		assert.False(t, response.Active)
		assert.False(t, scheduleClient.updated.Active)

		assert.Contains(t, redisRepo.removedFromSet, constvars.SlotSchedulesSetKey+":sched-1")
		assert.Contains(t, redisRepo.deletedKeys, fmt.Sprintf(constvars.SlotTemplateKeyFormat, "sched-1"))
	})

	t.Run("Unknown schedule is a not found error", func(t *testing.T) {
		usecase := NewScheduleUsecase(newFakeScheduleFhirClient(), &fakeSlotFhirClient{}, nil, zap.NewNop())

		_, err := usecase.Deactivate(context.Background(), "missing")

		assert.Error(t, err)
		assert.True(t, exceptions.IsStatus(err, constvars.StatusNotFound))
	})
}

func TestDelete(t *testing.T) {
	base := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	t.Run("Purges free slots then deletes the schedule and its worker state", func(t *testing.T) {
		scheduleClient := newFakeScheduleFhirClient(activeSchedule("sched-1"))
		slotClient := &fakeSlotFhirClient{
			freeSlots: []fhir_dto.Slot{{ID: "slot-1", Status: fhir_dto.SlotStatusFree, Start: base}},
		}
		redisRepo := &fakeRedisRepository{}
		usecase := NewScheduleUsecase(scheduleClient, slotClient, redisRepo, zap.NewNop())

		err := usecase.Delete(context.Background(), "sched-1")

		assert.NoError(t, err)
		assert.Equal(t, []string{"slot-1"}, slotClient.deleted)
		assert.Equal(t, []string{"sched-1"}, scheduleClient.deleted)
		assert.Contains(t, redisRepo.removedFromSet, constvars.SlotSchedulesSetKey+":sched-1")
	})

	t.Run("Purge failure leaves the schedule in place", func(t *testing.T) {
		scheduleClient := newFakeScheduleFhirClient(activeSchedule("sched-1"))
		slotClient := &fakeSlotFhirClient{
			freeSlots:  []fhir_dto.Slot{{ID: "slot-1", Status: fhir_dto.SlotStatusFree, Start: base}},
			failDelete: true,
		}
		usecase := NewScheduleUsecase(scheduleClient, slotClient, &fakeRedisRepository{}, zap.NewNop())

		err := usecase.Delete(context.Background(), "sched-1")

		assert.Error(t, err)
		assert.Empty(t, scheduleClient.deleted)
	})
}
