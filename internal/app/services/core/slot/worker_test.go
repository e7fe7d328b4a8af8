package slot

import (
	"context"
	"fmt"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/fhir_dto"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeSlotUsecase struct {
	generated []contracts.SlotTemplate
	forID     []string
}

func (f *fakeSlotUsecase) GenerateSlots(ctx context.Context, scheduleID string, template contracts.SlotTemplate) (*contracts.GenerateSlotsOutcome, error) {
	f.generated = append(f.generated, template)
	f.forID = append(f.forID, scheduleID)
	return &contracts.GenerateSlotsOutcome{ScheduleID: scheduleID}, nil
}

func (f *fakeSlotUsecase) FindAvailability(ctx context.Context, scheduleID string, from time.Time, requiredMinutes int) ([]contracts.SlotMatch, error) {
	return nil, nil
}

type fakeWorkerRedis struct {
	members        []string
	templates      map[string]string
	removedFromSet []string
	deletedKeys    []string
}

func newFakeWorkerRedis() *fakeWorkerRedis {
	return &fakeWorkerRedis{templates: make(map[string]string)}
}

func (f *fakeWorkerRedis) cacheTemplate(t *testing.T, scheduleID string, template contracts.SlotTemplate) {
	t.Helper()
	payload, err := json.Marshal(template)
	assert.NoError(t, err)
	f.templates[fmt.Sprintf(constvars.SlotTemplateKeyFormat, scheduleID)] = string(payload)
	f.members = append(f.members, scheduleID)
}

func (f *fakeWorkerRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil
}

func (f *fakeWorkerRedis) Get(ctx context.Context, key string) (string, error) {
	return f.templates[key], nil
}

func (f *fakeWorkerRedis) Delete(ctx context.Context, key string) error {
	f.deletedKeys = append(f.deletedKeys, key)
	return nil
}

func (f *fakeWorkerRedis) TrySetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return true, nil
}

func (f *fakeWorkerRedis) AddToSet(ctx context.Context, key string, values ...interface{}) error {
	return nil
}

func (f *fakeWorkerRedis) GetSetMembers(ctx context.Context, key string) ([]string, error) {
	return f.members, nil
}

func (f *fakeWorkerRedis) RemoveFromSet(ctx context.Context, key string, values ...interface{}) error {
	for _, value := range values {
		f.removedFromSet = append(f.removedFromSet, fmt.Sprintf("%v", value))
	}
	return nil
}

type fakeWorkerLocker struct {
	deny bool
}

func (f *fakeWorkerLocker) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	if f.deny {
		return false, "", nil
	}
	return true, "leader-token", nil
}

func (f *fakeWorkerLocker) Unlock(ctx context.Context, key, lockValue string) error {
	return nil
}

func (f *fakeWorkerLocker) Refresh(ctx context.Context, key, lockValue string, expiration time.Duration) error {
	return nil
}

func newTestWorker(usecase *fakeSlotUsecase, schedules *fakeScheduleFhirClient, redisRepo *fakeWorkerRedis, locker *fakeWorkerLocker) *Worker {
	return NewWorker(
		usecase,
		schedules,
		redisRepo,
		locker,
		&config.InternalConfig{App: config.App{SlotWindowDays: 14, SlotWorkerCronSpec: "@daily"}},
		time.UTC,
		zap.NewNop(),
	)
}

func staleTemplate() contracts.SlotTemplate {
	template := mondayTemplate()
	// Ended before the current rolling window regardless of when the test runs.
	now := time.Now().UTC()
	template.StartDate = now.AddDate(0, 0, -14).Format("2006-01-02")
	template.EndDate = now.AddDate(0, 0, -7).Format("2006-01-02")
	return template
}

func TestWorkerTick(t *testing.T) {
	schedule := &fhir_dto.Schedule{
		ResourceType: constvars.ResourceSchedule,
		ID:           "sched-1",
		Active:       true,
	}

	t.Run("Extends each registered schedule out to the rolling window", func(t *testing.T) {
		usecase := &fakeSlotUsecase{}
		redisRepo := newFakeWorkerRedis()
		redisRepo.cacheTemplate(t, "sched-1", staleTemplate())
		worker := newTestWorker(usecase, &fakeScheduleFhirClient{schedule: schedule}, redisRepo, &fakeWorkerLocker{})

		worker.tick()

		assert.Len(t, usecase.generated, 1)
		assert.Equal(t, []string{"sched-1"}, usecase.forID)

		extended := usecase.generated[0]
		now := time.Now().UTC()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		assert.Equal(t, today.Format("2006-01-02"), extended.StartDate)
		assert.Equal(t, today.AddDate(0, 0, 14).Format("2006-01-02"), extended.EndDate)

		// The weekly shape is carried over untouched.
		assert.Equal(t, staleTemplate().DaysOfWeek, extended.DaysOfWeek)
		assert.Equal(t, staleTemplate().StartTime, extended.StartTime)
		assert.Equal(t, staleTemplate().Breaks, extended.Breaks)
	})

	t.Run("Skips the tick when another replica holds the leader lock", func(t *testing.T) {
		usecase := &fakeSlotUsecase{}
		redisRepo := newFakeWorkerRedis()
		redisRepo.cacheTemplate(t, "sched-1", staleTemplate())
		worker := newTestWorker(usecase, &fakeScheduleFhirClient{schedule: schedule}, redisRepo, &fakeWorkerLocker{deny: true})

		worker.tick()

		assert.Empty(t, usecase.generated)
	})

	t.Run("Deregisters a schedule the store no longer has", func(t *testing.T) {
		usecase := &fakeSlotUsecase{}
		redisRepo := newFakeWorkerRedis()
		redisRepo.cacheTemplate(t, "gone", staleTemplate())
		worker := newTestWorker(usecase, &fakeScheduleFhirClient{schedule: schedule}, redisRepo, &fakeWorkerLocker{})

		worker.tick()

		assert.Empty(t, usecase.generated)
		assert.Contains(t, redisRepo.removedFromSet, "gone")
		assert.Contains(t, redisRepo.deletedKeys, fmt.Sprintf(constvars.SlotTemplateKeyFormat, "gone"))
	})

	t.Run("Skips inactive schedules", func(t *testing.T) {
		inactive := *schedule
		inactive.Active = false
		usecase := &fakeSlotUsecase{}
		redisRepo := newFakeWorkerRedis()
		redisRepo.cacheTemplate(t, "sched-1", staleTemplate())
		worker := newTestWorker(usecase, &fakeScheduleFhirClient{schedule: &inactive}, redisRepo, &fakeWorkerLocker{})

		worker.tick()

		assert.Empty(t, usecase.generated)
	})

	t.Run("Skips schedules with no cached template", func(t *testing.T) {
		usecase := &fakeSlotUsecase{}
		redisRepo := newFakeWorkerRedis()
		redisRepo.members = []string{"sched-1"}
		worker := newTestWorker(usecase, &fakeScheduleFhirClient{schedule: schedule}, redisRepo, &fakeWorkerLocker{})

		worker.tick()

		assert.Empty(t, usecase.generated)
	})

	t.Run("Leaves a schedule alone once its horizon is already covered", func(t *testing.T) {
		covered := staleTemplate()
		covered.EndDate = time.Now().UTC().AddDate(0, 0, 30).Format("2006-01-02")
		usecase := &fakeSlotUsecase{}
		redisRepo := newFakeWorkerRedis()
		redisRepo.cacheTemplate(t, "sched-1", covered)
		worker := newTestWorker(usecase, &fakeScheduleFhirClient{schedule: schedule}, redisRepo, &fakeWorkerLocker{})

		worker.tick()

		assert.Empty(t, usecase.generated)
	})
}
