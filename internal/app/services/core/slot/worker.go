package slot

import (
	"context"
	"fmt"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"time"

	"github.com/goccy/go-json"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// leaderLockTTL bounds how long a crashed worker can block other replicas.
const leaderLockTTL = 10 * time.Minute

// Worker keeps every registered schedule's free slots generated out to a rolling
// window of days. One tick runs per cron spec, and only on the replica holding
// the Redis leader lock.
type Worker struct {
	usecase   contracts.SlotUsecase
	schedules contracts.ScheduleFhirClient
	redisRepo contracts.RedisRepository
	locker    contracts.LockerService
	config    *config.InternalConfig
	location  *time.Location
	logger    *zap.Logger
	cron      *cron.Cron
}

func NewWorker(
	usecase contracts.SlotUsecase,
	schedules contracts.ScheduleFhirClient,
	redisRepo contracts.RedisRepository,
	locker contracts.LockerService,
	internalConfig *config.InternalConfig,
	location *time.Location,
	logger *zap.Logger,
) *Worker {
	return &Worker{
		usecase:   usecase,
		schedules: schedules,
		redisRepo: redisRepo,
		locker:    locker,
		config:    internalConfig,
		location:  location,
		logger:    logger,
	}
}

// Start schedules the worker and returns a stop function for graceful shutdown.
func (w *Worker) Start() (func(), error) {
	c := cron.New()
	_, err := c.AddFunc(w.config.App.SlotWorkerCronSpec, w.tick)
	if err != nil {
		return nil, fmt.Errorf("invalid slot worker cron spec '%s': %w", w.config.App.SlotWorkerCronSpec, err)
	}
	w.cron = c
	c.Start()
	w.logger.Info("slot worker started", zap.String("cron_spec", w.config.App.SlotWorkerCronSpec))

	return func() {
		stopCtx := w.cron.Stop()
		<-stopCtx.Done()
	}, nil
}

func (w *Worker) tick() {
	ctx := context.Background()

	acquired, lockValue, err := w.locker.TryLock(ctx, constvars.LockSlotWorkerLeaderKey, leaderLockTTL)
	if err != nil {
		w.logger.Error("slot worker tick error acquiring leader lock", zap.Error(err))
		return
	}
	if !acquired {
		w.logger.Info("slot worker tick skipped, another replica holds the leader lock")
		return
	}
	defer func() {
		if err := w.locker.Unlock(ctx, constvars.LockSlotWorkerLeaderKey, lockValue); err != nil {
			w.logger.Error("slot worker tick error releasing leader lock", zap.Error(err))
		}
	}()

	scheduleIDs, err := w.redisRepo.GetSetMembers(ctx, constvars.SlotSchedulesSetKey)
	if err != nil {
		w.logger.Error("slot worker tick error listing schedules", zap.Error(err))
		return
	}

	for _, scheduleID := range scheduleIDs {
		w.extendSchedule(ctx, scheduleID)
	}
}

func (w *Worker) extendSchedule(ctx context.Context, scheduleID string) {
	schedule, err := w.schedules.FindScheduleByID(ctx, scheduleID)
	if err != nil {
		if exceptions.IsStatus(err, constvars.StatusNotFound) {
			w.forgetSchedule(ctx, scheduleID)
			return
		}
		w.logger.Error("slot worker error fetching schedule",
			zap.String(constvars.LoggingScheduleIDKey, scheduleID),
			zap.Error(err),
		)
		return
	}
	if !schedule.Active {
		return
	}

	templateJSON, err := w.redisRepo.Get(ctx, fmt.Sprintf(constvars.SlotTemplateKeyFormat, scheduleID))
	if err != nil || templateJSON == "" {
		return
	}
	var template contracts.SlotTemplate
	if err := json.Unmarshal([]byte(templateJSON), &template); err != nil {
		w.logger.Error("slot worker error decoding cached template",
			zap.String(constvars.LoggingScheduleIDKey, scheduleID),
			zap.Error(err),
		)
		return
	}

	lastEnd, err := time.Parse(dateLayout, template.EndDate)
	if err != nil {
		return
	}

	now := time.Now().In(w.location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	horizon := today.AddDate(0, 0, w.config.App.SlotWindowDays)

	nextStart := lastEnd.AddDate(0, 0, 1)
	if nextStart.Before(today) {
		nextStart = today
	}
	if nextStart.After(horizon) {
		return
	}

	extended := template
	extended.StartDate = nextStart.Format(dateLayout)
	extended.EndDate = horizon.Format(dateLayout)

	outcome, err := w.usecase.GenerateSlots(ctx, scheduleID, extended)
	if err != nil {
		w.logger.Error("slot worker error extending schedule horizon",
			zap.String(constvars.LoggingScheduleIDKey, scheduleID),
			zap.Error(err),
		)
		return
	}
	w.logger.Info("slot worker extended schedule horizon",
		zap.String(constvars.LoggingScheduleIDKey, scheduleID),
		zap.String(constvars.LoggingDayKey, extended.EndDate),
		zap.Int(constvars.LoggingSlotCountKey, len(outcome.CreatedSlots)),
	)
}

func (w *Worker) forgetSchedule(ctx context.Context, scheduleID string) {
	if err := w.redisRepo.RemoveFromSet(ctx, constvars.SlotSchedulesSetKey, scheduleID); err != nil {
		w.logger.Error("slot worker error deregistering schedule",
			zap.String(constvars.LoggingScheduleIDKey, scheduleID),
			zap.Error(err),
		)
	}
	if err := w.redisRepo.Delete(ctx, fmt.Sprintf(constvars.SlotTemplateKeyFormat, scheduleID)); err != nil {
		w.logger.Error("slot worker error dropping cached template",
			zap.String(constvars.LoggingScheduleIDKey, scheduleID),
			zap.Error(err),
		)
	}
}
