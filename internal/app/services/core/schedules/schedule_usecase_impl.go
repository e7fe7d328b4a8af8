package schedules

import (
	"context"
	"fmt"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
	"medibook-service/internal/pkg/fhir_dto"
	"medibook-service/internal/pkg/utils"
	"time"

	"go.uber.org/zap"
)

type ScheduleUsecase struct {
	schedules contracts.ScheduleFhirClient
	slots     contracts.SlotFhirClient
	redisRepo contracts.RedisRepository
	logger    *zap.Logger
}

func NewScheduleUsecase(
	schedules contracts.ScheduleFhirClient,
	slots contracts.SlotFhirClient,
	redisRepo contracts.RedisRepository,
	logger *zap.Logger,
) contracts.ScheduleUsecase {
	return &ScheduleUsecase{
		schedules: schedules,
		slots:     slots,
		redisRepo: redisRepo,
		logger:    logger,
	}
}

func (u *ScheduleUsecase) Create(ctx context.Context, request *requests.CreateScheduleRequest) (*responses.Schedule, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	u.logger.Info("ScheduleUsecase.Create called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPractitionerIDKey, request.PractitionerID),
	)

	scheduleFhir := &fhir_dto.Schedule{
		ResourceType: constvars.ResourceSchedule,
		Active:       true,
		Actor: []fhir_dto.Reference{
			utils.BuildReference(constvars.ResourcePractitioner, request.PractitionerID),
		},
		Comment: request.Comment,
	}
	if request.ServiceType != "" {
		scheduleFhir.ServiceType = []fhir_dto.CodeableConcept{
			{
				Coding: []fhir_dto.Coding{
					{System: constvars.FhirServiceTypeSystem, Code: request.ServiceType},
				},
				Text: request.ServiceType,
			},
		}
	}
	if request.HorizonStart != "" || request.HorizonEnd != "" {
		scheduleFhir.PlanningHorizon = fhir_dto.Period{
			Start: request.HorizonStart,
			End:   request.HorizonEnd,
		}
	}

	created, err := u.schedules.CreateSchedule(ctx, scheduleFhir)
	if err != nil {
		u.logger.Error("ScheduleUsecase.Create error creating schedule",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	u.logger.Info("ScheduleUsecase.Create succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingScheduleIDKey, created.ID),
	)
	return buildScheduleResponse(created), nil
}

func (u *ScheduleUsecase) PurgeFutureFreeSlots(ctx context.Context, scheduleID string) (*responses.PurgeSlots, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	u.logger.Info("ScheduleUsecase.PurgeFutureFreeSlots called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingScheduleIDKey, scheduleID),
	)

	if _, err := u.schedules.FindScheduleByID(ctx, scheduleID); err != nil {
		return nil, err
	}

	params := contracts.SlotSearchParams{
		Status: string(fhir_dto.SlotStatusFree),
		Start:  constvars.FhirSearchPrefixGreaterEqual + time.Now().Format(time.RFC3339),
		Sort:   constvars.FhirSearchSortAscendingStart,
	}
	freeSlots, err := u.slots.FindSlotsByScheduleWithQuery(ctx, scheduleID, params)
	if err != nil {
		return nil, err
	}

	deleted := 0
	for _, slot := range freeSlots {
		if err := u.slots.DeleteSlot(ctx, slot.ID); err != nil {
			u.logger.Error("ScheduleUsecase.PurgeFutureFreeSlots error deleting slot",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingSlotIDKey, slot.ID),
				zap.Error(err),
			)
			return nil, err
		}
		deleted++
	}

	u.logger.Info("ScheduleUsecase.PurgeFutureFreeSlots succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingScheduleIDKey, scheduleID),
		zap.Int(constvars.LoggingDeletedCountKey, deleted),
	)
	return &responses.PurgeSlots{ScheduleID: scheduleID, DeletedCount: deleted}, nil
}

func (u *ScheduleUsecase) Deactivate(ctx context.Context, scheduleID string) (*responses.Schedule, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	u.logger.Info("ScheduleUsecase.Deactivate called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingScheduleIDKey, scheduleID),
	)

	schedule, err := u.schedules.FindScheduleByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	schedule.Active = false
	updated, err := u.schedules.UpdateSchedule(ctx, schedule)
	if err != nil {
		return nil, err
	}

	u.forgetWorkerState(ctx, scheduleID)
	return buildScheduleResponse(updated), nil
}

func (u *ScheduleUsecase) Delete(ctx context.Context, scheduleID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	u.logger.Info("ScheduleUsecase.Delete called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingScheduleIDKey, scheduleID),
	)

	if _, err := u.PurgeFutureFreeSlots(ctx, scheduleID); err != nil {
		return err
	}
	if err := u.schedules.DeleteSchedule(ctx, scheduleID); err != nil {
		return err
	}

	u.forgetWorkerState(ctx, scheduleID)
	u.logger.Info("ScheduleUsecase.Delete succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingScheduleIDKey, scheduleID),
	)
	return nil
}

// forgetWorkerState drops the schedule from the rolling worker's registry so a
// deactivated or deleted schedule stops getting new slots.
func (u *ScheduleUsecase) forgetWorkerState(ctx context.Context, scheduleID string) {
	if u.redisRepo == nil {
		return
	}
	if err := u.redisRepo.RemoveFromSet(ctx, constvars.SlotSchedulesSetKey, scheduleID); err != nil {
		u.logger.Warn("ScheduleUsecase.forgetWorkerState error deregistering schedule",
			zap.String(constvars.LoggingScheduleIDKey, scheduleID),
			zap.Error(err),
		)
	}
	if err := u.redisRepo.Delete(ctx, fmt.Sprintf(constvars.SlotTemplateKeyFormat, scheduleID)); err != nil {
		u.logger.Warn("ScheduleUsecase.forgetWorkerState error dropping cached template",
			zap.String(constvars.LoggingScheduleIDKey, scheduleID),
			zap.Error(err),
		)
	}
}

func buildScheduleResponse(schedule *fhir_dto.Schedule) *responses.Schedule {
	return &responses.Schedule{
		ID:             schedule.ID,
		PractitionerID: schedule.PractitionerActorID(),
		Active:         schedule.Active,
		ServiceType:    schedule.FirstServiceType(),
		HorizonStart:   schedule.PlanningHorizon.Start,
		HorizonEnd:     schedule.PlanningHorizon.End,
	}
}
