package slot

import (
	"context"
	"fmt"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/fhir_dto"
	"medibook-service/internal/pkg/utils"
	"time"

	"go.uber.org/zap"
)

type SlotUsecase struct {
	slots     contracts.SlotFhirClient
	schedules contracts.ScheduleFhirClient
	redisRepo contracts.RedisRepository
	config    *config.InternalConfig
	location  *time.Location
	logger    *zap.Logger
}

func NewSlotUsecase(
	slots contracts.SlotFhirClient,
	schedules contracts.ScheduleFhirClient,
	redisRepo contracts.RedisRepository,
	internalConfig *config.InternalConfig,
	location *time.Location,
	logger *zap.Logger,
) *SlotUsecase {
	return &SlotUsecase{
		slots:     slots,
		schedules: schedules,
		redisRepo: redisRepo,
		config:    internalConfig,
		location:  location,
		logger:    logger,
	}
}

func (s *SlotUsecase) GenerateSlots(ctx context.Context, scheduleID string, template contracts.SlotTemplate) (*contracts.GenerateSlotsOutcome, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.logger.Info("SlotUsecase.GenerateSlots called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingScheduleIDKey, scheduleID),
	)

	breaks, dayStart, dayEnd, startDate, endDate, err := validateTemplate(template)
	if err != nil {
		return nil, exceptions.ErrInvalidTemplate(err)
	}

	schedule, err := s.schedules.FindScheduleByID(ctx, scheduleID)
	if err != nil {
		s.logger.Error("SlotUsecase.GenerateSlots error fetching schedule",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingScheduleIDKey, scheduleID),
			zap.Error(err),
		)
		return nil, err
	}

	weekdays := make(map[int]bool, len(template.DaysOfWeek))
	for _, day := range template.DaysOfWeek {
		weekdays[day] = true
	}

	outcome := &contracts.GenerateSlotsOutcome{
		ScheduleID:   scheduleID,
		CreatedSlots: make([]fhir_dto.Slot, 0),
	}

	for day := startDate; !day.After(endDate); day = day.AddDate(0, 0, 1) {
		if !weekdays[int(day.Weekday())] {
			continue
		}

		intervals := generateDayIntervals(day, dayStart, dayEnd, template.SlotDurationMinutes, breaks, s.location)
		for _, candidate := range intervals {
			slotFhir := &fhir_dto.Slot{
				ResourceType: constvars.ResourceSlot,
				Schedule:     utils.BuildReference(constvars.ResourceSchedule, scheduleID),
				Status:       fhir_dto.SlotStatusFree,
				ServiceType:  schedule.ServiceType,
				Start:        candidate.Start,
				End:          candidate.End,
			}
			created, err := s.slots.CreateSlot(ctx, slotFhir)
			if err != nil {
				dayLabel := day.Format(dateLayout)
				s.logger.Error("SlotUsecase.GenerateSlots day aborted on slot create",
					zap.String(constvars.LoggingRequestIDKey, requestID),
					zap.String(constvars.LoggingScheduleIDKey, scheduleID),
					zap.String(constvars.LoggingDayKey, dayLabel),
					zap.Error(err),
				)
				return nil, exceptions.ErrSlotGenerationDay(err, scheduleID, dayLabel)
			}
			outcome.CreatedSlots = append(outcome.CreatedSlots, *created)
		}
	}

	s.rememberTemplate(ctx, scheduleID, template)

	s.logger.Info("SlotUsecase.GenerateSlots succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingScheduleIDKey, scheduleID),
		zap.Int(constvars.LoggingSlotCountKey, len(outcome.CreatedSlots)),
	)
	return outcome, nil
}

// rememberTemplate caches the last generation plan so the rolling worker can keep
// extending the horizon. Failure here never fails the generation itself.
func (s *SlotUsecase) rememberTemplate(ctx context.Context, scheduleID string, template contracts.SlotTemplate) {
	if s.redisRepo == nil {
		return
	}
	key := fmt.Sprintf(constvars.SlotTemplateKeyFormat, scheduleID)
	if err := s.redisRepo.Set(ctx, key, template, 0); err != nil {
		s.logger.Warn("SlotUsecase.rememberTemplate error caching template",
			zap.String(constvars.LoggingScheduleIDKey, scheduleID),
			zap.Error(err),
		)
		return
	}
	if err := s.redisRepo.AddToSet(ctx, constvars.SlotSchedulesSetKey, scheduleID); err != nil {
		s.logger.Warn("SlotUsecase.rememberTemplate error registering schedule",
			zap.String(constvars.LoggingScheduleIDKey, scheduleID),
			zap.Error(err),
		)
	}
}

func (s *SlotUsecase) FindAvailability(ctx context.Context, scheduleID string, from time.Time, requiredMinutes int) ([]contracts.SlotMatch, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.logger.Info("SlotUsecase.FindAvailability called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingScheduleIDKey, scheduleID),
		zap.Int(constvars.LoggingDurationMinutesKey, requiredMinutes),
	)

	if requiredMinutes <= 0 {
		return nil, exceptions.ErrInvalidTemplate(fmt.Errorf("required duration must be positive, got %d", requiredMinutes))
	}

	params := contracts.SlotSearchParams{
		Status: string(fhir_dto.SlotStatusFree),
		Start:  constvars.FhirSearchPrefixGreaterEqual + from.Format(time.RFC3339),
		Sort:   constvars.FhirSearchSortAscendingStart,
	}
	freeSlots, err := s.slots.FindSlotsByScheduleWithQuery(ctx, scheduleID, params)
	if err != nil {
		s.logger.Error("SlotUsecase.FindAvailability error fetching free slots",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingScheduleIDKey, scheduleID),
			zap.Error(err),
		)
		return nil, err
	}

	matches := findSlotsForDuration(freeSlots, requiredMinutes)
	s.logger.Info("SlotUsecase.FindAvailability succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingScheduleIDKey, scheduleID),
		zap.Int(constvars.LoggingMatchCountKey, len(matches)),
	)
	return matches, nil
}
