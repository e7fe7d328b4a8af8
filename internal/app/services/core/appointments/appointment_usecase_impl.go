package appointments

import (
	"context"
	"fmt"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/responses"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/fhir_dto"
	"medibook-service/internal/pkg/utils"
	"time"

	"go.uber.org/zap"
)

type AppointmentUsecase struct {
	appointments  contracts.AppointmentFhirClient
	slots         contracts.SlotFhirClient
	schedules     contracts.ScheduleFhirClient
	patients      contracts.PatientFhirClient
	practitioners contracts.PractitionerFhirClient
	locker        contracts.LockerService
	publisher     contracts.EventPublisher
	config        *config.InternalConfig
	logger        *zap.Logger
}

func NewAppointmentUsecase(
	appointments contracts.AppointmentFhirClient,
	slots contracts.SlotFhirClient,
	schedules contracts.ScheduleFhirClient,
	patients contracts.PatientFhirClient,
	practitioners contracts.PractitionerFhirClient,
	locker contracts.LockerService,
	publisher contracts.EventPublisher,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.AppointmentUsecase {
	return &AppointmentUsecase{
		appointments:  appointments,
		slots:         slots,
		schedules:     schedules,
		patients:      patients,
		practitioners: practitioners,
		locker:        locker,
		publisher:     publisher,
		config:        internalConfig,
		logger:        logger,
	}
}

func (u *AppointmentUsecase) Book(ctx context.Context, input contracts.BookAppointmentInput) (*responses.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	u.logger.Info("AppointmentUsecase.Book called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, input.PatientID),
		zap.String(constvars.LoggingScheduleIDKey, input.ScheduleID),
		zap.Strings("slot_ids", input.Match.SlotIDs),
	)

	if len(input.Match.SlotIDs) == 0 {
		return nil, exceptions.ErrInvalidTemplate(fmt.Errorf("a booking needs at least one slot"))
	}

	patient, err := u.patients.FindPatientByID(ctx, input.PatientID)
	if err != nil {
		return nil, err
	}
	schedule, err := u.schedules.FindScheduleByID(ctx, input.ScheduleID)
	if err != nil {
		return nil, err
	}

	lockTTL := time.Duration(u.config.App.BookingLockTTLInSeconds) * time.Second
	lockValues, err := u.lockSlots(ctx, input.Match.SlotIDs, lockTTL)
	if err != nil {
		return nil, err
	}
	defer u.unlockSlots(ctx, lockValues)

	busied, err := u.busySlots(ctx, input.Match.SlotIDs)
	if err != nil {
		return nil, err
	}

	// The persisted slots are authoritative for the appointment span; the match the
	// caller selected may have been computed from an earlier search.
	start, end := bookingSpan(busied, input.Match.Start, input.Match.End)

	appointment := u.buildAppointment(input, schedule, patient, start, end)
	created, err := u.appointments.CreateAppointment(ctx, appointment)
	if err != nil {
		u.logger.Error("AppointmentUsecase.Book appointment create failed, re-freeing slots",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		u.compensateFreeSlots(ctx, busied)
		return nil, err
	}

	u.publishEvent(ctx, contracts.AppointmentEvent{
		Name:          constvars.EventAppointmentBooked,
		AppointmentID: created.ID,
		PatientID:     input.PatientID,
		ScheduleID:    input.ScheduleID,
		SlotIDs:       input.Match.SlotIDs,
		Start:         start,
		End:           end,
		OccurredAt:    time.Now(),
	})

	u.logger.Info("AppointmentUsecase.Book succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, created.ID),
	)

	response := u.buildResponse(ctx, created)
	return response, nil
}

// lockSlots takes a per-slot Redis lock for every referenced slot, in order. A slot
// already locked by a concurrent booking aborts the whole attempt.
func (u *AppointmentUsecase) lockSlots(ctx context.Context, slotIDs []string, ttl time.Duration) (map[string]string, error) {
	lockValues := make(map[string]string, len(slotIDs))
	for _, slotID := range slotIDs {
		key := fmt.Sprintf(constvars.LockSlotKeyFormat, slotID)
		acquired, lockValue, err := u.locker.TryLock(ctx, key, ttl)
		if err != nil {
			u.unlockSlots(ctx, lockValues)
			return nil, err
		}
		if !acquired {
			u.unlockSlots(ctx, lockValues)
			return nil, exceptions.ErrLockNotAcquired(nil, key)
		}
		lockValues[key] = lockValue
	}
	return lockValues, nil
}

func (u *AppointmentUsecase) unlockSlots(ctx context.Context, lockValues map[string]string) {
	for key, lockValue := range lockValues {
		if err := u.locker.Unlock(ctx, key, lockValue); err != nil {
			u.logger.Error("AppointmentUsecase.unlockSlots error releasing lock",
				zap.String(constvars.LoggingRedisKey, key),
				zap.Error(err),
			)
		}
	}
}

// busySlots transitions every referenced slot free->busy. Each write is a
// compare-and-set against the versionId observed at read time, so a concurrent
// booking that slipped past the Redis lock still loses here. Any failure re-frees
// the slots already busied and nothing is persisted.
func (u *AppointmentUsecase) busySlots(ctx context.Context, slotIDs []string) ([]fhir_dto.Slot, error) {
	observed := make([]fhir_dto.Slot, 0, len(slotIDs))
	for _, slotID := range slotIDs {
		slot, err := u.slots.FindSlotByID(ctx, slotID)
		if err != nil {
			return nil, err
		}
		if slot.Status != fhir_dto.SlotStatusFree {
			return nil, exceptions.ErrSlotNotFree(nil, slotID)
		}
		observed = append(observed, *slot)
	}

	busied := make([]fhir_dto.Slot, 0, len(observed))
	for _, slot := range observed {
		update := slot
		update.Status = fhir_dto.SlotStatusBusy
		updated, err := u.slots.UpdateSlot(ctx, &update, slot.Meta.VersionId)
		if err != nil {
			u.compensateFreeSlots(ctx, busied)
			return nil, err
		}
		busied = append(busied, *updated)
	}
	return busied, nil
}

// compensateFreeSlots best-effort re-frees slots busied by a booking attempt that
// failed partway. Failures are logged; the slot lock TTL bounds how long a stuck
// slot stays unbookable.
func (u *AppointmentUsecase) compensateFreeSlots(ctx context.Context, busied []fhir_dto.Slot) {
	for _, slot := range busied {
		update := slot
		update.Status = fhir_dto.SlotStatusFree
		if _, err := u.slots.UpdateSlot(ctx, &update, slot.Meta.VersionId); err != nil {
			u.logger.Error("AppointmentUsecase.compensateFreeSlots error re-freeing slot",
				zap.String(constvars.LoggingSlotIDKey, slot.ID),
				zap.Error(err),
			)
		}
	}
}

// bookingSpan returns the interval the busied slots cover.
func bookingSpan(busied []fhir_dto.Slot, matchStart, matchEnd time.Time) (time.Time, time.Time) {
	if len(busied) == 0 {
		return matchStart, matchEnd
	}
	start, end := busied[0].Start, busied[0].End
	for _, slot := range busied[1:] {
		if slot.Start.Before(start) {
			start = slot.Start
		}
		if slot.End.After(end) {
			end = slot.End
		}
	}
	return start, end
}

func (u *AppointmentUsecase) buildAppointment(input contracts.BookAppointmentInput, schedule *fhir_dto.Schedule, patient *fhir_dto.Patient, start, end time.Time) *fhir_dto.Appointment {
	slotRefs := make([]fhir_dto.Reference, 0, len(input.Match.SlotIDs))
	for _, slotID := range input.Match.SlotIDs {
		slotRefs = append(slotRefs, utils.BuildReference(constvars.ResourceSlot, slotID))
	}

	participants := []fhir_dto.AppointmentParticipant{
		{
			Actor:    utils.BuildReference(constvars.ResourcePatient, patient.ID),
			Required: constvars.FhirParticipantRequired,
			Status:   constvars.FhirParticipantStatusAccepted,
		},
	}
	if practitionerID := schedule.PractitionerActorID(); practitionerID != "" {
		participants = append(participants, fhir_dto.AppointmentParticipant{
			Actor:    utils.BuildReference(constvars.ResourcePractitioner, practitionerID),
			Required: constvars.FhirParticipantRequired,
			Status:   constvars.FhirParticipantStatusAccepted,
		})
	}

	appointment := &fhir_dto.Appointment{
		ResourceType:    constvars.ResourceAppointment,
		Status:          fhir_dto.AppointmentStatusBooked,
		Start:           start,
		End:             end,
		MinutesDuration: uint(end.Sub(start) / time.Minute),
		Slot:            slotRefs,
		Created:         time.Now(),
		Description:     input.Reason,
		Comment:         input.Note,
		Participant:     participants,
	}
	if input.AppointmentType != "" {
		appointment.AppointmentType = fhir_dto.CodeableConcept{Text: input.AppointmentType}
	}
	return appointment
}

func (u *AppointmentUsecase) Cancel(ctx context.Context, appointmentID, reason string) (*responses.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	u.logger.Info("AppointmentUsecase.Cancel called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)

	appointment, err := u.appointments.FindAppointmentByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	// Explicit status check makes a double-cancel a no-op instead of needlessly
	// re-freeing already-free slots.
	if appointment.Status == fhir_dto.AppointmentStatusCancelled {
		return u.buildResponse(ctx, appointment), nil
	}
	if !appointment.Status.CanTransitionTo(fhir_dto.AppointmentStatusCancelled) {
		return nil, exceptions.ErrInvalidStatusTransition(string(appointment.Status), string(fhir_dto.AppointmentStatusCancelled))
	}

	for _, slotID := range appointment.SlotIDs() {
		slot, err := u.slots.FindSlotByID(ctx, slotID)
		if err != nil {
			return nil, err
		}
		if slot.Status == fhir_dto.SlotStatusFree {
			continue
		}
		update := *slot
		update.Status = fhir_dto.SlotStatusFree
		if _, err := u.slots.UpdateSlot(ctx, &update, slot.Meta.VersionId); err != nil {
			return nil, err
		}
	}

	appointment.Status = fhir_dto.AppointmentStatusCancelled
	if reason != "" {
		appointment.CancelationReason = &fhir_dto.CodeableConcept{Text: reason}
	}
	updated, err := u.appointments.UpdateAppointment(ctx, appointment)
	if err != nil {
		return nil, err
	}

	u.publishEvent(ctx, contracts.AppointmentEvent{
		Name:          constvars.EventAppointmentCancelled,
		AppointmentID: updated.ID,
		SlotIDs:       updated.SlotIDs(),
		Start:         updated.Start,
		End:           updated.End,
		OccurredAt:    time.Now(),
	})

	u.logger.Info("AppointmentUsecase.Cancel succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)
	return u.buildResponse(ctx, updated), nil
}

func (u *AppointmentUsecase) CheckIn(ctx context.Context, appointmentID string) (*responses.Appointment, error) {
	return u.transition(ctx, appointmentID, fhir_dto.AppointmentStatusArrived)
}

func (u *AppointmentUsecase) Fulfill(ctx context.Context, appointmentID string) (*responses.Appointment, error) {
	return u.transition(ctx, appointmentID, fhir_dto.AppointmentStatusFulfilled)
}

func (u *AppointmentUsecase) NoShow(ctx context.Context, appointmentID string) (*responses.Appointment, error) {
	return u.transition(ctx, appointmentID, fhir_dto.AppointmentStatusNoShow)
}

// transition applies a pure appointment status change with no slot side effects.
func (u *AppointmentUsecase) transition(ctx context.Context, appointmentID string, next fhir_dto.AppointmentStatus) (*responses.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	u.logger.Info("AppointmentUsecase.transition called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
		zap.String(constvars.LoggingStatusKey, string(next)),
	)

	appointment, err := u.appointments.FindAppointmentByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !appointment.Status.CanTransitionTo(next) {
		return nil, exceptions.ErrInvalidStatusTransition(string(appointment.Status), string(next))
	}

	appointment.Status = next
	updated, err := u.appointments.UpdateAppointment(ctx, appointment)
	if err != nil {
		return nil, err
	}
	return u.buildResponse(ctx, updated), nil
}

func (u *AppointmentUsecase) FindByID(ctx context.Context, appointmentID string) (*responses.Appointment, error) {
	appointment, err := u.appointments.FindAppointmentByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	return u.buildResponse(ctx, appointment), nil
}

func (u *AppointmentUsecase) publishEvent(ctx context.Context, event contracts.AppointmentEvent) {
	if u.publisher == nil {
		return
	}
	// A booking that committed must not fail because the broker is down.
	if err := u.publisher.PublishAppointmentEvent(ctx, event); err != nil {
		u.logger.Error("AppointmentUsecase.publishEvent error publishing",
			zap.String(constvars.LoggingEventKey, event.Name),
			zap.String(constvars.LoggingAppointmentIDKey, event.AppointmentID),
			zap.Error(err),
		)
	}
}

// buildResponse flattens the FHIR appointment into the API shape, resolving
// participant names best-effort.
func (u *AppointmentUsecase) buildResponse(ctx context.Context, appointment *fhir_dto.Appointment) *responses.Appointment {
	response := &responses.Appointment{
		ID:              appointment.ID,
		Status:          string(appointment.Status),
		Start:           appointment.Start,
		End:             appointment.End,
		MinutesDuration: appointment.MinutesDuration,
		AppointmentType: appointment.AppointmentType.Text,
		Description:     appointment.Description,
		Comment:         appointment.Comment,
		SlotIDs:         appointment.SlotIDs(),
	}

	for _, participant := range appointment.Participant {
		ref := participant.Actor.Reference
		switch {
		case len(ref) > len("Patient/") && ref[:len("Patient/")] == "Patient/":
			response.PatientID = utils.ExtractReferenceID(ref)
		case len(ref) > len("Practitioner/") && ref[:len("Practitioner/")] == "Practitioner/":
			response.PractitionerID = utils.ExtractReferenceID(ref)
		}
	}

	if response.PatientID != "" {
		if patient, err := u.patients.FindPatientByID(ctx, response.PatientID); err == nil {
			response.PatientName = utils.GetFullName(patient.Name)
		}
	}
	if response.PractitionerID != "" {
		if practitioner, err := u.practitioners.FindPractitionerByID(ctx, response.PractitionerID); err == nil {
			response.PractitionerName = utils.GetFullName(practitioner.Name)
		}
	}
	return response
}
