package controllers

import (
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/dto/responses"
	"medibook-service/internal/pkg/fhir_dto"
	"medibook-service/internal/pkg/utils"
)

func buildGenerateSlotsResponse(outcome *contracts.GenerateSlotsOutcome) *responses.GenerateSlots {
	slots := make([]responses.Slot, 0, len(outcome.CreatedSlots))
	for _, slot := range outcome.CreatedSlots {
		slots = append(slots, responses.Slot{
			ID:              slot.ID,
			ScheduleID:      utils.ExtractReferenceID(slot.Schedule.Reference),
			Status:          string(slot.Status),
			Start:           slot.Start,
			End:             slot.End,
			ServiceType:     firstServiceTypeCode(slot),
			DurationMinutes: int(slot.Duration().Minutes()),
		})
	}
	return &responses.GenerateSlots{
		ScheduleID:   outcome.ScheduleID,
		CreatedCount: len(slots),
		Slots:        slots,
	}
}

func firstServiceTypeCode(slot fhir_dto.Slot) string {
	for _, st := range slot.ServiceType {
		for _, coding := range st.Coding {
			if coding.Code != "" {
				return coding.Code
			}
		}
		if st.Text != "" {
			return st.Text
		}
	}
	return ""
}

func buildAvailabilityResponse(matches []contracts.SlotMatch) []responses.AvailabilityMatch {
	result := make([]responses.AvailabilityMatch, 0, len(matches))
	for _, match := range matches {
		result = append(result, responses.AvailabilityMatch{
			Start:           match.Start,
			End:             match.End,
			DurationMinutes: match.DurationMinutes(),
			SlotIDs:         match.SlotIDs,
			Combined:        match.Combined,
		})
	}
	return result
}
