package contracts

import (
	"context"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
	"medibook-service/internal/pkg/fhir_dto"
)

type ScheduleFhirClient interface {
	CreateSchedule(ctx context.Context, request *fhir_dto.Schedule) (*fhir_dto.Schedule, error)
	FindScheduleByID(ctx context.Context, scheduleID string) (*fhir_dto.Schedule, error)
	FindScheduleByPractitionerID(ctx context.Context, practitionerID string) ([]fhir_dto.Schedule, error)
	UpdateSchedule(ctx context.Context, request *fhir_dto.Schedule) (*fhir_dto.Schedule, error)
	DeleteSchedule(ctx context.Context, scheduleID string) error
}

type ScheduleUsecase interface {
	Create(ctx context.Context, request *requests.CreateScheduleRequest) (*responses.Schedule, error)
	// PurgeFutureFreeSlots bulk-deletes the schedule's free slots whose start is at
	// or after now. Booked (busy) slots are never touched.
	PurgeFutureFreeSlots(ctx context.Context, scheduleID string) (*responses.PurgeSlots, error)
	Deactivate(ctx context.Context, scheduleID string) (*responses.Schedule, error)
	// Delete purges the schedule's free slots, then deletes the schedule itself.
	Delete(ctx context.Context, scheduleID string) error
}
