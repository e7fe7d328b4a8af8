package contracts

import (
	"context"
	"medibook-service/internal/pkg/dto/responses"
	"medibook-service/internal/pkg/fhir_dto"
)

type AppointmentFhirClient interface {
	CreateAppointment(ctx context.Context, request *fhir_dto.Appointment) (*fhir_dto.Appointment, error)
	FindAppointmentByID(ctx context.Context, appointmentID string) (*fhir_dto.Appointment, error)
	UpdateAppointment(ctx context.Context, request *fhir_dto.Appointment) (*fhir_dto.Appointment, error)
}

// BookAppointmentInput carries everything Book needs. Match references the real
// slot ids to transition free->busy; the span becomes the appointment's start/end.
type BookAppointmentInput struct {
	PatientID       string
	ScheduleID      string
	Match           SlotMatch
	AppointmentType string
	Reason          string
	Note            string
}

type AppointmentUsecase interface {
	Book(ctx context.Context, input BookAppointmentInput) (*responses.Appointment, error)
	Cancel(ctx context.Context, appointmentID, reason string) (*responses.Appointment, error)
	CheckIn(ctx context.Context, appointmentID string) (*responses.Appointment, error)
	Fulfill(ctx context.Context, appointmentID string) (*responses.Appointment, error)
	NoShow(ctx context.Context, appointmentID string) (*responses.Appointment, error)
	FindByID(ctx context.Context, appointmentID string) (*responses.Appointment, error)
}
