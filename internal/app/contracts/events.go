package contracts

import (
	"context"
	"time"
)

// AppointmentEvent is published to the message broker after a booking mutation
// commits. Consumers (reminders, audit) are outside this service.
type AppointmentEvent struct {
	Name          string    `json:"name"`
	AppointmentID string    `json:"appointmentId"`
	PatientID     string    `json:"patientId,omitempty"`
	ScheduleID    string    `json:"scheduleId,omitempty"`
	SlotIDs       []string  `json:"slotIds,omitempty"`
	Start         time.Time `json:"start,omitempty"`
	End           time.Time `json:"end,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

type EventPublisher interface {
	PublishAppointmentEvent(ctx context.Context, event AppointmentEvent) error
}
