package fhir_dto

import "time"

// AppointmentStatus enumerates the subset of FHIR Appointment.status values the
// booking engine manages.
// docs: https://hl7.org/fhir/R4/valueset-appointmentstatus.html
type AppointmentStatus string

const (
	AppointmentStatusBooked    AppointmentStatus = "booked"
	AppointmentStatusArrived   AppointmentStatus = "arrived"
	AppointmentStatusFulfilled AppointmentStatus = "fulfilled"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusNoShow    AppointmentStatus = "noshow"
)

// IsTerminal reports whether no further transition is allowed out of the status.
func (s AppointmentStatus) IsTerminal() bool {
	switch s {
	case AppointmentStatusFulfilled, AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

// CanTransitionTo implements the one-directional appointment lifecycle:
// booked -> arrived -> fulfilled, booked -> cancelled, booked -> noshow.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	switch s {
	case AppointmentStatusBooked:
		switch next {
		case AppointmentStatusArrived, AppointmentStatusFulfilled, AppointmentStatusCancelled, AppointmentStatusNoShow:
			return true
		}
	case AppointmentStatusArrived:
		return next == AppointmentStatusFulfilled
	}
	return false
}

type Appointment struct {
	ResourceType       string                   `json:"resourceType"`
	ID                 string                   `json:"id,omitempty"`
	Meta               Meta                     `json:"meta,omitempty"`
	Status             AppointmentStatus        `json:"status"`
	CancelationReason  *CodeableConcept         `json:"cancelationReason,omitempty"`
	ServiceType        []CodeableConcept        `json:"serviceType,omitempty"`
	AppointmentType    CodeableConcept          `json:"appointmentType,omitempty"`
	Description        string                   `json:"description,omitempty"`
	Start              time.Time                `json:"start,omitempty"`
	End                time.Time                `json:"end,omitempty"`
	MinutesDuration    uint                     `json:"minutesDuration,omitempty"`
	Slot               []Reference              `json:"slot,omitempty"`
	Created            time.Time                `json:"created,omitempty"`
	Comment            string                   `json:"comment,omitempty"`
	Participant        []AppointmentParticipant `json:"participant,omitempty"`
}

type AppointmentParticipant struct {
	Type     []CodeableConcept `json:"type,omitempty"`
	Actor    Reference         `json:"actor,omitempty"`
	Required string            `json:"required,omitempty"`
	Status   string            `json:"status"`
}

// SlotIDs returns the id portions of every slot reference on the appointment.
func (a Appointment) SlotIDs() []string {
	ids := make([]string, 0, len(a.Slot))
	for _, ref := range a.Slot {
		const prefix = "Slot/"
		if len(ref.Reference) > len(prefix) && ref.Reference[:len(prefix)] == prefix {
			ids = append(ids, ref.Reference[len(prefix):])
		}
	}
	return ids
}
