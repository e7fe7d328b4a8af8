package responses

import "time"

type Appointment struct {
	ID               string    `json:"id"`
	Status           string    `json:"status"`
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	MinutesDuration  uint      `json:"minutesDuration"`
	AppointmentType  string    `json:"appointmentType,omitempty"`
	Description      string    `json:"description,omitempty"`
	Comment          string    `json:"comment,omitempty"`
	PatientID        string    `json:"patientId,omitempty"`
	PatientName      string    `json:"patientName,omitempty"`
	PractitionerID   string    `json:"practitionerId,omitempty"`
	PractitionerName string    `json:"practitionerName,omitempty"`
	SlotIDs          []string  `json:"slotIds"`
}
