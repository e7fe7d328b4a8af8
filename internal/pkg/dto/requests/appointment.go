package requests

type BookAppointmentRequest struct {
	PatientID       string   `json:"patientId" validate:"required"`
	ScheduleID      string   `json:"scheduleId" validate:"required"`
	SlotIDs         []string `json:"slotIds" validate:"required,min=1"`
	AppointmentType string   `json:"appointmentType" validate:"required"`
	Reason          string   `json:"reason,omitempty"`
	Note            string   `json:"note,omitempty"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason,omitempty"`
}
