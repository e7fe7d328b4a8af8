package constvars

const (
	ResourcePatient      = "Patient"
	ResourcePractitioner = "Practitioner"
	ResourceSchedule     = "Schedule"
	ResourceSlot         = "Slot"
	ResourceAppointment  = "Appointment"
	ResourceBundle       = "Bundle"
)

const (
	FhirAppointmentStatusBooked    = "booked"
	FhirAppointmentStatusArrived   = "arrived"
	FhirAppointmentStatusFulfilled = "fulfilled"
	FhirAppointmentStatusCancelled = "cancelled"
	FhirAppointmentStatusNoShow    = "noshow"
)

const (
	FhirParticipantStatusAccepted = "accepted"
	FhirParticipantRequired       = "required"
)

const (
	FhirSearchSortAscendingStart = "start"
	FhirSearchPrefixGreaterEqual = "ge"
	FhirSearchPrefixLessEqual    = "le"
)

// FhirServiceTypeSystem is the coding system used for schedule/slot service types.
const FhirServiceTypeSystem = "http://terminology.hl7.org/CodeSystem/service-type"
