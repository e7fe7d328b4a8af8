package config

type InternalConfig struct {
	App  App
	FHIR FHIR
}

type App struct {
	Env                       string
	Port                      string
	Version                   string
	Timezone                  string
	EndpointPrefix            string
	MaxRequests               int
	ShutdownTimeout           int
	AppointmentEventQueue     string
	BookingLockTTLInSeconds   int
	// SlotWindowDays controls rolling window days for Slot generation
	SlotWindowDays int
	// SlotWorkerCronSpec defines the cron expression for the slot worker schedule (e.g., "@daily")
	SlotWorkerCronSpec string
}

type FHIR struct {
	BaseUrl string
}
