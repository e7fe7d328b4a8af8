package constvars

const (
	LoggingRequestIDKey        = "request_id"
	LoggingScheduleIDKey       = "schedule_id"
	LoggingSlotIDKey           = "slot_id"
	LoggingSlotCountKey        = "slot_count"
	LoggingAppointmentIDKey    = "appointment_id"
	LoggingAppointmentCountKey = "appointment_count"
	LoggingPatientIDKey        = "patient_id"
	LoggingPractitionerIDKey   = "practitioner_id"
	LoggingDayKey              = "day"
	LoggingStatusKey           = "status"
	LoggingDurationMinutesKey  = "duration_minutes"
	LoggingMatchCountKey       = "match_count"
	LoggingDeletedCountKey     = "deleted_count"
	LoggingRedisKey            = "redis_key"
	LoggingLockValueKey        = "lock_value"
	LoggingLockExpirationKey   = "lock_expiration"
	LoggingEventKey            = "event"
	LoggingQueueKey            = "queue"
	LoggingMethodKey           = "method"
	LoggingEndpointKey         = "endpoint"
	LoggingRemoteAddrKey       = "remote_addr"
	LoggingUserAgentKey        = "user_agent"
	LoggingQueryKey            = "query"
	LoggingStatusCodeKey       = "status_code"
	LoggingDurationKey         = "duration"
	LoggingSuccessKey          = "success"
)
