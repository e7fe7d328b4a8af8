package constvars

// Client-facing messages. Kept generic so internal detail never leaks to callers.
const (
	ErrClientCannotProcessRequest          = "We cannot process your request, please check your request"
	ErrClientSomethingWrongWithApplication = "Something is wrong with the application, please contact our administrator"
	ErrClientResourceNotFound              = "The requested resource could not be found"
	ErrClientSlotNoLongerAvailable         = "The selected time is no longer available, please pick another slot"
	ErrClientInvalidStatusTransition       = "The appointment can no longer be changed to the requested status"
	ErrClientFHIRServerUnavailable         = "The clinical data server is currently unavailable, please try again later"
)

// Developer messages. Logged, and returned only outside production.
const (
	ErrDevValidationFailed          = "Validation failed for request payload"
	ErrDevInvalidRequestPayload     = "Invalid request payload"
	ErrDevCannotParseJSON           = "Failed to parse JSON"
	ErrDevCannotMarshalJSON         = "Failed to marshal JSON"
	ErrDevCannotParseDate           = "Failed to parse date"
	ErrDevBuildHTTPRequest          = "Failed to build HTTP request"
	ErrDevSendHTTPRequest           = "Failed to send HTTP request"
	ErrDevGetFHIRResource           = "Failed to fetch FHIR resource: %s"
	ErrDevCreateFHIRResource        = "Failed to create FHIR resource: %s"
	ErrDevUpdateFHIRResource        = "Failed to update FHIR resource: %s"
	ErrDevDeleteFHIRResource        = "Failed to delete FHIR resource: %s"
	ErrDevDecodeFHIRResponse        = "Failed to decode FHIR response body: %s"
	ErrDevFHIRResourceNotFound      = "FHIR resource not found: %s/%s"
	ErrDevSlotNotFree               = "Slot is not free: %s"
	ErrDevSlotVersionConflict       = "Slot version changed between read and write: %s"
	ErrDevInvalidStatusTransition   = "Invalid appointment status transition from '%s' to '%s'"
	ErrDevSlotGenerationDayFailed   = "Slot generation failed for schedule %s on day %s"
	ErrDevRedisSetData              = "Failed to set data to Redis"
	ErrDevRedisGetData              = "Failed to get data from Redis"
	ErrDevRedisDeleteData           = "Failed to delete data from Redis"
	ErrDevRedisUnlock               = "Failed to release Redis lock"
	ErrDevRedisAddToSet             = "Failed to add member to Redis set"
	ErrDevRedisGetSetMembers        = "Failed to get members of Redis set"
	ErrDevRedisRemoveFromSet        = "Failed to remove member from Redis set"
	ErrDevLockNotAcquired           = "Could not acquire lock for key %s"
	ErrDevPublishEvent              = "Failed to publish event to message broker"
	ErrDevURLParamIDValidationFailed = "URL parameter '%s' is missing or malformed"
)

const ResponseUnknown = "unknown"
