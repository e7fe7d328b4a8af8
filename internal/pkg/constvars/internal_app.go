package constvars

type contextKey string

// CONTEXT_REQUEST_ID_KEY carries the per-request id injected by the request-id middleware.
const CONTEXT_REQUEST_ID_KEY contextKey = "request_id"

const (
	// LockSlotKeyFormat is the Redis key for a per-slot booking lock.
	LockSlotKeyFormat = "lock:slot:%s"
	// LockSlotWorkerLeaderKey is the fixed key used to elect a single slot worker leader.
	LockSlotWorkerLeaderKey = "slotgen:leader"
	// SlotTemplateKeyFormat stores the last generation template per schedule so the
	// rolling worker can extend the horizon with the same plan.
	SlotTemplateKeyFormat = "slotgen:template:%s"
	// SlotSchedulesSetKey is the set of schedule ids the rolling worker maintains.
	SlotSchedulesSetKey = "slotgen:schedules"
)

const (
	EventAppointmentBooked    = "appointment.booked"
	EventAppointmentCancelled = "appointment.cancelled"
)
