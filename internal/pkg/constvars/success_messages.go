package constvars

const (
	SuccessCreateSchedule      = "Successfully created schedule"
	SuccessGenerateSlots       = "Successfully generated slots"
	SuccessFindAvailability    = "Successfully searched availability"
	SuccessBookAppointment     = "Successfully booked appointment"
	SuccessCancelAppointment   = "Successfully cancelled appointment"
	SuccessUpdateAppointment   = "Successfully updated appointment status"
	SuccessGetAppointment      = "Successfully retrieved appointment"
	SuccessPurgeSlots          = "Successfully purged unbooked slots"
	SuccessDeactivateSchedule  = "Successfully deactivated schedule"
	SuccessDeleteSchedule      = "Successfully deleted schedule"
)
