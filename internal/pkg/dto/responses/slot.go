package responses

import "time"

type Slot struct {
	ID              string    `json:"id"`
	ScheduleID      string    `json:"scheduleId"`
	Status          string    `json:"status"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	ServiceType     string    `json:"serviceType,omitempty"`
	DurationMinutes int       `json:"durationMinutes"`
}

type GenerateSlots struct {
	ScheduleID   string `json:"scheduleId"`
	CreatedCount int    `json:"createdCount"`
	Slots        []Slot `json:"slots"`
}

type AvailabilityMatch struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes int       `json:"durationMinutes"`
	SlotIDs         []string  `json:"slotIds"`
	Combined        bool      `json:"combined"`
}

type PurgeSlots struct {
	ScheduleID   string `json:"scheduleId"`
	DeletedCount int    `json:"deletedCount"`
}
