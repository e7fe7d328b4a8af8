package contracts

import (
	"context"
	"medibook-service/internal/pkg/fhir_dto"
	"time"
)

// SlotSearchParams maps onto FHIR Slot search parameters. Start and End take a
// prefix-qualified instant such as "ge2026-01-02T09:00:00Z". Zero values are omitted.
type SlotSearchParams struct {
	Status string
	Start  string
	End    string
	Count  int
	Sort   string
}

type SlotFhirClient interface {
	CreateSlot(ctx context.Context, request *fhir_dto.Slot) (*fhir_dto.Slot, error)
	FindSlotByID(ctx context.Context, slotID string) (*fhir_dto.Slot, error)
	// UpdateSlot sends a version-aware update. When ifMatchVersion is non-empty the
	// store must reject the write if the stored versionId differs (If-Match), which is
	// what makes the free->busy transition a compare-and-set.
	UpdateSlot(ctx context.Context, request *fhir_dto.Slot, ifMatchVersion string) (*fhir_dto.Slot, error)
	DeleteSlot(ctx context.Context, slotID string) error
	FindSlotsByScheduleWithQuery(ctx context.Context, scheduleID string, params SlotSearchParams) ([]fhir_dto.Slot, error)
}

// BreakWindow is a wall-clock interval of a working day during which no slots are
// generated.
type BreakWindow struct {
	Start string // "HH:MM"
	End   string // "HH:MM"
}

// SlotTemplate describes a recurring weekly slot plan over a date range. All times
// are wall-clock values interpreted in the service's configured location.
type SlotTemplate struct {
	StartDate           string // "YYYY-MM-DD", inclusive
	EndDate             string // "YYYY-MM-DD", inclusive
	DaysOfWeek          []int  // 0=Sunday .. 6=Saturday
	StartTime           string // "HH:MM"
	EndTime             string // "HH:MM"
	SlotDurationMinutes int
	Breaks              []BreakWindow
}

// SlotMatch is a transient bookable interval: either one sufficient slot or a run
// of contiguous free slots coalesced to satisfy a requested duration. It is never
// persisted; SlotIDs carries the real slots booking must mark busy.
type SlotMatch struct {
	Start    time.Time
	End      time.Time
	SlotIDs  []string
	Combined bool
}

// DurationMinutes returns the whole-minute length of the matched span.
func (m SlotMatch) DurationMinutes() int {
	return int(m.End.Sub(m.Start) / time.Minute)
}

type GenerateSlotsOutcome struct {
	ScheduleID   string
	CreatedSlots []fhir_dto.Slot
}

type SlotUsecase interface {
	// GenerateSlots expands the template over its date range and persists one free
	// Slot per surviving interval. An empty outcome is a valid result.
	GenerateSlots(ctx context.Context, scheduleID string, template SlotTemplate) (*GenerateSlotsOutcome, error)
	// FindAvailability fetches the schedule's free slots starting at or after 'from'
	// and returns every single or combined match satisfying requiredMinutes.
	FindAvailability(ctx context.Context, scheduleID string, from time.Time, requiredMinutes int) ([]SlotMatch, error)
}
