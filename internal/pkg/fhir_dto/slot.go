package fhir_dto

import (
	"fmt"
	"time"
)

// SlotStatus enumerates valid FHIR Slot.status values.
// docs: https://hl7.org/fhir/R4/valueset-slotstatus.html
type SlotStatus string

const (
	SlotStatusFree SlotStatus = "free"
	SlotStatusBusy SlotStatus = "busy"
)

type Slot struct {
	ResourceType string          `json:"resourceType"`
	ID           string          `json:"id,omitempty"`
	Meta         Meta            `json:"meta,omitempty"`
	Identifier   []Identifier    `json:"identifier,omitempty"`
	ServiceType  []CodeableConcept `json:"serviceType,omitempty"`
	Schedule     Reference       `json:"schedule"`
	Status       SlotStatus      `json:"status"`
	Start        time.Time       `json:"start"`
	End          time.Time       `json:"end"`
	Comment      string          `json:"comment,omitempty"`
}

// Duration returns the slot length.
func (s Slot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// ParseSlotStatus converts a string into a SlotStatus, validating the value.
func ParseSlotStatus(s string) (SlotStatus, error) {
	switch SlotStatus(s) {
	case SlotStatusFree, SlotStatusBusy:
		return SlotStatus(s), nil
	default:
		return "", fmt.Errorf("invalid slot status '%s'; must be one of: free, busy", s)
	}
}
