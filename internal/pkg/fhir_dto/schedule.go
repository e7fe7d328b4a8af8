package fhir_dto

type Schedule struct {
	ResourceType    string            `json:"resourceType"`
	ID              string            `json:"id,omitempty"`
	Meta            Meta              `json:"meta,omitempty"`
	Identifier     []Identifier      `json:"identifier,omitempty"`
	Active          bool              `json:"active,omitempty"`
	ServiceType     []CodeableConcept `json:"serviceType,omitempty"`
	Actor           []Reference       `json:"actor"`
	PlanningHorizon Period            `json:"planningHorizon,omitempty"`
	Comment         string            `json:"comment,omitempty"`
}

// PractitionerActorID returns the id portion of the first Practitioner actor
// reference, or "" when the schedule has no practitioner actor.
func (s Schedule) PractitionerActorID() string {
	for _, actor := range s.Actor {
		const prefix = "Practitioner/"
		if len(actor.Reference) > len(prefix) && actor.Reference[:len(prefix)] == prefix {
			return actor.Reference[len(prefix):]
		}
	}
	return ""
}

// FirstServiceType returns the schedule's service type coding code, if any.
func (s Schedule) FirstServiceType() string {
	for _, st := range s.ServiceType {
		for _, c := range st.Coding {
			if c.Code != "" {
				return c.Code
			}
		}
		if st.Text != "" {
			return st.Text
		}
	}
	return ""
}
