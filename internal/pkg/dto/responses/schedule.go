package responses

type Schedule struct {
	ID             string `json:"id"`
	PractitionerID string `json:"practitionerId"`
	Active         bool   `json:"active"`
	ServiceType    string `json:"serviceType,omitempty"`
	HorizonStart   string `json:"horizonStart,omitempty"`
	HorizonEnd     string `json:"horizonEnd,omitempty"`
}
