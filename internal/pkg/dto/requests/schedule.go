package requests

type CreateScheduleRequest struct {
	PractitionerID string `json:"practitionerId" validate:"required"`
	ServiceType    string `json:"serviceType,omitempty"`
	HorizonStart   string `json:"horizonStart,omitempty" validate:"omitempty,datetime=2006-01-02"`
	HorizonEnd     string `json:"horizonEnd,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Comment        string `json:"comment,omitempty"`
}

type BreakWindowRequest struct {
	Start string `json:"start" validate:"required,datetime=15:04"`
	End   string `json:"end" validate:"required,datetime=15:04"`
}

type GenerateSlotsRequest struct {
	StartDate           string               `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate             string               `json:"endDate" validate:"required,datetime=2006-01-02"`
	DaysOfWeek          []int                `json:"daysOfWeek" validate:"required,min=1,dive,gte=0,lte=6"`
	StartTime           string               `json:"startTime" validate:"required,datetime=15:04"`
	EndTime             string               `json:"endTime" validate:"required,datetime=15:04"`
	SlotDurationMinutes int                  `json:"slotDurationMinutes" validate:"required,gt=0"`
	Breaks              []BreakWindowRequest `json:"breaks,omitempty" validate:"omitempty,dive"`
}
