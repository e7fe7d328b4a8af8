package schedules

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/fhir_dto"
	"net/http"
)

type scheduleFhirClient struct {
	BaseUrl string
}

func NewScheduleFhirClient(baseUrl string) contracts.ScheduleFhirClient {
	return &scheduleFhirClient{
		BaseUrl: baseUrl + "/" + constvars.ResourceSchedule,
	}
}

func (c *scheduleFhirClient) CreateSchedule(ctx context.Context, request *fhir_dto.Schedule) (*fhir_dto.Schedule, error) {
	requestJSON, err := json.Marshal(request)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodPost, c.BaseUrl, bytes.NewBuffer(requestJSON))
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusCreated {
		return nil, buildScheduleOutcomeError(resp, exceptions.ErrCreateFHIRResource)
	}

	scheduleFhir := new(fhir_dto.Schedule)
	err = json.NewDecoder(resp.Body).Decode(scheduleFhir)
	if err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceSchedule)
	}

	return scheduleFhir, nil
}

func (c *scheduleFhirClient) FindScheduleByID(ctx context.Context, scheduleID string) (*fhir_dto.Schedule, error) {
	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, fmt.Sprintf("%s/%s", c.BaseUrl, scheduleID), nil)
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == constvars.StatusNotFound || resp.StatusCode == constvars.StatusGone {
		return nil, exceptions.ErrResourceNotFound(nil, constvars.ResourceSchedule, scheduleID)
	}
	if resp.StatusCode != constvars.StatusOK {
		return nil, buildScheduleOutcomeError(resp, exceptions.ErrGetFHIRResource)
	}

	scheduleFhir := new(fhir_dto.Schedule)
	err = json.NewDecoder(resp.Body).Decode(scheduleFhir)
	if err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceSchedule)
	}

	return scheduleFhir, nil
}

func (c *scheduleFhirClient) FindScheduleByPractitionerID(ctx context.Context, practitionerID string) ([]fhir_dto.Schedule, error) {
	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, fmt.Sprintf("%s?actor=%s/%s", c.BaseUrl, constvars.ResourcePractitioner, practitionerID), nil)
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK {
		return nil, buildScheduleOutcomeError(resp, exceptions.ErrGetFHIRResource)
	}

	var result fhir_dto.FHIRBundle
	err = json.NewDecoder(resp.Body).Decode(&result)
	if err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceSchedule)
	}

	schedulesFhir := make([]fhir_dto.Schedule, 0, len(result.Entry))
	for _, entry := range result.Entry {
		var schedule fhir_dto.Schedule
		err := json.Unmarshal(entry.Resource, &schedule)
		if err != nil {
			return nil, exceptions.ErrCannotParseJSON(err)
		}
		schedulesFhir = append(schedulesFhir, schedule)
	}

	return schedulesFhir, nil
}

func (c *scheduleFhirClient) UpdateSchedule(ctx context.Context, request *fhir_dto.Schedule) (*fhir_dto.Schedule, error) {
	requestJSON, err := json.Marshal(request)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodPut, fmt.Sprintf("%s/%s", c.BaseUrl, request.ID), bytes.NewBuffer(requestJSON))
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == constvars.StatusNotFound || resp.StatusCode == constvars.StatusGone {
		return nil, exceptions.ErrResourceNotFound(nil, constvars.ResourceSchedule, request.ID)
	}
	if resp.StatusCode != constvars.StatusOK {
		return nil, buildScheduleOutcomeError(resp, exceptions.ErrUpdateFHIRResource)
	}

	scheduleFhir := new(fhir_dto.Schedule)
	err = json.NewDecoder(resp.Body).Decode(scheduleFhir)
	if err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceSchedule)
	}

	return scheduleFhir, nil
}

func (c *scheduleFhirClient) DeleteSchedule(ctx context.Context, scheduleID string) error {
	req, err := http.NewRequestWithContext(ctx, constvars.MethodDelete, fmt.Sprintf("%s/%s", c.BaseUrl, scheduleID), nil)
	if err != nil {
		return exceptions.ErrCreateHTTPRequest(err)
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case constvars.StatusOK, constvars.StatusNoContent, constvars.StatusNotFound, constvars.StatusGone:
		return nil
	}
	return buildScheduleOutcomeError(resp, exceptions.ErrDeleteFHIRResource)
}

func buildScheduleOutcomeError(resp *http.Response, build func(error, string) *exceptions.CustomError) error {
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return build(err, constvars.ResourceSchedule)
	}

	var outcome fhir_dto.OperationOutcome
	err = json.Unmarshal(bodyBytes, &outcome)
	if err == nil && len(outcome.Issue) > 0 {
		return build(fmt.Errorf("%s", outcome.Issue[0].Diagnostics), constvars.ResourceSchedule)
	}
	return build(fmt.Errorf("unexpected status %d", resp.StatusCode), constvars.ResourceSchedule)
}
