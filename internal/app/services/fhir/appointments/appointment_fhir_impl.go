package appointments

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

type appointmentFhirClient struct {
	BaseUrl string
}

func NewAppointmentFhirClient(baseUrl string) contracts.AppointmentFhirClient {
	return &appointmentFhirClient{
		BaseUrl: baseUrl + "/" + constvars.ResourceAppointment,
	}
}

func (c *appointmentFhirClient) CreateAppointment(ctx context.Context, request *fhir_dto.Appointment) (*fhir_dto.Appointment, error) {
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
		return nil, buildAppointmentOutcomeError(resp, exceptions.ErrCreateFHIRResource)
	}

	appointmentFhir := new(fhir_dto.Appointment)
	err = json.NewDecoder(resp.Body).Decode(appointmentFhir)
	if err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceAppointment)
	}

	return appointmentFhir, nil
}

func (c *appointmentFhirClient) FindAppointmentByID(ctx context.Context, appointmentID string) (*fhir_dto.Appointment, error) {
	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, fmt.Sprintf("%s/%s", c.BaseUrl, appointmentID), nil)
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
		return nil, exceptions.ErrResourceNotFound(nil, constvars.ResourceAppointment, appointmentID)
	}
	if resp.StatusCode != constvars.StatusOK {
		return nil, buildAppointmentOutcomeError(resp, exceptions.ErrGetFHIRResource)
	}

	appointmentFhir := new(fhir_dto.Appointment)
	err = json.NewDecoder(resp.Body).Decode(appointmentFhir)
	if err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceAppointment)
	}

	return appointmentFhir, nil
}

func (c *appointmentFhirClient) UpdateAppointment(ctx context.Context, request *fhir_dto.Appointment) (*fhir_dto.Appointment, error) {
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
		return nil, exceptions.ErrResourceNotFound(nil, constvars.ResourceAppointment, request.ID)
	}
	if resp.StatusCode != constvars.StatusOK {
		return nil, buildAppointmentOutcomeError(resp, exceptions.ErrUpdateFHIRResource)
	}

	appointmentFhir := new(fhir_dto.Appointment)
	err = json.NewDecoder(resp.Body).Decode(appointmentFhir)
	if err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceAppointment)
	}

	return appointmentFhir, nil
}

func buildAppointmentOutcomeError(resp *http.Response, build func(error, string) *exceptions.CustomError) error {
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return build(err, constvars.ResourceAppointment)
	}

	var outcome fhir_dto.OperationOutcome
	err = json.Unmarshal(bodyBytes, &outcome)
	if err == nil && len(outcome.Issue) > 0 {
		return build(fmt.Errorf("%s", outcome.Issue[0].Diagnostics), constvars.ResourceAppointment)
	}
	return build(fmt.Errorf("unexpected status %d", resp.StatusCode), constvars.ResourceAppointment)
}
