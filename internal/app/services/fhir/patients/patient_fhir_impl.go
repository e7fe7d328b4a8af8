package patients

import (
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

type patientFhirClient struct {
	BaseUrl string
}

func NewPatientFhirClient(baseUrl string) contracts.PatientFhirClient {
	return &patientFhirClient{
		BaseUrl: baseUrl + "/" + constvars.ResourcePatient,
	}
}

func (c *patientFhirClient) FindPatientByID(ctx context.Context, patientID string) (*fhir_dto.Patient, error) {
	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, fmt.Sprintf("%s/%s", c.BaseUrl, patientID), nil)
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
		return nil, exceptions.ErrResourceNotFound(nil, constvars.ResourcePatient, patientID)
	}
	if resp.StatusCode != constvars.StatusOK {
		return nil, buildPatientOutcomeError(resp, exceptions.ErrGetFHIRResource)
	}

	patientFhir := new(fhir_dto.Patient)
	err = json.NewDecoder(resp.Body).Decode(patientFhir)
	if err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourcePatient)
	}

	return patientFhir, nil
}

func buildPatientOutcomeError(resp *http.Response, build func(error, string) *exceptions.CustomError) error {
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return build(err, constvars.ResourcePatient)
	}

	var outcome fhir_dto.OperationOutcome
	err = json.Unmarshal(bodyBytes, &outcome)
	if err == nil && len(outcome.Issue) > 0 {
		return build(fmt.Errorf("%s", outcome.Issue[0].Diagnostics), constvars.ResourcePatient)
	}
	return build(fmt.Errorf("unexpected status %d", resp.StatusCode), constvars.ResourcePatient)
}
