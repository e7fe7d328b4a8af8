package practitioners

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

type practitionerFhirClient struct {
	BaseUrl string
}

func NewPractitionerFhirClient(baseUrl string) contracts.PractitionerFhirClient {
	return &practitionerFhirClient{
		BaseUrl: baseUrl + "/" + constvars.ResourcePractitioner,
	}
}

func (c *practitionerFhirClient) FindPractitionerByID(ctx context.Context, practitionerID string) (*fhir_dto.Practitioner, error) {
	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, fmt.Sprintf("%s/%s", c.BaseUrl, practitionerID), nil)
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
		return nil, exceptions.ErrResourceNotFound(nil, constvars.ResourcePractitioner, practitionerID)
	}
	if resp.StatusCode != constvars.StatusOK {
		return nil, buildPractitionerOutcomeError(resp, exceptions.ErrGetFHIRResource)
	}

	practitionerFhir := new(fhir_dto.Practitioner)
	err = json.NewDecoder(resp.Body).Decode(practitionerFhir)
	if err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourcePractitioner)
	}

	return practitionerFhir, nil
}

func buildPractitionerOutcomeError(resp *http.Response, build func(error, string) *exceptions.CustomError) error {
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return build(err, constvars.ResourcePractitioner)
	}

	var outcome fhir_dto.OperationOutcome
	err = json.Unmarshal(bodyBytes, &outcome)
	if err == nil && len(outcome.Issue) > 0 {
		return build(fmt.Errorf("%s", outcome.Issue[0].Diagnostics), constvars.ResourcePractitioner)
	}
	return build(fmt.Errorf("unexpected status %d", resp.StatusCode), constvars.ResourcePractitioner)
}
