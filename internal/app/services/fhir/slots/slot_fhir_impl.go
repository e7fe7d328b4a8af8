package slots

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
	"net/url"
)

type slotFhirClient struct {
	BaseUrl string
}

func NewSlotFhirClient(baseUrl string) contracts.SlotFhirClient {
	return &slotFhirClient{
		BaseUrl: baseUrl + "/" + constvars.ResourceSlot,
	}
}

func (c *slotFhirClient) CreateSlot(ctx context.Context, request *fhir_dto.Slot) (*fhir_dto.Slot, error) {
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
		return nil, buildSlotOutcomeError(resp, exceptions.ErrCreateFHIRResource)
	}

	slotFhir := new(fhir_dto.Slot)
	err = json.NewDecoder(resp.Body).Decode(slotFhir)
	if err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceSlot)
	}

	return slotFhir, nil
}

func (c *slotFhirClient) FindSlotByID(ctx context.Context, slotID string) (*fhir_dto.Slot, error) {
	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, fmt.Sprintf("%s/%s", c.BaseUrl, slotID), nil)
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
		return nil, exceptions.ErrResourceNotFound(nil, constvars.ResourceSlot, slotID)
	}
	if resp.StatusCode != constvars.StatusOK {
		return nil, buildSlotOutcomeError(resp, exceptions.ErrGetFHIRResource)
	}

	slotFhir := new(fhir_dto.Slot)
	err = json.NewDecoder(resp.Body).Decode(slotFhir)
	if err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceSlot)
	}

	return slotFhir, nil
}

func (c *slotFhirClient) UpdateSlot(ctx context.Context, request *fhir_dto.Slot, ifMatchVersion string) (*fhir_dto.Slot, error) {
	requestJSON, err := json.Marshal(request)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodPut, fmt.Sprintf("%s/%s", c.BaseUrl, request.ID), bytes.NewBuffer(requestJSON))
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)
	if ifMatchVersion != "" {
		req.Header.Set(constvars.HeaderIfMatch, fmt.Sprintf(`W/"%s"`, ifMatchVersion))
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == constvars.StatusNotFound || resp.StatusCode == constvars.StatusGone {
		return nil, exceptions.ErrResourceNotFound(nil, constvars.ResourceSlot, request.ID)
	}
	// The store rejects the write when the stored versionId no longer matches If-Match.
	if resp.StatusCode == constvars.StatusPreconditionFailed || resp.StatusCode == constvars.StatusConflict {
		return nil, exceptions.ErrSlotVersionConflict(nil, request.ID)
	}
	if resp.StatusCode != constvars.StatusOK {
		return nil, buildSlotOutcomeError(resp, exceptions.ErrUpdateFHIRResource)
	}

	slotFhir := new(fhir_dto.Slot)
	err = json.NewDecoder(resp.Body).Decode(slotFhir)
	if err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceSlot)
	}

	return slotFhir, nil
}

func (c *slotFhirClient) DeleteSlot(ctx context.Context, slotID string) error {
	req, err := http.NewRequestWithContext(ctx, constvars.MethodDelete, fmt.Sprintf("%s/%s", c.BaseUrl, slotID), nil)
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
	return buildSlotOutcomeError(resp, exceptions.ErrDeleteFHIRResource)
}

func (c *slotFhirClient) FindSlotsByScheduleWithQuery(ctx context.Context, scheduleID string, params contracts.SlotSearchParams) ([]fhir_dto.Slot, error) {
	query := url.Values{}
	query.Set("schedule", constvars.ResourceSchedule+"/"+scheduleID)
	if params.Status != "" {
		query.Set("status", params.Status)
	}
	if params.Start != "" {
		query.Add("start", params.Start)
	}
	if params.End != "" {
		query.Add("end", params.End)
	}
	if params.Count > 0 {
		query.Set("_count", fmt.Sprintf("%d", params.Count))
	}
	if params.Sort != "" {
		query.Set("_sort", params.Sort)
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, fmt.Sprintf("%s?%s", c.BaseUrl, query.Encode()), nil)
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
		return nil, buildSlotOutcomeError(resp, exceptions.ErrGetFHIRResource)
	}

	var result fhir_dto.FHIRBundle
	err = json.NewDecoder(resp.Body).Decode(&result)
	if err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceSlot)
	}

	slotsFhir := make([]fhir_dto.Slot, 0, len(result.Entry))
	for _, entry := range result.Entry {
		var slot fhir_dto.Slot
		err := json.Unmarshal(entry.Resource, &slot)
		if err != nil {
			return nil, exceptions.ErrCannotParseJSON(err)
		}
		slotsFhir = append(slotsFhir, slot)
	}

	return slotsFhir, nil
}

// buildSlotOutcomeError surfaces the store's OperationOutcome diagnostics when present.
func buildSlotOutcomeError(resp *http.Response, build func(error, string) *exceptions.CustomError) error {
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return build(err, constvars.ResourceSlot)
	}

	var outcome fhir_dto.OperationOutcome
	err = json.Unmarshal(bodyBytes, &outcome)
	if err == nil && len(outcome.Issue) > 0 {
		return build(fmt.Errorf("%s", outcome.Issue[0].Diagnostics), constvars.ResourceSlot)
	}
	return build(fmt.Errorf("unexpected status %d", resp.StatusCode), constvars.ResourceSlot)
}
