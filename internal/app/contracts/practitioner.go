package contracts

import (
	"context"
	"medibook-service/internal/pkg/fhir_dto"
)

type PractitionerFhirClient interface {
	FindPractitionerByID(ctx context.Context, practitionerID string) (*fhir_dto.Practitioner, error)
}
