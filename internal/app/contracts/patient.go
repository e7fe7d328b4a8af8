package contracts

import (
	"context"
	"medibook-service/internal/pkg/fhir_dto"
)

type PatientFhirClient interface {
	FindPatientByID(ctx context.Context, patientID string) (*fhir_dto.Patient, error)
}
