package utils

import (
	"medibook-service/internal/pkg/fhir_dto"
	"strings"
)

// BuildReference assembles a "Type/id" FHIR reference.
func BuildReference(resourceType, id string) fhir_dto.Reference {
	return fhir_dto.Reference{
		Reference: resourceType + "/" + id,
		Type:      resourceType,
	}
}

// ExtractReferenceID returns the id portion of a "Type/id" reference string.
func ExtractReferenceID(reference string) string {
	if idx := strings.LastIndex(reference, "/"); idx >= 0 {
		return reference[idx+1:]
	}
	return reference
}

// GetFullName joins the first human name's given and family parts.
func GetFullName(names []fhir_dto.HumanName) string {
	if len(names) == 0 {
		return ""
	}
	name := names[0]
	if name.Text != "" {
		return name.Text
	}
	parts := make([]string, 0, len(name.Given)+1)
	parts = append(parts, name.Given...)
	if name.Family != "" {
		parts = append(parts, name.Family)
	}
	return strings.Join(parts, " ")
}
