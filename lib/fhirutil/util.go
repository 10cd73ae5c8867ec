package fhirutil

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ResourceInfo contains common FHIR resource fields extracted from JSON
type ResourceInfo struct {
	ID           string
	ResourceType string
}

// ExtractResourceInfo extracts the resource type and ID from a FHIR resource in JSON form,
// without requiring knowledge of the specific resource type.
func ExtractResourceInfo(resourceJSON []byte) (*ResourceInfo, error) {
	var resource struct {
		ID           string `json:"id"`
		ResourceType string `json:"resourceType"`
	}
	if err := json.Unmarshal(resourceJSON, &resource); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resource: %w", err)
	}
	return &ResourceInfo{
		ID:           resource.ID,
		ResourceType: resource.ResourceType,
	}, nil
}

// Reference returns the relative literal reference (e.g. Observation/123) of the resource, or an empty string if it has no ID.
func (r ResourceInfo) Reference() string {
	if r.ID == "" || r.ResourceType == "" {
		return ""
	}
	return r.ResourceType + "/" + r.ID
}

// Indent re-formats the given JSON document with two-space indentation, keeping key order,
// number literals and string contents as received. Invalid JSON is returned as-is, since it's only used for display.
func Indent(data []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(data), "", "  "); err != nil {
		return string(data)
	}
	return buf.String()
}
