package fhirutil

import (
	"encoding/json"
	"fmt"

	"github.com/zorgbijjou/golang-fhir-models/fhir-models/fhir"
)

// ResourcesInBundle unmarshals all entries of the given resource type into ResType.
// Entries of other types, such as OperationOutcomes in a searchset, are skipped.
func ResourcesInBundle[ResType any](bundle fhir.Bundle, resourceType string) ([]ResType, []ResourceInfo, error) {
	var resources []ResType
	var infos []ResourceInfo
	for i, entry := range bundle.Entry {
		if entry.Resource == nil {
			continue
		}
		info, err := ExtractResourceInfo(entry.Resource)
		if err != nil {
			return nil, nil, fmt.Errorf("bundle entry %d: %w", i, err)
		}
		if info.ResourceType != resourceType {
			continue
		}
		var res ResType
		if err := json.Unmarshal(entry.Resource, &res); err != nil {
			return nil, nil, fmt.Errorf("unmarshal bundle entry %d into %T: %w", i, res, err)
		}
		resources = append(resources, res)
		infos = append(infos, *info)
	}
	return resources, infos, nil
}

// HasNextLink returns true if the bundle is a paginated searchset with more pages.
func HasNextLink(bundle fhir.Bundle) bool {
	for _, link := range bundle.Link {
		if link.Relation == "next" {
			return true
		}
	}
	return false
}
