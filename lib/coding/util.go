package coding

import (
	"github.com/zorgbijjou/golang-fhir-models/fhir-models/fhir"
)

func EqualsCode(coding fhir.Coding, system string, value string) bool {
	return coding.System != nil && *coding.System == system &&
		coding.Code != nil && *coding.Code == value
}

// CodableIncludesCode returns true if the CodeableConcept contains a coding matching the given coding.
// The system is only compared when the given coding specifies one.
func CodableIncludesCode(codable fhir.CodeableConcept, code fhir.Coding) bool {
	for _, c := range codable.Coding {
		if c.Code == nil || code.Code == nil || *c.Code != *code.Code {
			continue
		}
		if code.System == nil || (c.System != nil && *c.System == *code.System) {
			return true
		}
	}
	return false
}

func CodablesIncludesCode(codables []fhir.CodeableConcept, code fhir.Coding) bool {
	for _, codable := range codables {
		if CodableIncludesCode(codable, code) {
			return true
		}
	}
	return false
}

// Codes returns the codes of all codings in the CodeableConcept, regardless of their system.
func Codes(codable fhir.CodeableConcept) []string {
	var result []string
	for _, c := range codable.Coding {
		if c.Code != nil && *c.Code != "" {
			result = append(result, *c.Code)
		}
	}
	return result
}
