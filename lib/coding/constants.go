package coding

const LOINCSystem = "http://loinc.org"

// CHARMFactorSystem is the code system for the risk factors that have no LOINC code.
const CHARMFactorSystem = "urn:charm:factor"
const CHARMMethodSystem = "urn:charm:method"
const CHARMMethodCode = "CHARM"

const (
	ChillsCode          = "chills"
	MalignancyCode      = "malignancy"
	RBCCountCode        = "789-8"
	RDWCode             = "788-0"
	BodyTemperatureCode = "8310-5"
)

// CHARMObservationCodes lists all observation codes that contribute to the CHARM score.
var CHARMObservationCodes = []string{ChillsCode, MalignancyCode, RBCCountCode, RDWCode, BodyTemperatureCode}
