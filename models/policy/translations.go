package policy

/*
	Translation tables linking the field names used by each endpoint's
	response to the section names of the access-levels policy, so the
	response filter can compare them during recursion.
*/

var Info2Access = map[string]string{
	"organization": "beaconOrganization",
	"datasets":     "beaconDataset",
}

var Query2Access = map[string]string{
	"datasetAlleleResponses": "datasetAlleleResponse",
	"alleleRequest":          "beaconAlleleRequest",
}

var Region2Access = map[string]string{
	"variantsFound":          "variant",
	"datasetAlleleResponses": "datasetAlleleResponse",
	"request":                "beaconGenomicRegionRequest",
}
