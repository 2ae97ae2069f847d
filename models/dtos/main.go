package dtos

import (
	"beacon/api/models/constants"
)

// ---- requests

type BeaconAlleleRequest struct {
	ReferenceName  string `json:"referenceName"`
	Start          int    `json:"start,omitempty"`
	StartMin       int    `json:"startMin,omitempty"`
	StartMax       int    `json:"startMax,omitempty"`
	End            int    `json:"end,omitempty"`
	EndMin         int    `json:"endMin,omitempty"`
	EndMax         int    `json:"endMax,omitempty"`
	ReferenceBases string `json:"referenceBases,omitempty"`
	AlternateBases string `json:"alternateBases,omitempty"`
	VariantType    string `json:"variantType,omitempty"`
	AssemblyId     string `json:"assemblyId"`

	DatasetIds []string `json:"datasetIds,omitempty"`
	Filters    []string `json:"filters,omitempty"`

	IncludeDatasetResponses constants.IncludeResponsesMode `json:"includeDatasetResponses,omitempty"`
}

// ---- responses

type HandoverType struct {
	Id    string `json:"id"`
	Label string `json:"label"`
}

type Handover struct {
	HandoverType HandoverType `json:"handoverType"`
	Note         string       `json:"note"`
	Url          string       `json:"url"`
}

type DatasetResponseInfo struct {
	AccessType          constants.AccessTier `json:"accessType"`
	MatchingSampleCount int                  `json:"matchingSampleCount"`
}

type DatasetAlleleResponse struct {
	DatasetId      string              `json:"datasetId"`
	InternalId     int                 `json:"internalId"`
	Exists         bool                `json:"exists"`
	VariantCount   int                 `json:"variantCount"`
	CallCount      int                 `json:"callCount"`
	SampleCount    int                 `json:"sampleCount"`
	Frequency      float64             `json:"frequency"`
	NumVariants    int                 `json:"numVariants"`
	Info           DatasetResponseInfo `json:"info"`
	DatasetHandover []Handover         `json:"datasetHandover,omitempty"`
}

type VariantDetails struct {
	VariantId      string `json:"variantId"`
	Chromosome     string `json:"chromosome"`
	ReferenceBases string `json:"referenceBases"`
	AlternateBases string `json:"alternateBases"`
	VariantType    string `json:"variantType"`
	Start          int    `json:"start"`
	End            int    `json:"end"`
}

type VariantAnnotations struct {
	CellBase map[string]interface{} `json:"cellBase"`
	DbSNP    map[string]interface{} `json:"dbSNP"`
}

type VariantResult struct {
	VariantDetails         VariantDetails          `json:"variantDetails"`
	Exists                 bool                    `json:"exists"`
	DatasetAlleleResponses []DatasetAlleleResponse `json:"datasetAlleleResponses"`
	VariantAnnotations     VariantAnnotations      `json:"variantAnnotations"`
	VariantHandover        []Handover              `json:"variantHandover,omitempty"`
	Info                   map[string]interface{}  `json:"info"`
}

type BeaconAlleleResponse struct {
	BeaconId               string                  `json:"beaconId"`
	ApiVersion             string                  `json:"apiVersion"`
	QueryId                string                  `json:"queryId"`
	Exists                 bool                    `json:"exists"`
	AlleleRequest          *BeaconAlleleRequest    `json:"alleleRequest"`
	DatasetAlleleResponses []DatasetAlleleResponse `json:"datasetAlleleResponses"`
	Info                   map[string]interface{}  `json:"info"`
}

type BeaconRegionResponse struct {
	BeaconId        string                 `json:"beaconId"`
	ApiVersion      string                 `json:"apiVersion"`
	QueryId         string                 `json:"queryId"`
	Exists          bool                   `json:"exists"`
	Request         *BeaconAlleleRequest   `json:"request"`
	VariantsFound   []VariantResult        `json:"variantsFound"`
	Info            map[string]interface{} `json:"info"`
	ResultsHandover []Handover             `json:"resultsHandover"`
	BeaconHandover  []Handover             `json:"beaconHandover"`
}

type AccessLevelsResponse struct {
	Id         string      `json:"id"`
	Name       string      `json:"name"`
	ApiVersion string      `json:"apiVersion"`
	Fields     interface{} `json:"fields"`
}
