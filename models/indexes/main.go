package indexes

import (
	"beacon/api/models/constants"
)

// Dataset is one entry of the dataset catalog index.
type Dataset struct {
	Id          int                  `json:"id" mapstructure:"id"`
	StableId    string               `json:"stableId" mapstructure:"stableId"`
	Name        string               `json:"name" mapstructure:"name"`
	AssemblyId  string               `json:"assemblyId" mapstructure:"assemblyId"`
	AccessType  constants.AccessTier `json:"accessType" mapstructure:"accessType"`
	VariantCnt  int                  `json:"variantCount" mapstructure:"variantCount"`
	CallCnt     int                  `json:"callCount" mapstructure:"callCount"`
	SampleCnt   int                  `json:"sampleCount" mapstructure:"sampleCount"`
}

// DatasetVariantRow is one per-dataset-per-variant summary document
// returned by the variants index for a genomic query.
type DatasetVariantRow struct {
	DatasetId          int     `json:"datasetId" mapstructure:"datasetId"`
	VariantCompositeId string  `json:"variantCompositeId" mapstructure:"variantCompositeId"`
	VariantId          string  `json:"variantId" mapstructure:"variantId"`
	Chromosome         string  `json:"chromosome" mapstructure:"chromosome"`
	Start              int     `json:"start" mapstructure:"start"`
	End                int     `json:"end" mapstructure:"end"`
	Reference          string  `json:"reference" mapstructure:"reference"`
	Alternate          string  `json:"alternate" mapstructure:"alternate"`
	VariantType        string  `json:"variantType" mapstructure:"variantType"`
	VariantCount       int     `json:"variantCount" mapstructure:"variantCount"`
	CallCount          int     `json:"callCount" mapstructure:"callCount"`
	SampleCount        int     `json:"sampleCount" mapstructure:"sampleCount"`
	MatchingSampleCnt  int     `json:"matchingSampleCount" mapstructure:"matchingSampleCount"`
	Frequency          float64 `json:"frequency" mapstructure:"frequency"`
	NumVariants        int     `json:"numVariants" mapstructure:"numVariants"`
}

// OntologyTermColumn maps one ontology:term pair to the backend
// column it filters on and the normalized value stored there.
type OntologyTermColumn struct {
	Ontology    string `json:"ontology" mapstructure:"ontology"`
	Term        string `json:"term" mapstructure:"term"`
	ColumnName  string `json:"columnName" mapstructure:"columnName"`
	ColumnValue string `json:"columnValue" mapstructure:"columnValue"`
}
