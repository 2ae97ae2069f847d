package beacon

import (
	"context"
	"testing"

	"beacon/api/models"
	"beacon/api/models/authorization"
	accessTier "beacon/api/models/constants/access-tier"
	includeResponse "beacon/api/models/constants/include-response"
	"beacon/api/models/dtos"
	e "beacon/api/models/dtos/errors"
	"beacon/api/models/indexes"
	"beacon/api/models/policy"
	"beacon/api/services/filters"
	"beacon/api/services/reconciliation"

	"github.com/stretchr/testify/assert"
)

// catalogFake backs the catalog, the ontology lookup, and the miss
// metadata lookup from static tables.
type catalogFake struct {
	datasets []indexes.Dataset
	columns  map[string][2]string
}

func (f *catalogFake) ListDatasets(_ context.Context, stableIds []string) ([]indexes.Dataset, error) {
	if len(stableIds) == 0 {
		return f.datasets, nil
	}
	scoped := []indexes.Dataset{}
	for _, dataset := range f.datasets {
		for _, stableId := range stableIds {
			if dataset.StableId == stableId {
				scoped = append(scoped, dataset)
			}
		}
	}
	return scoped, nil
}

func (f *catalogFake) LookupDatasets(_ context.Context, ids []int) ([]indexes.Dataset, error) {
	matched := []indexes.Dataset{}
	for _, dataset := range f.datasets {
		for _, id := range ids {
			if dataset.Id == id {
				matched = append(matched, dataset)
			}
		}
	}
	return matched, nil
}

func (f *catalogFake) Resolve(_ context.Context, ontology string, term string) (string, string, bool, error) {
	mapping, found := f.columns[ontology+":"+term]
	if !found {
		return "", "", false, nil
	}
	return mapping[0], mapping[1], true, nil
}

// executorFake serves pre-seeded rows, restricted to the visible ids
// it was queried with.
type executorFake struct {
	rows      []indexes.DatasetVariantRow
	queriedId []int
}

func (f *executorFake) SearchDatasetVariantRows(_ context.Context, _ *dtos.BeaconAlleleRequest,
	_ *filters.CompiledFilter, visibleDatasetIds []int) ([]indexes.DatasetVariantRow, error) {

	f.queriedId = visibleDatasetIds

	matched := []indexes.DatasetVariantRow{}
	for _, row := range f.rows {
		for _, id := range visibleDatasetIds {
			if row.DatasetId == id {
				matched = append(matched, row)
			}
		}
	}
	return matched, nil
}

var testPolicyYaml = []byte(`
beaconAlleleResponse:
  accessLevelSummary: PUBLIC
  exists: PUBLIC
  alleleRequest: PUBLIC
  datasetAlleleResponses: PUBLIC

beaconAlleleRequest:
  accessLevelSummary: PUBLIC
  referenceName: PUBLIC
  assemblyId: PUBLIC

beaconGenomicRegionRequest:
  accessLevelSummary: PUBLIC
  referenceName: PUBLIC

beaconGenomicRegionResponse:
  accessLevelSummary: PUBLIC
  exists: PUBLIC
  request: PUBLIC
  variantsFound: PUBLIC

variant:
  accessLevelSummary: PUBLIC
  variantDetails: PUBLIC
  exists: PUBLIC
  datasetAlleleResponses: PUBLIC
  variantAnnotations: REGISTERED
  variantHandover: REGISTERED

datasetAlleleResponse:
  accessLevelSummary: PUBLIC
  datasetId: PUBLIC
  exists: PUBLIC
  internalId: CONTROLLED
  variantCount: REGISTERED
  frequency: PUBLIC
`)

func testDependencies(t *testing.T, catalog *catalogFake, executor *executorFake) *QueryDependencies {
	accessPolicy, err := policy.ParseAccessPolicy(testPolicyYaml)
	assert.NoError(t, err)

	cfg := &models.Config{}
	cfg.Beacon.Id = "org.ga4gh.beacon.test"
	cfg.Beacon.DatasetUrlBase = "https://ega-archive.org/datasets"
	cfg.Filters.RejectUnknownTerms = true

	return &QueryDependencies{
		Config:       cfg,
		Policy:       accessPolicy,
		Catalog:      catalog,
		ColumnLookup: catalog,
		Executor:     executor,
		Reconciler: &reconciliation.Reconciler{
			MissLookup:     catalog,
			DatasetUrlBase: cfg.Beacon.DatasetUrlBase,
		},
	}
}

func twoTierCatalog() *catalogFake {
	return &catalogFake{
		datasets: []indexes.Dataset{
			{Id: 1, StableId: "EGAD-A", AccessType: accessTier.Public},
			{Id: 2, StableId: "EGAD-B", AccessType: accessTier.Controlled},
		},
		columns: map[string][2]string{
			"PATO:0000383": {"sex", "female"},
		},
	}
}

func alleleRequest() *dtos.BeaconAlleleRequest {
	return &dtos.BeaconAlleleRequest{
		ReferenceName:           "20",
		Start:                   14369,
		ReferenceBases:          "G",
		AlternateBases:          "A",
		AssemblyId:              "GRCh38",
		IncludeDatasetResponses: includeResponse.All,
	}
}

func variantRow(datasetId int) indexes.DatasetVariantRow {
	return indexes.DatasetVariantRow{
		DatasetId:          datasetId,
		VariantCompositeId: "20-14369-G-A",
		VariantId:          "rs6054257",
		Chromosome:         "20",
		Start:              14369,
		End:                14370,
		Reference:          "G",
		Alternate:          "A",
		VariantCount:       1,
		Frequency:          0.5,
	}
}

func TestExecuteAlleleQuery(t *testing.T) {
	t.Run("anonymous requester gets the public slice only", func(t *testing.T) {
		catalog := twoTierCatalog()
		executor := &executorFake{rows: []indexes.DatasetVariantRow{variantRow(1), variantRow(2)}}
		deps := testDependencies(t, catalog, executor)

		result, err := ExecuteAlleleQuery(context.Background(), alleleRequest(), authorization.Anonymous(), deps)

		assert.NoError(t, err)
		assert.Equal(t, true, result["exists"])

		// the controlled dataset never reached the query
		assert.Equal(t, []int{1}, executor.queriedId)

		entries := result["datasetAlleleResponses"].([]interface{})
		assert.Len(t, entries, 1)

		entry := entries[0].(map[string]interface{})
		assert.Equal(t, "EGAD-A", entry["datasetId"])
		assert.Equal(t, true, entry["exists"])
		// tiered measurement fields are redacted for a public grant
		assert.NotContains(t, entry, "internalId")
		assert.NotContains(t, entry, "variantCount")
		assert.Contains(t, entry, "frequency")
	})

	t.Run("entitled requester sees the controlled dataset too", func(t *testing.T) {
		catalog := twoTierCatalog()
		executor := &executorFake{rows: []indexes.DatasetVariantRow{variantRow(2)}}
		deps := testDependencies(t, catalog, executor)

		identity := authorization.RequesterIdentity{
			Authenticated: true,
			Permissions:   []string{"EGAD-B"},
		}
		result, err := ExecuteAlleleQuery(context.Background(), alleleRequest(), identity, deps)

		assert.NoError(t, err)
		assert.ElementsMatch(t, []int{1, 2}, executor.queriedId)

		entries := result["datasetAlleleResponses"].([]interface{})
		assert.Len(t, entries, 2)

		stableIds := []string{}
		for _, element := range entries {
			entry := element.(map[string]interface{})
			stableIds = append(stableIds, entry["datasetId"].(string))
			// CONTROLLED unlocks internalId, but not REGISTERED fields
			assert.Contains(t, entry, "internalId")
			assert.NotContains(t, entry, "variantCount")
		}
		assert.ElementsMatch(t, []string{"EGAD-A", "EGAD-B"}, stableIds)
	})

	t.Run("controlled-only scope refuses anonymous requesters", func(t *testing.T) {
		catalog := twoTierCatalog()
		executor := &executorFake{}
		deps := testDependencies(t, catalog, executor)

		req := alleleRequest()
		req.DatasetIds = []string{"EGAD-B"}

		_, err := ExecuteAlleleQuery(context.Background(), req, authorization.Anonymous(), deps)

		assert.Error(t, err)
		assert.IsType(t, &e.UnauthorizedError{}, err)
		// refusal happens before any query execution
		assert.Nil(t, executor.queriedId)
	})

	t.Run("malformed filters fail before dataset access", func(t *testing.T) {
		deps := testDependencies(t, twoTierCatalog(), &executorFake{})

		req := alleleRequest()
		req.Filters = []string{"coverage>=30"}

		_, err := ExecuteAlleleQuery(context.Background(), req, authorization.Anonymous(), deps)

		assert.Error(t, err)
		assert.IsType(t, &e.MalformedFilterError{}, err)
	})

	t.Run("unknown filter terms fail under strict configuration", func(t *testing.T) {
		deps := testDependencies(t, twoTierCatalog(), &executorFake{})

		req := alleleRequest()
		req.Filters = []string{"PATO:9999999"}

		_, err := ExecuteAlleleQuery(context.Background(), req, authorization.Anonymous(), deps)

		assert.Error(t, err)
		assert.IsType(t, &e.UnknownFilterTermError{}, err)
	})

	t.Run("no match still answers with exists false", func(t *testing.T) {
		deps := testDependencies(t, twoTierCatalog(), &executorFake{})

		result, err := ExecuteAlleleQuery(context.Background(), alleleRequest(), authorization.Anonymous(), deps)

		assert.NoError(t, err)
		assert.Equal(t, false, result["exists"])

		entries := result["datasetAlleleResponses"].([]interface{})
		assert.Len(t, entries, 1)
		assert.Equal(t, false, entries[0].(map[string]interface{})["exists"])
	})
}

func TestExecuteRegionQuery(t *testing.T) {
	t.Run("variants come back grouped with public-tier redaction", func(t *testing.T) {
		catalog := twoTierCatalog()
		secondVariant := variantRow(1)
		secondVariant.VariantCompositeId = "20-17330-T-A"
		secondVariant.Start = 17330

		executor := &executorFake{rows: []indexes.DatasetVariantRow{variantRow(1), secondVariant}}
		deps := testDependencies(t, catalog, executor)

		req := alleleRequest()
		req.Start = 14000
		req.End = 18000

		result, err := ExecuteRegionQuery(context.Background(), req, authorization.Anonymous(), deps)

		assert.NoError(t, err)
		assert.Equal(t, true, result["exists"])

		variants := result["variantsFound"].([]interface{})
		assert.Len(t, variants, 2)

		for _, element := range variants {
			variant := element.(map[string]interface{})
			assert.Contains(t, variant, "variantDetails")
			assert.Contains(t, variant, "datasetAlleleResponses")
			// annotation payloads are a registered-tier privilege
			assert.NotContains(t, variant, "variantAnnotations")
		}
	})

	t.Run("registered tier unlocks annotations", func(t *testing.T) {
		catalog := &catalogFake{
			datasets: []indexes.Dataset{
				{Id: 5, StableId: "EGAD-R", AccessType: accessTier.Registered},
			},
		}
		executor := &executorFake{rows: []indexes.DatasetVariantRow{variantRow(5)}}
		deps := testDependencies(t, catalog, executor)

		identity := authorization.RequesterIdentity{Authenticated: true, BonaFideStatus: true}
		result, err := ExecuteRegionQuery(context.Background(), alleleRequest(), identity, deps)

		assert.NoError(t, err)

		variants := result["variantsFound"].([]interface{})
		assert.Len(t, variants, 1)
		assert.Contains(t, variants[0].(map[string]interface{}), "variantAnnotations")
	})
}
