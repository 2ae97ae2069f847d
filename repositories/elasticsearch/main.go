package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"beacon/api/models"
	"beacon/api/models/constants"
	comparisonOperator "beacon/api/models/constants/comparison-operator"
	"beacon/api/models/dtos"
	"beacon/api/models/indexes"
	"beacon/api/services/filters"

	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/mitchellh/mapstructure"
)

const (
	variantsIndex            = "variants"
	datasetsIndex            = "datasets"
	ontologyTermColumnsIndex = "ontology-term-columns"
)

// SearchDatasetVariantRows executes a genomic query against the
// variants index, scoped to the visible dataset ids, and returns the
// per-dataset-per-variant summary rows. Compiled filter predicates
// arrive as (column, operator, value-list) triples and are translated
// into query clauses here - never interpolated into strings.
func SearchDatasetVariantRows(cfg *models.Config, es *es7.Client, ctx context.Context,
	req *dtos.BeaconAlleleRequest, compiled *filters.CompiledFilter,
	visibleDatasetIds []int) ([]indexes.DatasetVariantRow, error) {

	if len(visibleDatasetIds) == 0 {
		// least-privilege: no visible datasets means nothing to query
		return []indexes.DatasetVariantRow{}, nil
	}

	// begin building the request body.
	mustMap := []map[string]interface{}{{
		"query_string": map[string]interface{}{
			"query": "chromosome:" + req.ReferenceName,
		}},
	}

	mustMap = append(mustMap, map[string]interface{}{
		"terms": map[string]interface{}{
			"datasetId": visibleDatasetIds,
		},
	})

	matchFields := map[string]string{
		"reference":   req.ReferenceBases,
		"alternate":   req.AlternateBases,
		"variantType": req.VariantType,
		"assemblyId":  req.AssemblyId,
	}
	for field, value := range matchFields {
		if value != "" {
			mustMap = append(mustMap, map[string]interface{}{
				"match": map[string]interface{}{
					field: map[string]interface{}{
						"query": value,
					},
				},
			})
		}
	}

	rangeMapSlice := []map[string]interface{}{}

	if req.Start > 0 {
		mustMap = append(mustMap, map[string]interface{}{
			"match": map[string]interface{}{
				"start": map[string]interface{}{
					"query": req.Start,
				},
			},
		})
	}
	if req.End > 0 {
		mustMap = append(mustMap, map[string]interface{}{
			"match": map[string]interface{}{
				"end": map[string]interface{}{
					"query": req.End,
				},
			},
		})
	}
	if req.StartMin > 0 {
		rangeMapSlice = append(rangeMapSlice, map[string]interface{}{
			"range": map[string]interface{}{
				"start": map[string]interface{}{
					"gte": req.StartMin,
				},
			},
		})
	}
	if req.StartMax > 0 {
		rangeMapSlice = append(rangeMapSlice, map[string]interface{}{
			"range": map[string]interface{}{
				"start": map[string]interface{}{
					"lte": req.StartMax,
				},
			},
		})
	}
	if req.EndMin > 0 {
		rangeMapSlice = append(rangeMapSlice, map[string]interface{}{
			"range": map[string]interface{}{
				"end": map[string]interface{}{
					"gte": req.EndMin,
				},
			},
		})
	}
	if req.EndMax > 0 {
		rangeMapSlice = append(rangeMapSlice, map[string]interface{}{
			"range": map[string]interface{}{
				"end": map[string]interface{}{
					"lte": req.EndMax,
				},
			},
		})
	}

	// individually append each range component to the must map
	for _, rms := range rangeMapSlice {
		mustMap = append(mustMap, rms)
	}

	// append the compiled ontology filter predicates
	if !compiled.IsEmpty() {
		for _, predicate := range compiled.Predicates {
			mustMap = append(mustMap, predicateClauses(predicate)...)
		}
	}

	// overall query structure
	var buf bytes.Buffer
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []map[string]interface{}{{
					"bool": map[string]interface{}{
						"must": mustMap,
					}},
				},
			},
		},
		"size": 10000,
		"sort": map[string]string{
			"start": "asc",
		},
	}

	// encode the query
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, fmt.Errorf("error encoding query: %w", err)
	}

	if cfg.Debug {
		// view the outbound elasticsearch query
		fmt.Println(buf.String())
	}

	fmt.Printf("Query Start: %s\n", time.Now())
	result, err := executeSearch(es, ctx, variantsIndex, &buf)
	fmt.Printf("Query End: %s\n", time.Now())
	if err != nil {
		return nil, err
	}

	rows := make([]indexes.DatasetVariantRow, 0)
	for _, source := range hitSources(result) {
		var row indexes.DatasetVariantRow
		if err := mapstructure.Decode(source, &row); err != nil {
			return nil, fmt.Errorf("error decoding variant row: %w", err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// predicateClauses maps one compiled column predicate to elasticsearch
// bool-must clauses. Containment means every value has to be present,
// hence one clause per value.
func predicateClauses(predicate filters.ColumnPredicate) []map[string]interface{} {
	clauses := make([]map[string]interface{}, 0, len(predicate.Values))

	for _, value := range predicate.Values {
		switch predicate.Operator {
		case comparisonOperator.GreaterThanOrEqual, comparisonOperator.LessThanOrEqual,
			comparisonOperator.GreaterThan, comparisonOperator.LessThan:
			clauses = append(clauses, map[string]interface{}{
				"range": map[string]interface{}{
					predicate.Column: map[string]interface{}{
						rangeKeyword(predicate.Operator): value,
					},
				},
			})
		default:
			// plain existence and '=' filters are containment matches
			clauses = append(clauses, map[string]interface{}{
				"match": map[string]interface{}{
					predicate.Column: map[string]interface{}{
						"query": value,
					},
				},
			})
		}
	}

	return clauses
}

func rangeKeyword(operator constants.ComparisonOperator) string {
	switch operator {
	case comparisonOperator.GreaterThanOrEqual:
		return "gte"
	case comparisonOperator.LessThanOrEqual:
		return "lte"
	case comparisonOperator.GreaterThan:
		return "gt"
	default:
		return "lt"
	}
}

// executeSearch runs one search request and decodes the response body.
func executeSearch(es *es7.Client, ctx context.Context, index string, body *bytes.Buffer) (map[string]interface{}, error) {
	res, searchErr := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(body),
		es.Search.WithTrackTotalHits(true),
	)
	if searchErr != nil {
		return nil, searchErr
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.New("elasticsearch responded with " + res.Status())
	}

	result := make(map[string]interface{})
	if umErr := json.NewDecoder(res.Body).Decode(&result); umErr != nil {
		return nil, fmt.Errorf("error unmarshalling response: %w", umErr)
	}

	return result, nil
}

// hitSources gathers the _source of every hit in a search response.
func hitSources(result map[string]interface{}) []map[string]interface{} {
	sources := make([]map[string]interface{}, 0)

	hitsWrapper, ok := result["hits"].(map[string]interface{})
	if !ok {
		return sources
	}
	docsHits, ok := hitsWrapper["hits"].([]interface{})
	if !ok {
		return sources
	}

	for _, r := range docsHits {
		if hit, ok := r.(map[string]interface{}); ok {
			if source, ok := hit["_source"].(map[string]interface{}); ok {
				sources = append(sources, source)
			}
		}
	}

	return sources
}
