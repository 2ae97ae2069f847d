package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"beacon/api/models"
	"beacon/api/models/indexes"

	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/mitchellh/mapstructure"
)

// GetDatasets lists the dataset catalog, optionally scoped to a set
// of stable ids (the `datasetIds` a request asked for).
func GetDatasets(cfg *models.Config, es *es7.Client, ctx context.Context, stableIds []string) ([]indexes.Dataset, error) {
	var innerQuery map[string]interface{}
	if len(stableIds) > 0 {
		innerQuery = map[string]interface{}{
			"terms": map[string]interface{}{
				"stableId": stableIds,
			},
		}
	} else {
		innerQuery = map[string]interface{}{
			"match_all": map[string]interface{}{},
		}
	}

	return searchDatasets(cfg, es, ctx, innerQuery)
}

// GetDatasetsByInternalIds fetches catalog entries by internal id,
// used to synthesize miss records for datasets with no hit rows.
func GetDatasetsByInternalIds(cfg *models.Config, es *es7.Client, ctx context.Context, ids []int) ([]indexes.Dataset, error) {
	if len(ids) == 0 {
		return []indexes.Dataset{}, nil
	}

	return searchDatasets(cfg, es, ctx, map[string]interface{}{
		"terms": map[string]interface{}{
			"id": ids,
		},
	})
}

func searchDatasets(cfg *models.Config, es *es7.Client, ctx context.Context, innerQuery map[string]interface{}) ([]indexes.Dataset, error) {
	var buf bytes.Buffer
	query := map[string]interface{}{
		"query": innerQuery,
		"size":  10000,
	}
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, fmt.Errorf("error encoding query: %w", err)
	}

	if cfg.Debug {
		fmt.Println(buf.String())
	}

	result, err := executeSearch(es, ctx, datasetsIndex, &buf)
	if err != nil {
		return nil, err
	}

	datasets := make([]indexes.Dataset, 0)
	for _, source := range hitSources(result) {
		var dataset indexes.Dataset
		if err := mapstructure.Decode(source, &dataset); err != nil {
			return nil, fmt.Errorf("error decoding dataset: %w", err)
		}
		datasets = append(datasets, dataset)
	}

	return datasets, nil
}

// GetOntologyTermColumn resolves one ontology:term pair to its
// backend column mapping; found is false when the pair is unmapped.
func GetOntologyTermColumn(cfg *models.Config, es *es7.Client, ctx context.Context, ontology string, term string) (indexes.OntologyTermColumn, bool, error) {
	var buf bytes.Buffer
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []map[string]interface{}{
					{
						"match": map[string]interface{}{
							"ontology": map[string]interface{}{
								"query": ontology,
							},
						},
					},
					{
						"match": map[string]interface{}{
							"term": map[string]interface{}{
								"query": term,
							},
						},
					},
				},
			},
		},
		"size": 1,
	}
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return indexes.OntologyTermColumn{}, false, fmt.Errorf("error encoding query: %w", err)
	}

	result, err := executeSearch(es, ctx, ontologyTermColumnsIndex, &buf)
	if err != nil {
		return indexes.OntologyTermColumn{}, false, err
	}

	sources := hitSources(result)
	if len(sources) == 0 {
		return indexes.OntologyTermColumn{}, false, nil
	}

	var column indexes.OntologyTermColumn
	if err := mapstructure.Decode(sources[0], &column); err != nil {
		return indexes.OntologyTermColumn{}, false, fmt.Errorf("error decoding ontology term column: %w", err)
	}

	return column, true, nil
}
