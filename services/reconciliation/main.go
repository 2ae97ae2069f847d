package reconciliation

import (
	"context"
	"fmt"
	"math"
	"strings"

	"beacon/api/models/constants"
	includeResponse "beacon/api/models/constants/include-response"
	"beacon/api/models/dtos"
	e "beacon/api/models/dtos/errors"
	"beacon/api/models/indexes"
	"beacon/api/utils"

	"github.com/ahmetb/go-linq"
	"golang.org/x/sync/errgroup"
)

// MissMetadataLookup serves dataset display metadata for internal
// ids, needed when a visible dataset produced no hit row.
type MissMetadataLookup interface {
	LookupDatasets(ctx context.Context, ids []int) ([]indexes.Dataset, error)
}

// VariantAnnotator fetches external annotation for one variant.
// Implementations are best-effort and never return an error.
type VariantAnnotator interface {
	Annotate(ctx context.Context, details dtos.VariantDetails) (string, dtos.VariantAnnotations)
}

type (
	// Reconciler merges matched ("hit") dataset rows with synthetic
	// records for visible datasets that did not match ("miss"), per
	// the requested inclusion mode.
	Reconciler struct {
		MissLookup     MissMetadataLookup
		Annotator      VariantAnnotator
		DatasetUrlBase string
	}
)

// ReconcileDatasets assembles the flat per-dataset response list of
// an allele query. The returned exists flag is computed over the full
// hit+miss set, before the inclusion filter is applied.
func (r *Reconciler) ReconcileDatasets(ctx context.Context, rows []indexes.DatasetVariantRow,
	visibleDatasetIds []int, mode constants.IncludeResponsesMode) ([]dtos.DatasetAlleleResponse, bool, error) {

	metadata, err := r.fetchMetadata(ctx, visibleDatasetIds)
	if err != nil {
		return nil, false, err
	}

	responses := make([]dtos.DatasetAlleleResponse, 0, len(rows))
	hitIds := make([]int, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, r.transformHit(row, metadata[row.DatasetId]))
		hitIds = append(hitIds, row.DatasetId)
	}

	if mode == includeResponse.All || mode == includeResponse.Miss {
		for _, missingId := range missingIds(visibleDatasetIds, hitIds) {
			responses = append(responses, r.transformMiss(metadata[missingId]))
		}
	}

	exists := linq.From(responses).AnyWithT(func(response dtos.DatasetAlleleResponse) bool {
		return response.Exists
	})

	return filterExists(mode, responses), exists, nil
}

// ReconcileVariants groups hit rows into one record per distinct
// variant, synthesizes the per-variant misses, applies the inclusion
// mode, and resolves external annotation. Variants keep the insertion
// order of their first-seen hit row. All per-variant lookups run
// concurrently but every one must resolve before this returns, since
// the response filter needs the complete tree.
func (r *Reconciler) ReconcileVariants(ctx context.Context, rows []indexes.DatasetVariantRow,
	visibleDatasetIds []int, mode constants.IncludeResponsesMode) ([]dtos.VariantResult, error) {

	metadata, err := r.fetchMetadata(ctx, visibleDatasetIds)
	if err != nil {
		return nil, err
	}

	// group hit rows per variant, first-seen order
	type variantGroup struct {
		details dtos.VariantDetails
		hits    []dtos.DatasetAlleleResponse
		hitIds  []int
	}
	groupIndex := make(map[string]int)
	groups := make([]*variantGroup, 0)

	for _, row := range rows {
		i, seen := groupIndex[row.VariantCompositeId]
		if !seen {
			i = len(groups)
			groupIndex[row.VariantCompositeId] = i
			groups = append(groups, &variantGroup{
				details: dtos.VariantDetails{
					VariantId:      row.VariantId,
					Chromosome:     row.Chromosome,
					ReferenceBases: row.Reference,
					AlternateBases: row.Alternate,
					VariantType:    row.VariantType,
					Start:          row.Start,
					End:            row.End,
				},
			})
		}
		groups[i].hits = append(groups[i].hits, r.transformHit(row, metadata[row.DatasetId]))
		groups[i].hitIds = append(groups[i].hitIds, row.DatasetId)
	}

	results := make([]dtos.VariantResult, len(groups))

	g, groupCtx := errgroup.WithContext(ctx)
	for i, group := range groups {
		i, group := i, group

		g.Go(func() error {
			responses := append([]dtos.DatasetAlleleResponse{}, group.hits...)

			if mode == includeResponse.All || mode == includeResponse.Miss {
				missing := missingIds(visibleDatasetIds, group.hitIds)
				if len(missing) > 0 {
					missedDatasets, missErr := r.MissLookup.LookupDatasets(groupCtx, missing)
					if missErr != nil {
						return &e.ServerError{Message: "query missing datasets metadata error", Err: missErr}
					}
					for _, dataset := range missedDatasets {
						responses = append(responses, r.transformMiss(dataset))
					}
				}
			}

			result := dtos.VariantResult{
				VariantDetails:         group.details,
				DatasetAlleleResponses: filterExists(mode, responses),
				Info:                   map[string]interface{}{},
			}

			if r.Annotator != nil {
				rsId, annotations := r.Annotator.Annotate(groupCtx, group.details)
				result.VariantAnnotations = annotations
				if rsId != "" {
					result.VariantDetails.VariantId = rsId
					result.VariantHandover = snpResultsHandover(rsId)
				}
			}

			result.Exists = linq.From(result.DatasetAlleleResponses).AnyWithT(func(response dtos.DatasetAlleleResponse) bool {
				return response.Exists
			})

			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// fetchMetadata resolves display metadata for every visible dataset
// once per request.
func (r *Reconciler) fetchMetadata(ctx context.Context, visibleDatasetIds []int) (map[int]indexes.Dataset, error) {
	datasets, err := r.MissLookup.LookupDatasets(ctx, visibleDatasetIds)
	if err != nil {
		return nil, &e.ServerError{Message: "query datasets metadata error", Err: err}
	}

	metadata := make(map[int]indexes.Dataset, len(datasets))
	for _, dataset := range datasets {
		metadata[dataset.Id] = dataset
	}
	return metadata, nil
}

// missingIds computes visibleDatasetIds minus the ids that produced a
// hit record.
func missingIds(visibleDatasetIds []int, hitIds []int) []int {
	var missing []int
	linq.From(visibleDatasetIds).WhereT(func(id int) bool {
		return !utils.IntInSlice(id, hitIds)
	}).ToSlice(&missing)
	return missing
}

// filterExists keeps the dataset responses the includeDatasetResponses
// mode asks for. NONE reports the variant but no per-dataset entries.
func filterExists(mode constants.IncludeResponsesMode, responses []dtos.DatasetAlleleResponse) []dtos.DatasetAlleleResponse {
	switch mode {
	case includeResponse.None:
		return []dtos.DatasetAlleleResponse{}
	case includeResponse.Hit:
		var hits []dtos.DatasetAlleleResponse
		linq.From(responses).WhereT(func(response dtos.DatasetAlleleResponse) bool {
			return response.Exists
		}).ToSlice(&hits)
		return hits
	case includeResponse.Miss:
		var misses []dtos.DatasetAlleleResponse
		linq.From(responses).WhereT(func(response dtos.DatasetAlleleResponse) bool {
			return !response.Exists
		}).ToSlice(&misses)
		return misses
	default:
		return responses
	}
}

func (r *Reconciler) transformHit(row indexes.DatasetVariantRow, dataset indexes.Dataset) dtos.DatasetAlleleResponse {
	return dtos.DatasetAlleleResponse{
		DatasetId:    dataset.StableId,
		InternalId:   row.DatasetId,
		Exists:       true,
		VariantCount: row.VariantCount,
		CallCount:    row.CallCount,
		SampleCount:  row.SampleCount,
		Frequency:    math.Round(row.Frequency*10000) / 10000,
		NumVariants:  row.NumVariants,
		Info: dtos.DatasetResponseInfo{
			AccessType:          dataset.AccessType,
			MatchingSampleCount: row.MatchingSampleCnt,
		},
		DatasetHandover: r.datasetHandover(dataset.StableId),
	}
}

func (r *Reconciler) transformMiss(dataset indexes.Dataset) dtos.DatasetAlleleResponse {
	return dtos.DatasetAlleleResponse{
		DatasetId:  dataset.StableId,
		InternalId: dataset.Id,
		Exists:     false,
		Info: dtos.DatasetResponseInfo{
			AccessType: dataset.AccessType,
		},
		DatasetHandover: r.datasetHandover(dataset.StableId),
	}
}

func (r *Reconciler) datasetHandover(stableId string) []dtos.Handover {
	return []dtos.Handover{
		{
			HandoverType: dtos.HandoverType{
				Id:    "CUSTOM",
				Label: "Dataset info",
			},
			Note: "Dataset information and DAC contact details",
			Url:  fmt.Sprintf("%s/%s", r.DatasetUrlBase, stableId),
		},
	}
}

func snpResultsHandover(rsId string) []dtos.Handover {
	return []dtos.Handover{
		{
			HandoverType: dtos.HandoverType{
				Id:    "data:1106",
				Label: "dbSNP ID",
			},
			Note: "Link to dbSNP database",
			Url:  fmt.Sprintf("https://www.ncbi.nlm.nih.gov/snp/?term=%s", rsId),
		},
		{
			HandoverType: dtos.HandoverType{
				Id:    "data:1106",
				Label: "dbSNP ID",
			},
			Note: "Link to dbSNP API",
			Url:  fmt.Sprintf("https://api.ncbi.nlm.nih.gov/variation/v0/beta/refsnp/%s", strings.TrimPrefix(rsId, "rs")),
		},
	}
}
