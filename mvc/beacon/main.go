package beacon

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"beacon/api/contexts"
	"beacon/api/models"
	"beacon/api/models/authorization"
	"beacon/api/models/constants"
	includeResponse "beacon/api/models/constants/include-response"
	serviceInfo "beacon/api/models/constants/service-info"
	"beacon/api/models/dtos"
	e "beacon/api/models/dtos/errors"
	"beacon/api/models/indexes"
	"beacon/api/models/policy"
	"beacon/api/mvc"
	esRepo "beacon/api/repositories/elasticsearch"
	"beacon/api/services/access"
	"beacon/api/services/filters"
	"beacon/api/services/reconciliation"
	"beacon/api/utils"

	"github.com/ahmetb/go-linq"
	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/google/uuid"
	"github.com/labstack/echo"
)

/*
	Allele-existence and genomic-region query cores.

	The Execute* functions are pure with respect to their collaborators:
	given a parsed request, a resolved identity and the injected
	interfaces they deterministically produce the filtered response tree
	or a typed error. The echo handlers below are thin adapters around
	them.
*/

// DatasetCatalog lists catalog entries, scoped to stable ids when any
// were requested.
type DatasetCatalog interface {
	ListDatasets(ctx context.Context, stableIds []string) ([]indexes.Dataset, error)
}

// QueryExecutor runs the compiled genomic query against the visible
// datasets only.
type QueryExecutor interface {
	SearchDatasetVariantRows(ctx context.Context, req *dtos.BeaconAlleleRequest,
		compiled *filters.CompiledFilter, visibleDatasetIds []int) ([]indexes.DatasetVariantRow, error)
}

// QueryDependencies carries every collaborator a query core needs.
type QueryDependencies struct {
	Config       *models.Config
	Policy       *policy.AccessPolicy
	Catalog      DatasetCatalog
	ColumnLookup filters.ColumnLookup
	Executor     QueryExecutor
	Reconciler   *reconciliation.Reconciler
}

// ExecuteAlleleQuery answers a flat allele-existence query: one
// dataset response per visible dataset, no variant grouping.
func ExecuteAlleleQuery(ctx context.Context, req *dtos.BeaconAlleleRequest,
	identity authorization.RequesterIdentity, deps *QueryDependencies) (map[string]interface{}, error) {

	compiled, grant, err := resolveQueryContext(ctx, req, identity, deps)
	if err != nil {
		return nil, err
	}

	rows, err := deps.Executor.SearchDatasetVariantRows(ctx, req, compiled, grant.VisibleDatasetIds)
	if err != nil {
		return nil, &e.ServerError{Message: "variants query error", Err: err}
	}

	responses, exists, err := deps.Reconciler.ReconcileDatasets(ctx, rows, grant.VisibleDatasetIds, includeMode(req))
	if err != nil {
		return nil, err
	}

	response := dtos.BeaconAlleleResponse{
		BeaconId:               deps.Config.Beacon.Id,
		ApiVersion:             string(serviceInfo.SERVICE_API_VERSION),
		QueryId:                uuid.NewString(),
		Exists:                 exists,
		AlleleRequest:          req,
		DatasetAlleleResponses: responses,
		Info:                   map[string]interface{}{},
	}

	return redactResponse(response, "beaconAlleleResponse", policy.Query2Access, grant, deps)
}

// ExecuteRegionQuery answers a region query: every distinct variant
// overlapping the region, each carrying its own per-dataset responses
// and (tier permitting) external annotation.
func ExecuteRegionQuery(ctx context.Context, req *dtos.BeaconAlleleRequest,
	identity authorization.RequesterIdentity, deps *QueryDependencies) (map[string]interface{}, error) {

	compiled, grant, err := resolveQueryContext(ctx, req, identity, deps)
	if err != nil {
		return nil, err
	}

	rows, err := deps.Executor.SearchDatasetVariantRows(ctx, req, compiled, grant.VisibleDatasetIds)
	if err != nil {
		return nil, &e.ServerError{Message: "variants query error", Err: err}
	}

	variants, err := deps.Reconciler.ReconcileVariants(ctx, rows, grant.VisibleDatasetIds, includeMode(req))
	if err != nil {
		return nil, err
	}

	exists := linq.From(variants).AnyWithT(func(variant dtos.VariantResult) bool {
		return variant.Exists
	})

	response := dtos.BeaconRegionResponse{
		BeaconId:        deps.Config.Beacon.Id,
		ApiVersion:      string(serviceInfo.SERVICE_API_VERSION),
		QueryId:         uuid.NewString(),
		Exists:          exists,
		Request:         req,
		VariantsFound:   variants,
		Info:            map[string]interface{}{},
		ResultsHandover: []dtos.Handover{},
		BeaconHandover:  []dtos.Handover{},
	}

	return redactResponse(response, "beaconGenomicRegionResponse", policy.Region2Access, grant, deps)
}

// resolveQueryContext performs the shared front half of both queries:
// filter compilation, catalog scoping, and grant resolution. Filters
// are compiled before any dataset access so malformed requests fail
// fast.
func resolveQueryContext(ctx context.Context, req *dtos.BeaconAlleleRequest,
	identity authorization.RequesterIdentity, deps *QueryDependencies) (*filters.CompiledFilter, *access.RequesterGrant, error) {

	parsed, err := filters.ParseFilters(req.Filters)
	if err != nil {
		return nil, nil, err
	}

	compiled := &filters.CompiledFilter{}
	if len(parsed) > 0 {
		compiled, err = filters.Compile(ctx, parsed, deps.ColumnLookup, deps.Config.Filters.RejectUnknownTerms)
		if err != nil {
			return nil, nil, err
		}
	}

	datasets, err := deps.Catalog.ListDatasets(ctx, req.DatasetIds)
	if err != nil {
		return nil, nil, &e.ServerError{Message: "dataset catalog error", Err: err}
	}

	grant, err := access.ResolveGrant(identity, access.ClassifyDatasets(datasets))
	if err != nil {
		return nil, nil, err
	}

	return compiled, grant, nil
}

func includeMode(req *dtos.BeaconAlleleRequest) constants.IncludeResponsesMode {
	if req.IncludeDatasetResponses == includeResponse.Undefined {
		return includeResponse.All
	}
	return req.IncludeDatasetResponses
}

// redactResponse runs the composed response through the access-level
// filter under its policy section name and unwraps the result.
func redactResponse(response interface{}, sectionKey string, fieldTranslations map[string]string,
	grant *access.RequesterGrant, deps *QueryDependencies) (map[string]interface{}, error) {

	asMap, err := utils.StructToMap(response)
	if err != nil {
		return nil, &e.ServerError{Message: "response encoding error", Err: err}
	}

	filtered, err := access.FilterResponse(
		map[string]interface{}{sectionKey: asMap},
		deps.Policy, grant.VisibleDatasetStableIds, grant.Tiers, fieldTranslations)
	if err != nil {
		return nil, err
	}

	if inner, ok := filtered[sectionKey].(map[string]interface{}); ok {
		return inner, nil
	}
	// the whole response object was redacted away
	return map[string]interface{}{}, nil
}

// -- echo handlers

func GetBeaconAlleleQuery(c echo.Context) error {
	fmt.Printf("[%s] - GetBeaconAlleleQuery hit!\n", time.Now())

	gc := c.(*contexts.BeaconContext)
	req := mvc.RetrieveBeaconRequest(c)

	result, err := ExecuteAlleleQuery(c.Request().Context(), req, gc.Identity, dependenciesOf(gc))
	if err != nil {
		return c.JSON(e.HttpStatusOf(err), e.CreateFromError(err))
	}

	return c.JSON(http.StatusOK, result)
}

func GetBeaconRegionQuery(c echo.Context) error {
	fmt.Printf("[%s] - GetBeaconRegionQuery hit!\n", time.Now())

	gc := c.(*contexts.BeaconContext)
	req := mvc.RetrieveBeaconRequest(c)

	result, err := ExecuteRegionQuery(c.Request().Context(), req, gc.Identity, dependenciesOf(gc))
	if err != nil {
		return c.JSON(e.HttpStatusOf(err), e.CreateFromError(err))
	}

	return c.JSON(http.StatusOK, result)
}

// dependenciesOf assembles the query collaborators from the request's
// context singletons.
func dependenciesOf(gc *contexts.BeaconContext) *QueryDependencies {
	return &QueryDependencies{
		Config:       gc.Config,
		Policy:       gc.AccessPolicy,
		Catalog:      gc.CatalogService,
		ColumnLookup: gc.CatalogService,
		Executor:     &esExecutor{cfg: gc.Config, es: gc.Es7Client},
		Reconciler: &reconciliation.Reconciler{
			MissLookup:     gc.CatalogService,
			Annotator:      gc.AnnotationService,
			DatasetUrlBase: gc.Config.Beacon.DatasetUrlBase,
		},
	}
}

// esExecutor adapts the elasticsearch repository to the QueryExecutor
// interface.
type esExecutor struct {
	cfg *models.Config
	es  *es7.Client
}

func (x *esExecutor) SearchDatasetVariantRows(ctx context.Context, req *dtos.BeaconAlleleRequest,
	compiled *filters.CompiledFilter, visibleDatasetIds []int) ([]indexes.DatasetVariantRow, error) {
	return esRepo.SearchDatasetVariantRows(x.cfg, x.es, ctx, req, compiled, visibleDatasetIds)
}
