package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"beacon/api/models"
	"beacon/api/models/indexes"
	esRepo "beacon/api/repositories/elasticsearch"

	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/ahmetb/go-linq"
	"github.com/go-co-op/gocron"
)

type (
	// CatalogService serves the dataset catalog and the ontology
	// term-to-column mappings. The full catalog is cached and
	// refreshed in the background; per-request reads never mutate it.
	CatalogService struct {
		Initialized bool
		Es7Client   *es7.Client
		Config      *models.Config

		cacheMux       sync.RWMutex
		cachedDatasets []indexes.Dataset
	}
)

func NewCatalogService(es *es7.Client, cfg *models.Config) *CatalogService {
	cs := &CatalogService{
		Initialized: false,
		Es7Client:   es,
		Config:      cfg,
	}

	cs.Init()

	return cs
}

func (cs *CatalogService) Init() {
	// initialization if necessary
	if !cs.Initialized {
		cs.refreshCatalog()

		// - spin up a cron that periodically rebuilds the dataset
		//   catalog cache so tier classification sees new datasets
		//   without a restart
		s := gocron.NewScheduler(time.UTC)
		s.Every(cs.Config.Api.CatalogRefreshMinutes).Minutes().Do(func() {
			fmt.Printf("[%s] - Refreshing dataset catalog cache..\n", time.Now())
			cs.refreshCatalog()
		})
		s.StartAsync()

		cs.Initialized = true
	}
}

func (cs *CatalogService) refreshCatalog() {
	datasets, err := esRepo.GetDatasets(cs.Config, cs.Es7Client, context.Background(), nil)
	if err != nil {
		fmt.Printf("[%s] - Error refreshing dataset catalog : %v\n", time.Now(), err)
		return
	}

	cs.cacheMux.Lock()
	cs.cachedDatasets = datasets
	cs.cacheMux.Unlock()
}

// ListDatasets returns catalog entries, scoped to the given stable
// ids when any were provided. Served from the cache when warm.
func (cs *CatalogService) ListDatasets(ctx context.Context, stableIds []string) ([]indexes.Dataset, error) {
	cs.cacheMux.RLock()
	cached := cs.cachedDatasets
	cs.cacheMux.RUnlock()

	if len(cached) == 0 {
		// cold cache; hit the index directly
		return esRepo.GetDatasets(cs.Config, cs.Es7Client, ctx, stableIds)
	}

	if len(stableIds) == 0 {
		return cached, nil
	}

	var scoped []indexes.Dataset
	linq.From(cached).WhereT(func(dataset indexes.Dataset) bool {
		return linq.From(stableIds).AnyWithT(func(stableId string) bool {
			return stableId == dataset.StableId
		})
	}).ToSlice(&scoped)

	return scoped, nil
}

// LookupDatasets fetches catalog entries by internal id, used for
// synthesizing miss records.
func (cs *CatalogService) LookupDatasets(ctx context.Context, ids []int) ([]indexes.Dataset, error) {
	return esRepo.GetDatasetsByInternalIds(cs.Config, cs.Es7Client, ctx, ids)
}

// Resolve maps an ontology:term pair onto its backend column and
// normalized value; found is false for unmapped pairs.
func (cs *CatalogService) Resolve(ctx context.Context, ontology string, term string) (string, string, bool, error) {
	column, found, err := esRepo.GetOntologyTermColumn(cs.Config, cs.Es7Client, ctx, ontology, term)
	if err != nil || !found {
		return "", "", false, err
	}
	return column.ColumnName, column.ColumnValue, true, nil
}
