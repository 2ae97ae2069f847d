package contexts

import (
	"beacon/api/models"
	"beacon/api/models/authorization"
	"beacon/api/models/policy"
	"beacon/api/services/annotation"
	"beacon/api/services/catalog"

	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/labstack/echo"
)

type (
	// "Helper" Context to pass into routes that need
	//  an elasticsearch client and other variables
	BeaconContext struct {
		echo.Context
		Es7Client         *es7.Client
		Config            *models.Config
		AccessPolicy      *policy.AccessPolicy
		CatalogService    *catalog.CatalogService
		AnnotationService *annotation.AnnotationService

		// resolved per request by the identity middleware
		Identity authorization.RequesterIdentity
	}
)
