package main

import (
	"fmt"
	"log"
	"time"

	"beacon/api/contexts"
	"beacon/api/middleware"
	"beacon/api/models"
	"beacon/api/models/policy"
	beaconMvc "beacon/api/mvc/beacon"
	infoMvc "beacon/api/mvc/info"
	"beacon/api/services/annotation"
	"beacon/api/services/catalog"
	"beacon/api/utils"

	"github.com/kelseyhightower/envconfig"
	"github.com/labstack/echo"
	echoMiddleware "github.com/labstack/echo/middleware"
)

func main() {
	// Gather environment variables
	var cfg models.Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		log.Fatalf(err.Error())
	}

	fmt.Printf(`Beacon API Server
	Serving on Port : %s

	Beacon Id : %s
	Beacon Name : %s

	Access Levels Policy : %s
	Catalog Refresh (minutes) : %d
	Reject Unknown Filter Terms : %t

	Elasticsearch Url : %s

	Annotations Enabled : %t
	CellBase Url : %s
	dbSNP Url : %s

	Debug : %t

`,
		cfg.Api.Port,
		cfg.Beacon.Id, cfg.Beacon.Name,
		cfg.Api.AccessLevelsPath, cfg.Api.CatalogRefreshMinutes, cfg.Filters.RejectUnknownTerms,
		cfg.Elasticsearch.Url,
		cfg.Annotations.Enabled, cfg.Annotations.CellBaseUrl, cfg.Annotations.DbSnpUrl,
		cfg.Debug)

	// Load the access-levels policy; a misconfigured policy is a
	// deployment defect and refuses to start rather than serving
	// unfiltered responses
	accessPolicy, err := policy.LoadAccessPolicy(cfg.Api.AccessLevelsPath)
	if err != nil {
		log.Fatalf(err.Error())
	}

	// Service Connections:
	// -- Elasticsearch
	es := utils.CreateEsConnection(&cfg)
	catalogService := catalog.NewCatalogService(es, &cfg)

	// -- External annotation providers (CellBase, dbSNP)
	annotationService := annotation.NewAnnotationService(&cfg)

	// Begin Echo

	// Instantiate Server
	e := echo.New()

	// Configure Server
	e.Use(echoMiddleware.Recover(),
		echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
			AllowOrigins: []string{"*"},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		}),

		// middleware to provide client connections and configuration
		func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				gc := &contexts.BeaconContext{
					Context:           c,
					Es7Client:         es,
					Config:            &cfg,
					AccessPolicy:      accessPolicy,
					CatalogService:    catalogService,
					AnnotationService: annotationService,
				}
				return next(gc)
			}
		},

		// identity claims forwarded by the authentication gateway
		middleware.ResolveRequesterIdentity)

	// Begin MVC Routes
	// -- service
	e.GET("/", infoMvc.GetRoot)
	e.GET("/service-info", infoMvc.GetServiceInfo)
	e.GET("/access_levels", infoMvc.GetAccessLevels)

	// -- queries
	e.GET("/query", beaconMvc.GetBeaconAlleleQuery,
		middleware.MandateReferenceNameAttribute,
		middleware.MandateCalibratedBounds,
		middleware.ValidateOptionalIncludeResponsesAttribute)

	e.GET("/genomic_region", beaconMvc.GetBeaconRegionQuery,
		middleware.MandateReferenceNameAttribute,
		middleware.MandateCalibratedBounds,
		middleware.ValidateOptionalIncludeResponsesAttribute)

	// Run
	fmt.Printf("[%s] - Beacon API server started!\n", time.Now())
	e.Logger.Fatal(e.Start(":" + cfg.Api.Port))
}
