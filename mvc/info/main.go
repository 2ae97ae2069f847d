package info

import (
	"fmt"
	"net/http"
	"time"

	"beacon/api/contexts"
	"beacon/api/models/constants"
	accessTier "beacon/api/models/constants/access-tier"
	serviceInfo "beacon/api/models/constants/service-info"
	"beacon/api/models/dtos"
	e "beacon/api/models/dtos/errors"
	"beacon/api/models/policy"
	"beacon/api/services/access"

	"github.com/labstack/echo"
)

func GetRoot(c echo.Context) error {
	fmt.Printf("[%s] - GetRoot hit!\n", time.Now())

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": serviceInfo.SERVICE_WELCOME,
	})
}

// GetServiceInfo describes this beacon and its dataset catalog, run
// through the same access-level filter as the query responses.
func GetServiceInfo(c echo.Context) error {
	fmt.Printf("[%s] - GetServiceInfo hit!\n", time.Now())

	gc := c.(*contexts.BeaconContext)
	cfg := gc.Config

	datasets, err := gc.CatalogService.ListDatasets(c.Request().Context(), nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, e.CreateSimpleInternalServerError("dataset catalog error"))
	}

	grant, grantErr := access.ResolveGrant(gc.Identity, access.ClassifyDatasets(datasets))
	if grantErr != nil {
		// informational endpoint: refusals degrade to a public-only view
		// instead of erroring out
		grant = &access.RequesterGrant{Tiers: []constants.AccessTier{accessTier.Public}}
	}

	datasetSummaries := make([]interface{}, 0, len(datasets))
	for _, dataset := range datasets {
		datasetSummaries = append(datasetSummaries, map[string]interface{}{
			"id":           dataset.StableId,
			"name":         dataset.Name,
			"assemblyId":   dataset.AssemblyId,
			"variantCount": dataset.VariantCnt,
			"callCount":    dataset.CallCnt,
			"sampleCount":  dataset.SampleCnt,
			"info": map[string]interface{}{
				"accessType": dataset.AccessType,
			},
		})
	}

	info := map[string]interface{}{
		"id":          cfg.Beacon.Id,
		"name":        cfg.Beacon.Name,
		"apiVersion":  string(serviceInfo.SERVICE_API_VERSION),
		"description": string(serviceInfo.SERVICE_DESCRIPTION),
		"version":     string(serviceInfo.SERVICE_VERSION),
		"environment": "prod",
		"organization": map[string]interface{}{
			"id":         string(serviceInfo.SERVICE_ID),
			"name":       cfg.Beacon.OrganizationName,
			"url":        cfg.Beacon.OrganizationUrl,
			"contactUrl": cfg.Beacon.ContactUrl,
		},
		"datasets": datasetSummaries,
	}

	filtered, err := access.FilterResponse(info, gc.AccessPolicy,
		grant.VisibleDatasetStableIds, grant.Tiers, policy.Info2Access)
	if err != nil {
		return c.JSON(e.HttpStatusOf(err), e.CreateFromError(err))
	}

	return c.JSON(http.StatusOK, filtered)
}

// GetAccessLevels serves the access-levels policy itself, either as
// per-section summaries or with full field details.
func GetAccessLevels(c echo.Context) error {
	fmt.Printf("[%s] - GetAccessLevels hit!\n", time.Now())

	gc := c.(*contexts.BeaconContext)

	includeFieldDetails := false
	for param, values := range c.QueryParams() {
		if param != "includeFieldDetails" {
			return c.JSON(http.StatusBadRequest, e.CreateSimpleBadRequest("Provided parameter '"+param+"' is not valid for this endpoint!"))
		}
		for _, value := range values {
			switch value {
			case "true":
				includeFieldDetails = true
			case "false":
				includeFieldDetails = false
			default:
				return c.JSON(http.StatusBadRequest, e.CreateSimpleBadRequest("Invalid 'includeFieldDetails' query parameter! Expected true or false"))
			}
		}
	}

	var fields interface{}
	if includeFieldDetails {
		fields = gc.AccessPolicy.Detailed()
	} else {
		fields = gc.AccessPolicy.Summary()
	}

	return c.JSON(http.StatusOK, dtos.AccessLevelsResponse{
		Id:         gc.Config.Beacon.Id,
		Name:       gc.Config.Beacon.Name,
		ApiVersion: string(serviceInfo.SERVICE_API_VERSION),
		Fields:     fields,
	})
}
