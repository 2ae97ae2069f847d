package mvc

import (
	"strconv"
	"strings"

	includeResponse "beacon/api/models/constants/include-response"
	"beacon/api/models/dtos"

	"github.com/labstack/echo"
)

/*
	Gathers the common allele-query elements from the HTTP request's
	query parameters into a typed request. Parameter validation happens
	in the middleware; values that are absent or unparseable remain at
	their zero value here.
*/
func RetrieveBeaconRequest(c echo.Context) *dtos.BeaconAlleleRequest {
	return &dtos.BeaconAlleleRequest{
		ReferenceName:           c.QueryParam("referenceName"),
		Start:                   retrieveIntParam(c, "start"),
		StartMin:                retrieveIntParam(c, "startMin"),
		StartMax:                retrieveIntParam(c, "startMax"),
		End:                     retrieveIntParam(c, "end"),
		EndMin:                  retrieveIntParam(c, "endMin"),
		EndMax:                  retrieveIntParam(c, "endMax"),
		ReferenceBases:          c.QueryParam("referenceBases"),
		AlternateBases:          c.QueryParam("alternateBases"),
		VariantType:             c.QueryParam("variantType"),
		AssemblyId:              c.QueryParam("assemblyId"),
		DatasetIds:              retrieveCsvParam(c, "datasetIds"),
		Filters:                 retrieveCsvParam(c, "filters"),
		IncludeDatasetResponses: includeResponse.CastToIncludeResponsesMode(c.QueryParam("includeDatasetResponses")),
	}
}

func retrieveIntParam(c echo.Context, param string) int {
	value, conversionErr := strconv.Atoi(c.QueryParam(param))
	if conversionErr != nil {
		return 0
	}
	return value
}

func retrieveCsvParam(c echo.Context, param string) []string {
	rawValue := c.QueryParam(param)
	if len(rawValue) == 0 {
		return []string{}
	}

	values := []string{}
	for _, value := range strings.Split(rawValue, ",") {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
