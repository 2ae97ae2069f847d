package middleware

import (
	"net/http"

	includeResponse "beacon/api/models/constants/include-response"
	"beacon/api/models/dtos/errors"

	"github.com/labstack/echo"
)

/*
	Echo middleware to ensure an `includeDatasetResponses` HTTP query
	parameter is valid if provided
*/
func ValidateOptionalIncludeResponsesAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		includeQP := c.QueryParam("includeDatasetResponses")
		if len(includeQP) > 0 && includeResponse.CastToIncludeResponsesMode(includeQP) == includeResponse.Undefined {
			return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest("Invalid 'includeDatasetResponses' query parameter! Expected one of ALL, HIT, MISS, NONE"))
		}

		return next(c)
	}
}
