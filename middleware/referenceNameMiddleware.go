package middleware

import (
	"net/http"
	"strconv"

	"beacon/api/models/dtos/errors"
	"beacon/api/utils"

	"github.com/labstack/echo"
)

/*
	Echo middleware to ensure a valid `referenceName` (chromosome)
	HTTP query parameter was provided
*/
func MandateReferenceNameAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// check for referenceName query parameter
		referenceName := c.QueryParam("referenceName")
		if len(referenceName) == 0 {
			return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest("Missing 'referenceName' query parameter for querying!"))
		}

		if utils.StringInSlice(referenceName, []string{"X", "Y", "MT"}) {
			return next(c)
		}

		// verify:
		i, conversionErr := strconv.Atoi(referenceName)
		if conversionErr != nil {
			return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest("Error converting 'referenceName' query parameter! Check your input"))
		}

		if i <= 0 || i > 22 {
			return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest("Please provide a 'referenceName' between 1 and 22, or X, Y, MT!"))
		}

		return next(c)
	}
}
