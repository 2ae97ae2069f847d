package middleware

import (
	"net/http"
	"strconv"

	"beacon/api/models/dtos/errors"

	"github.com/labstack/echo"
)

var positionParameters = []string{"start", "startMin", "startMax", "end", "endMin", "endMax"}

/*
	Echo middleware to ensure the genomic position query parameters
	form a calibrated set of bounds: every provided position must be a
	non-negative integer, and either an exact `start` or a
	`startMin`/`startMax` pair has to be present
*/
func MandateCalibratedBounds(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		provided := map[string]int{}

		for _, param := range positionParameters {
			rawValue := c.QueryParam(param)
			if len(rawValue) == 0 {
				continue
			}

			value, conversionErr := strconv.Atoi(rawValue)
			if conversionErr != nil || value < 0 {
				return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest("Error converting '"+param+"' query parameter! Check your input"))
			}
			provided[param] = value
		}

		if _, hasStart := provided["start"]; !hasStart {
			_, hasStartMin := provided["startMin"]
			_, hasStartMax := provided["startMax"]
			if !hasStartMin || !hasStartMax {
				return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest("Please provide either a 'start' position or both 'startMin' and 'startMax'!"))
			}
			if provided["startMin"] > provided["startMax"] {
				return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest("'startMin' cannot be greater than 'startMax'!"))
			}
		}

		return next(c)
	}
}
