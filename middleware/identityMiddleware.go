package middleware

import (
	"strconv"
	"strings"

	"beacon/api/contexts"
	"beacon/api/models/authorization"

	"github.com/labstack/echo"
)

/*
	Echo middleware populating the request's resolved identity.

	Token verification happens at the authentication gateway; it
	forwards the resolved claims as headers, which are decoded here
	into the typed RequesterIdentity the core consumes. Absent headers
	yield the anonymous identity.
*/
func ResolveRequesterIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		gc := c.(*contexts.BeaconContext)

		identity := authorization.Anonymous()

		if authenticated, err := strconv.ParseBool(c.Request().Header.Get("X-Beacon-Authenticated")); err == nil {
			identity.Authenticated = authenticated
		}
		if bonaFide, err := strconv.ParseBool(c.Request().Header.Get("X-Beacon-Bona-Fide")); err == nil {
			identity.BonaFideStatus = bonaFide
		}
		if permissions := c.Request().Header.Get("X-Beacon-Dataset-Permissions"); permissions != "" {
			for _, permission := range strings.Split(permissions, ",") {
				if trimmed := strings.TrimSpace(permission); trimmed != "" {
					identity.Permissions = append(identity.Permissions, trimmed)
				}
			}
		}

		gc.Identity = identity

		return next(gc)
	}
}
