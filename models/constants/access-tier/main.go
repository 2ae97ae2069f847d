package accessTier

import (
	"beacon/api/models/constants"
	"strings"
)

const (
	Unknown    constants.AccessTier = ""
	Public     constants.AccessTier = "PUBLIC"
	Registered constants.AccessTier = "REGISTERED"
	Controlled constants.AccessTier = "CONTROLLED"
)

func CastToAccessTier(text string) constants.AccessTier {
	switch strings.ToUpper(text) {
	case "PUBLIC":
		return Public
	case "REGISTERED":
		return Registered
	case "CONTROLLED":
		return Controlled
	default:
		return Unknown
	}
}

func IsKnownAccessTier(text string) bool {
	return CastToAccessTier(text) != Unknown
}
