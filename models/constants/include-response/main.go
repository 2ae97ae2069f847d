package includeResponse

import (
	"beacon/api/models/constants"
	"strings"
)

const (
	Undefined constants.IncludeResponsesMode = ""
	All       constants.IncludeResponsesMode = "ALL"
	Hit       constants.IncludeResponsesMode = "HIT"
	Miss      constants.IncludeResponsesMode = "MISS"
	None      constants.IncludeResponsesMode = "NONE"
)

func CastToIncludeResponsesMode(text string) constants.IncludeResponsesMode {
	switch strings.ToUpper(text) {
	case "ALL":
		return All
	case "HIT":
		return Hit
	case "MISS":
		return Miss
	case "NONE":
		return None
	default:
		return Undefined
	}
}
