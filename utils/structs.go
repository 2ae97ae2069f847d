package utils

import "encoding/json"

// StructToMap round-trips a response struct through its json
// representation, yielding the generic keyed tree the access-level
// response filter recurses over.
func StructToMap(value interface{}) (map[string]interface{}, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	var asMap map[string]interface{}
	if err := json.Unmarshal(encoded, &asMap); err != nil {
		return nil, err
	}

	return asMap, nil
}
