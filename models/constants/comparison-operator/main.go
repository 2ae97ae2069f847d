package comparisonOperator

import (
	"beacon/api/models/constants"
)

const (
	Undefined          constants.ComparisonOperator = ""
	GreaterThanOrEqual constants.ComparisonOperator = ">="
	LessThanOrEqual    constants.ComparisonOperator = "<="
	Equal              constants.ComparisonOperator = "="
	GreaterThan        constants.ComparisonOperator = ">"
	LessThan           constants.ComparisonOperator = "<"
)

// Scanning order matters when parsing filter expressions:
// two-character operators must be tried before their
// one-character prefixes.
var OrderedOperators = []constants.ComparisonOperator{
	GreaterThanOrEqual,
	LessThanOrEqual,
	Equal,
	GreaterThan,
	LessThan,
}
