package filters

import (
	"context"
	"strings"

	"beacon/api/models/constants"
	comparisonOperator "beacon/api/models/constants/comparison-operator"
	e "beacon/api/models/dtos/errors"
)

/*
	Filter expression parsing and compilation.

	Raw filter tokens look like 'ontology:term' (plain existence
	filter) or 'ontology:term<op>value'. Compiled output is a set of
	parametrized (column, operator, value-list) predicates joined with
	logical AND - values are always carried as data and handed to the
	query collaborator, never interpolated into query strings.
*/

type FilterPredicate struct {
	Ontology string
	Term     string
	Operator constants.ComparisonOperator
	Value    string
}

// ParseFilters turns raw filter tokens into structured predicates.
// A token without a ':' separator is malformed.
func ParseFilters(tokens []string) ([]FilterPredicate, error) {
	parsed := make([]FilterPredicate, 0, len(tokens))

	for _, token := range tokens {
		elements := strings.Split(token, ":")
		if len(elements) < 2 {
			return nil, &e.MalformedFilterError{Token: token}
		}
		ontology := elements[0]
		remainder := elements[1]

		predicate := FilterPredicate{Ontology: ontology, Term: remainder}
		// first-match-wins over the ordered operator list
		// TODO: raise an error if "=<" or "=>" are given
		for _, operator := range comparisonOperator.OrderedOperators {
			if strings.Contains(remainder, string(operator)) {
				termAndValue := strings.SplitN(remainder, string(operator), 2)
				predicate.Term = termAndValue[0]
				predicate.Operator = operator
				predicate.Value = termAndValue[1]
				break
			}
		}

		parsed = append(parsed, predicate)
	}

	return parsed, nil
}

// ColumnLookup resolves an ontology:term pair to the backend column
// it filters on and the normalized value stored there.
type ColumnLookup interface {
	Resolve(ctx context.Context, ontology string, term string) (columnName string, columnValue string, found bool, err error)
}

// ColumnPredicate is one backend-agnostic containment predicate over
// a column's value array.
type ColumnPredicate struct {
	Column   string
	Operator constants.ComparisonOperator
	Values   []string
}

// CompiledFilter is the AND-joined set of column predicates handed to
// the query executor.
type CompiledFilter struct {
	Predicates []ColumnPredicate
}

func (f *CompiledFilter) IsEmpty() bool {
	return f == nil || len(f.Predicates) == 0
}

// Compile resolves parsed predicates to column predicates, grouping
// values by (column, operator) in first-seen order. Unresolvable
// terms either fail the request or are dropped, depending on
// rejectUnknown (an explicit configuration choice).
func Compile(ctx context.Context, predicates []FilterPredicate, lookup ColumnLookup, rejectUnknown bool) (*CompiledFilter, error) {
	type groupKey struct {
		column   string
		operator constants.ComparisonOperator
	}

	compiled := &CompiledFilter{Predicates: make([]ColumnPredicate, 0, len(predicates))}
	groupIndex := make(map[groupKey]int)

	for _, predicate := range predicates {
		columnName, columnValue, found, err := lookup.Resolve(ctx, predicate.Ontology, predicate.Term)
		if err != nil {
			return nil, &e.ServerError{Message: "query filters lookup error", Err: err}
		}
		if !found {
			if rejectUnknown {
				return nil, &e.UnknownFilterTermError{Ontology: predicate.Ontology, Term: predicate.Term}
			}
			continue
		}

		key := groupKey{column: columnName, operator: predicate.Operator}
		if i, ok := groupIndex[key]; ok {
			compiled.Predicates[i].Values = append(compiled.Predicates[i].Values, columnValue)
			continue
		}
		groupIndex[key] = len(compiled.Predicates)
		compiled.Predicates = append(compiled.Predicates, ColumnPredicate{
			Column:   columnName,
			Operator: predicate.Operator,
			Values:   []string{columnValue},
		})
	}

	return compiled, nil
}
