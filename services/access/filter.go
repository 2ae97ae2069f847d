package access

import (
	"beacon/api/models/constants"
	"beacon/api/models/policy"

	"beacon/api/utils"
)

/*
	Recursive response redaction against the access-levels policy.

	Pure tree transform over keyed maps and lists: no shared state,
	deterministic given its inputs. Fields the policy never models
	pass through unchanged - that fail-open default is deliberate and
	pinned by tests; do not harden it here.
*/

type responseFilter struct {
	policy            *policy.AccessPolicy
	visibleDatasets   []string
	grantedTiers      []constants.AccessTier
	fieldTranslations map[string]string
}

// FilterResponse redacts a composed response tree down to what the
// granted tiers and visible datasets allow. It never fails on
// well-formed but policy-unmodeled input; the only error is a
// PolicyConfigError for a structurally inconsistent policy tree.
func FilterResponse(
	response map[string]interface{},
	accessPolicy *policy.AccessPolicy,
	visibleDatasets []string,
	grantedTiers []constants.AccessTier,
	fieldTranslations map[string]string,
) (map[string]interface{}, error) {
	// policy consistency is checked at load time already, but the
	// filter re-checks before trusting any ruling
	if err := accessPolicy.Validate(); err != nil {
		return nil, err
	}

	f := &responseFilter{
		policy:            accessPolicy,
		visibleDatasets:   visibleDatasets,
		grantedTiers:      grantedTiers,
		fieldTranslations: fieldTranslations,
	}
	return f.filterMap(response, ""), nil
}

func (f *responseFilter) translate(key string) string {
	if translated, ok := f.fieldTranslations[key]; ok {
		return translated
	}
	return key
}

func (f *responseFilter) tierGranted(tier constants.AccessTier) bool {
	for _, granted := range f.grantedTiers {
		if granted == tier {
			return true
		}
	}
	return false
}

func (f *responseFilter) filterMap(node map[string]interface{}, parentKey string) map[string]interface{} {
	filtered := map[string]interface{}{}

	for key, value := range node {
		translatedKey := f.translate(key)
		ruling := f.policy.RuleFor(parentKey, translatedKey)

		switch ruling.Kind {
		case policy.RulingUnrestricted:
			// not modeled anywhere in the policy: always visible
			filtered[key] = value

		case policy.RulingSection:
			section, _ := f.policy.Section(translatedKey)
			if !isContainer(value) {
				// scalar carrying a section name: governed by the
				// section's own summary level
				if f.tierGranted(section.AccessLevelSummary) {
					filtered[key] = value
				}
				continue
			}
			// a nested subtree is shown only when both its own
			// summary level and the enclosing scope's level for this
			// child are granted
			selfPermitted := f.tierGranted(section.AccessLevelSummary)
			parentPermitted := true
			if parentKey != "" {
				if parent, ok := f.policy.Section(parentKey); ok {
					if tier, ok := parent.FieldTier(key); ok {
						parentPermitted = f.tierGranted(tier)
					} else if tier, ok := parent.FieldTier(translatedKey); ok {
						parentPermitted = f.tierGranted(tier)
					}
				}
			}
			if selfPermitted && parentPermitted {
				filtered[key] = f.filterValue(value, translatedKey)
			}

		case policy.RulingRequiresTier:
			if f.tierGranted(ruling.RequiredTier) {
				filtered[key] = value
			}
		}
	}

	return filtered
}

// filterList filters element-wise. Elements carrying a dataset
// identity survive only when that identity is visible to the
// requester; lists do not open a new policy scope.
func (f *responseFilter) filterList(node []interface{}, parentKey string) []interface{} {
	filtered := make([]interface{}, 0, len(node))

	for _, element := range node {
		elementMap, ok := element.(map[string]interface{})
		if !ok {
			continue
		}
		if datasetId, present := elementMap["datasetId"]; present {
			stableId, isString := datasetId.(string)
			if !isString || !utils.StringInSlice(stableId, f.visibleDatasets) {
				continue
			}
		}
		filtered = append(filtered, f.filterMap(elementMap, parentKey))
	}

	return filtered
}

func (f *responseFilter) filterValue(value interface{}, parentKey string) interface{} {
	switch typed := value.(type) {
	case map[string]interface{}:
		return f.filterMap(typed, parentKey)
	case []interface{}:
		return f.filterList(typed, parentKey)
	default:
		return typed
	}
}

func isContainer(value interface{}) bool {
	switch value.(type) {
	case map[string]interface{}, []interface{}:
		return true
	default:
		return false
	}
}
