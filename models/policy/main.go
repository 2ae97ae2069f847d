package policy

import (
	"fmt"
	"os"

	"beacon/api/models/constants"
	accessTier "beacon/api/models/constants/access-tier"
	e "beacon/api/models/dtos/errors"

	"gopkg.in/yaml.v2"
)

/*
	Typed model of the access-levels policy tree.

	The policy file is a flat two-level yaml document: top-level
	sections mirror the named objects of the response schemas, and
	each section maps its child field names to the tier required to
	see them. A field counts as a nested subtree when its translated
	name is itself a top-level section.
*/

const summaryKey = "accessLevelSummary"

type PolicySection struct {
	AccessLevelSummary constants.AccessTier
	Fields             map[string]constants.AccessTier
}

type AccessPolicy struct {
	Sections map[string]PolicySection
}

// FieldTier returns the tier required for a field of this section.
func (s PolicySection) FieldTier(field string) (constants.AccessTier, bool) {
	tier, ok := s.Fields[field]
	return tier, ok
}

func (p *AccessPolicy) Section(name string) (PolicySection, bool) {
	section, ok := p.Sections[name]
	return section, ok
}

// RulingKind is the tri-state outcome of a policy lookup. The
// "pass through" behaviour for fields the policy never models is a
// named decision, not a fallthrough.
type RulingKind int

const (
	// field modeled nowhere: always visible (fail-open)
	RulingUnrestricted RulingKind = iota
	// field governed by a tier within the enclosing scope
	RulingRequiresTier
	// field names a policy section of its own (nested subtree)
	RulingSection
)

type Ruling struct {
	Kind         RulingKind
	RequiredTier constants.AccessTier
}

// RuleFor classifies a (possibly translated) response field against
// the policy, within the scope of parentKey ("" at the response root).
func (p *AccessPolicy) RuleFor(parentKey string, translatedKey string) Ruling {
	if _, ok := p.Sections[translatedKey]; ok {
		return Ruling{Kind: RulingSection}
	}
	if parentKey != "" {
		if parent, ok := p.Sections[parentKey]; ok {
			if tier, ok := parent.FieldTier(translatedKey); ok {
				return Ruling{Kind: RulingRequiresTier, RequiredTier: tier}
			}
		}
	}
	return Ruling{Kind: RulingUnrestricted}
}

// Summary flattens the policy to sectionName -> summary tier, the
// shape served by the access-levels endpoint without field details.
func (p *AccessPolicy) Summary() map[string]constants.AccessTier {
	summary := make(map[string]constants.AccessTier, len(p.Sections))
	for name, section := range p.Sections {
		summary[name] = section.AccessLevelSummary
	}
	return summary
}

// Detailed re-expands the policy to the raw two-level map shape for
// the access-levels endpoint with field details.
func (p *AccessPolicy) Detailed() map[string]map[string]constants.AccessTier {
	detailed := make(map[string]map[string]constants.AccessTier, len(p.Sections))
	for name, section := range p.Sections {
		fields := make(map[string]constants.AccessTier, len(section.Fields)+1)
		fields[summaryKey] = section.AccessLevelSummary
		for field, tier := range section.Fields {
			fields[field] = tier
		}
		detailed[name] = fields
	}
	return detailed
}

// Validate re-checks structural consistency; ideally failures
// surface at startup but filtering re-validates defensively.
func (p *AccessPolicy) Validate() error {
	if p == nil || len(p.Sections) == 0 {
		return &e.PolicyConfigError{Detail: "policy has no sections"}
	}
	for name, section := range p.Sections {
		if !accessTier.IsKnownAccessTier(string(section.AccessLevelSummary)) {
			return &e.PolicyConfigError{
				Detail: fmt.Sprintf("section '%s' declares unrecognized summary level '%s'", name, section.AccessLevelSummary),
			}
		}
		for field, tier := range section.Fields {
			if !accessTier.IsKnownAccessTier(string(tier)) {
				return &e.PolicyConfigError{
					Detail: fmt.Sprintf("field '%s.%s' declares unrecognized level '%s'", name, field, tier),
				}
			}
		}
	}
	return nil
}

// LoadAccessPolicy reads and validates the access-levels yaml file.
// The policy is loaded once at process start and immutable thereafter.
func LoadAccessPolicy(path string) (*AccessPolicy, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, &e.PolicyConfigError{Detail: fmt.Sprintf("cannot read '%s': %s", path, err)}
	}
	return ParseAccessPolicy(contents)
}

func ParseAccessPolicy(contents []byte) (*AccessPolicy, error) {
	var raw map[string]map[string]string
	if err := yaml.Unmarshal(contents, &raw); err != nil {
		return nil, &e.PolicyConfigError{Detail: fmt.Sprintf("invalid yaml: %s", err)}
	}

	p := &AccessPolicy{Sections: make(map[string]PolicySection, len(raw))}
	for name, rawSection := range raw {
		section := PolicySection{Fields: make(map[string]constants.AccessTier)}
		for field, level := range rawSection {
			if field == summaryKey {
				section.AccessLevelSummary = constants.AccessTier(level)
				continue
			}
			section.Fields[field] = constants.AccessTier(level)
		}
		p.Sections[name] = section
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
