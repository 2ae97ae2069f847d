package access

import (
	"beacon/api/models/authorization"
	"beacon/api/models/constants"
	accessTier "beacon/api/models/constants/access-tier"
	e "beacon/api/models/dtos/errors"
	"beacon/api/models/indexes"

	"github.com/ahmetb/go-linq"
)

/*
	Dataset tier classification and per-request grant resolution.

	ResolveGrant is the sole gate deciding which dataset ids ever
	reach query execution and response assembly; it runs before any
	cross-dataset data is fetched.
*/

// DatasetTierIndex partitions the (request-scoped) dataset catalog
// into the three access tiers. A dataset belongs to exactly one tier.
type DatasetTierIndex struct {
	Public     []indexes.Dataset
	Registered []indexes.Dataset
	Controlled []indexes.Dataset
}

func ClassifyDatasets(datasets []indexes.Dataset) *DatasetTierIndex {
	index := &DatasetTierIndex{}
	for _, dataset := range datasets {
		switch dataset.AccessType {
		case accessTier.Public:
			index.Public = append(index.Public, dataset)
		case accessTier.Registered:
			index.Registered = append(index.Registered, dataset)
		case accessTier.Controlled:
			index.Controlled = append(index.Controlled, dataset)
		}
	}
	return index
}

// RequesterGrant is the resolved access context of one request,
// immutable once computed. Internal ids scope query execution and
// miss synthesis; stable ids drive the response filter's
// dataset-element visibility check.
type RequesterGrant struct {
	Tiers                   []constants.AccessTier
	VisibleDatasetIds       []int
	VisibleDatasetStableIds []string
}

func (g *RequesterGrant) HasTier(tier constants.AccessTier) bool {
	for _, granted := range g.Tiers {
		if granted == tier {
			return true
		}
	}
	return false
}

// ResolveGrant determines the tiers a requester attains and the
// datasets visible to them. The tier index is expected to already be
// scoped to the request's dataset ids (when the caller provided any).
//
// Everyone holds the PUBLIC tier. REGISTERED requires bona-fide
// status; CONTROLLED requires explicit per-dataset entitlements.
// Requests that would otherwise be refused degrade gracefully to
// public-only when public datasets were also requested.
func ResolveGrant(identity authorization.RequesterIdentity, tierIndex *DatasetTierIndex) (*RequesterGrant, error) {
	grant := &RequesterGrant{Tiers: []constants.AccessTier{accessTier.Public}}
	var visible []indexes.Dataset

	// all should have access to PUBLIC datasets
	if len(tierIndex.Public) > 0 {
		visible = append(visible, tierIndex.Public...)
	}

	if len(tierIndex.Registered) > 0 {
		if identity.BonaFideStatus {
			grant.Tiers = append(grant.Tiers, accessTier.Registered)
			visible = append(visible, tierIndex.Registered...)
		} else if len(tierIndex.Public) == 0 {
			// if both registered and controlled datasets were
			// requested this refusal is reported first
			if !identity.Authenticated {
				return nil, &e.UnauthorizedError{Message: "Unauthorized access to dataset(s), missing token."}
			}
			return nil, &e.ForbiddenError{Message: "Access to dataset(s) is forbidden."}
		}
	}

	if len(tierIndex.Controlled) > 0 {
		if len(identity.Permissions) > 0 {
			// only the datasets the requester is entitled to,
			// out of those present at this beacon
			var controlledAccess []indexes.Dataset
			linq.From(tierIndex.Controlled).WhereT(func(dataset indexes.Dataset) bool {
				return linq.From(identity.Permissions).AnyWithT(func(permission string) bool {
					return permission == dataset.StableId
				})
			}).ToSlice(&controlledAccess)

			if len(controlledAccess) > 0 {
				grant.Tiers = append(grant.Tiers, accessTier.Controlled)
				visible = append(visible, controlledAccess...)
			}
		} else if len(tierIndex.Public) == 0 && len(tierIndex.Registered) == 0 {
			if !identity.Authenticated {
				return nil, &e.UnauthorizedError{Message: "Unauthorized access to dataset(s), missing token."}
			}
			return nil, &e.ForbiddenError{Message: "Access to dataset(s) is forbidden."}
		}
	}

	for _, dataset := range visible {
		grant.VisibleDatasetIds = append(grant.VisibleDatasetIds, dataset.Id)
		grant.VisibleDatasetStableIds = append(grant.VisibleDatasetStableIds, dataset.StableId)
	}

	return grant, nil
}
