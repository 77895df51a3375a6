// Package authz reconstructs a user's authorizations from raw account
// flags and injected lookups. Reconstruction is a pure function of its
// inputs: given the same row and lookups it always produces the same
// Authorizations, and it never touches the store itself.
package authz

import (
	"context"

	"github.com/sessionworks/legacyauth/legacy/models"
)

// Classic capability bits understood by the companion system.
const (
	CapabilityEditUsers     int64 = 2
	CapabilityEmailVerified int64 = 4
	CapabilityAdmin         int64 = 8
)

// EndorsementLookup resolves endorsement levels per category for a user.
type EndorsementLookup interface {
	Endorsements(ctx context.Context, user *models.User) (map[string]int, error)
}

// ScopeLookup resolves the scope strings granted to an account row.
type ScopeLookup interface {
	Scopes(ctx context.Context, row *models.UserRow) ([]string, error)
}

// CapabilityFunc computes the classic capability bitset from an account row.
type CapabilityFunc func(row *models.UserRow) int64

// ClassicCapabilities is the default CapabilityFunc, summing the legacy
// bits set on the account row.
func ClassicCapabilities(row *models.UserRow) int64 {
	var caps int64
	if row.FlagEditUsers {
		caps += CapabilityEditUsers
	}
	if row.FlagEmailVerified {
		caps += CapabilityEmailVerified
	}
	if row.FlagAdmin {
		caps += CapabilityAdmin
	}
	return caps
}

// Compute assembles Authorizations for a user. Collaborator failures are
// propagated unchanged; Compute adds no error conditions of its own.
func Compute(ctx context.Context, row *models.UserRow, user *models.User,
	caps CapabilityFunc, endorsements EndorsementLookup, scopes ScopeLookup) (models.Authorizations, error) {

	levels, err := endorsements.Endorsements(ctx, user)
	if err != nil {
		return models.Authorizations{}, err
	}

	scopeSet, err := scopes.Scopes(ctx, row)
	if err != nil {
		return models.Authorizations{}, err
	}

	return models.Authorizations{
		Classic:      caps(row),
		Endorsements: levels,
		Scopes:       scopeSet,
	}, nil
}
