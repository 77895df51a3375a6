package models

// Authorizations bundles everything a user is allowed to do for the
// lifetime of a session: the classic capability bitset understood by the
// companion system, endorsement levels per category, and scope strings.
// Computed fresh on every load/create, never persisted as a unit.
type Authorizations struct {
	Classic      int64
	Endorsements map[string]int
	Scopes       []string
}
