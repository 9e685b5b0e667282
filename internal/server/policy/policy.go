// Package policy is the single authorization decision point for every
// mutating or sensitive-read operation. Both the REST API and the web
// surface call these predicates; neither carries its own rules.
//
// The two entity kinds deliberately use different predicates: climb
// records are owner-gated (personal data, no staff override), mountains
// are staff-gated (shared reference data, no ownership concept). Keep
// them separate; do not fold them into an "owner or staff" rule.
package policy

import "github.com/ttakano/climblog/internal/common"

// Principal is an authenticated user identity attached to a request.
// A nil *Principal means the caller is anonymous.
type Principal struct {
	ID       int64
	Username string
	Staff    bool
}

// Reason explains a decision; surfaces use it for error formatting.
type Reason string

const (
	ReasonAllowed   Reason = "allowed"
	ReasonAnonymous Reason = "authentication required"
	ReasonNotOwner  Reason = "only the owner may modify a climb record"
	ReasonNotStaff  Reason = "staff privilege required"
)

// Decision is a pure allow/deny result. No side effects.
type Decision struct {
	Allowed bool
	Reason  Reason
}

var allowed = Decision{Allowed: true, Reason: ReasonAllowed}

// Err maps a denial to the shared error taxonomy: an anonymous caller
// gets Unauthenticated, a known-but-denied principal gets Forbidden.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	if d.Reason == ReasonAnonymous {
		return common.ErrorUnauthenticated
	}
	return common.ErrorForbidden
}

// CanReadMountains reports whether p may read mountains. Always true,
// anonymous included.
func CanReadMountains(p *Principal) Decision { return allowed }

// CanReadRecords reports whether p may read climb records. Always true,
// anonymous included.
func CanReadRecords(p *Principal) Decision { return allowed }

// CanListUsers restricts the account listing to staff.
func CanListUsers(p *Principal) Decision {
	if p == nil {
		return Decision{Reason: ReasonAnonymous}
	}
	if !p.Staff {
		return Decision{Reason: ReasonNotStaff}
	}
	return allowed
}

// CanCreateMountain requires any authenticated principal.
func CanCreateMountain(p *Principal) Decision {
	if p == nil {
		return Decision{Reason: ReasonAnonymous}
	}
	return allowed
}

// CanCreateRecord requires any authenticated principal; the principal
// becomes the record's owner.
func CanCreateRecord(p *Principal) Decision {
	if p == nil {
		return Decision{Reason: ReasonAnonymous}
	}
	return allowed
}

// CanRegister allows open self-registration, no principal needed.
func CanRegister() Decision { return allowed }

// CanMutateMountain gates mountain update/delete on the staff flag.
// Who created the mountain is irrelevant.
func CanMutateMountain(p *Principal) Decision {
	if p == nil {
		return Decision{Reason: ReasonAnonymous}
	}
	if !p.Staff {
		return Decision{Reason: ReasonNotStaff}
	}
	return allowed
}

// CanMutateRecord gates record update/delete on ownership. Staff status
// has no bearing here.
func CanMutateRecord(p *Principal, ownerID int64) Decision {
	if p == nil {
		return Decision{Reason: ReasonAnonymous}
	}
	if p.ID != ownerID {
		return Decision{Reason: ReasonNotOwner}
	}
	return allowed
}
