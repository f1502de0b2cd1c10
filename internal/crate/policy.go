package crate

import (
	"slices"
	"time"

	"github.com/cratedrop/service/internal/identity"
)

// Decision is the outcome of evaluating a request against a crate.
type Decision int

const (
	Allow Decision = iota
	DenyExpired
	DenyPasswordRequired
	DenyForbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyExpired:
		return "expired"
	case DenyPasswordRequired:
		return "password_required"
	case DenyForbidden:
		return "forbidden"
	}
	return "unknown"
}

// Err returns the sentinel error for a denial, or nil for Allow.
func (d Decision) Err() error {
	switch d {
	case Allow:
		return nil
	case DenyExpired:
		return ErrExpired
	case DenyPasswordRequired:
		return ErrPasswordRequired
	default:
		return ErrForbidden
	}
}

// Rule is one row of the authorization table.
type Rule struct {
	Name     string
	Matches  func(who identity.Identity, c *Crate) bool
	Decision Decision
}

// Rules is evaluated top to bottom; the first match wins and DenyForbidden
// applies when nothing matches. The password rule sits above the public rule
// and applies to sharing-list members too.
var Rules = []Rule{
	{
		Name:     "owner",
		Matches:  isOwner,
		Decision: Allow,
	},
	{
		Name: "public-password",
		Matches: func(_ identity.Identity, c *Crate) bool {
			return c.Shared.Public && c.Shared.PasswordProtected
		},
		Decision: DenyPasswordRequired,
	},
	{
		Name: "public",
		Matches: func(_ identity.Identity, c *Crate) bool {
			return c.Shared.Public
		},
		Decision: Allow,
	},
	{
		Name: "shared",
		Matches: func(who identity.Identity, c *Crate) bool {
			return !who.IsAnonymous() && slices.Contains(c.Shared.SharedWith, who.Subject)
		},
		Decision: Allow,
	},
}

// Anonymous requesters never own a crate, including crates whose owner is
// AnonymousOwner.
func isOwner(who identity.Identity, c *Crate) bool {
	return !who.IsAnonymous() && who.Subject == c.OwnerID
}

// Decide applies Rules to who and c.
func Decide(who identity.Identity, c *Crate) Decision {
	for _, r := range Rules {
		if r.Matches(who, c) {
			return r.Decision
		}
	}
	return DenyForbidden
}

// Evaluate runs the expiration check ahead of authorization, so an expired
// crate is gone for its owner as well.
func Evaluate(who identity.Identity, c *Crate, now time.Time) Decision {
	if c.IsExpired(now) {
		return DenyExpired
	}
	return Decide(who, c)
}
