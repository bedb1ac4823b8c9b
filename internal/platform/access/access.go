// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package access evaluates route permissions for YaMDb.

Rules are plain values holding two predicates: a method-level check that runs
in middleware before the handler, and an object-level check that the handler
runs once it has loaded the target resource. Rules compose with [AnyOf] and
[AllOf] where routes are declared.

Architecture:

  - Actor: who is calling, rebuilt from verified token claims.
  - Rule: pure functions of (actor, method[, owner]). No I/O, no mutation.
  - Denial: 401 for anonymous actors, 403 for everybody else.
*/
package access

import (
	"net/http"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// # Actor

// Actor is the caller a permission rule is evaluated for.
type Actor struct {
	UserID        int64
	Role          sec.UserRole
	Authenticated bool
}

// Anonymous is the actor for requests without a token.
var Anonymous = Actor{}

// ActorFromClaims rebuilds the actor from verified token claims.
// A nil claims value yields [Anonymous].
func ActorFromClaims(claims *sec.AuthClaims) Actor {
	if claims == nil {
		return Anonymous
	}
	return Actor{
		UserID:        claims.UserID,
		Role:          claims.EffectiveRole(),
		Authenticated: true,
	}
}

// IsAdmin reports whether the actor acts with admin privileges.
func (a Actor) IsAdmin() bool {
	return a.Authenticated && a.Role == sec.RoleAdmin
}

// IsModerator reports whether the actor holds exactly the moderator role.
func (a Actor) IsModerator() bool {
	return a.Authenticated && a.Role == sec.RoleModerator
}

// Owns reports whether the actor is the owner of a resource.
func (a Actor) Owns(ownerID int64) bool {
	return a.Authenticated && a.UserID == ownerID
}

// IsSafeMethod reports whether method is read-only (GET, HEAD, OPTIONS).
func IsSafeMethod(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// # Rules

// Rule pairs a method-level and an object-level predicate.
// A nil predicate allows.
type Rule struct {
	Name            string
	HasAccess       func(actor Actor, method string) bool
	HasObjectAccess func(actor Actor, method string, ownerID int64) bool
}

func (r Rule) allows(actor Actor, method string) bool {
	return r.HasAccess == nil || r.HasAccess(actor, method)
}

func (r Rule) allowsObject(actor Actor, method string, ownerID int64) bool {
	return r.HasObjectAccess == nil || r.HasObjectAccess(actor, method, ownerID)
}

// Check runs the method-level predicate and returns the denial error, if any.
func (r Rule) Check(actor Actor, method string) error {
	if r.allows(actor, method) {
		return nil
	}
	return deny(actor)
}

// CheckObject runs both predicates against a loaded resource owned by ownerID.
func (r Rule) CheckObject(actor Actor, method string, ownerID int64) error {
	if r.allows(actor, method) && r.allowsObject(actor, method, ownerID) {
		return nil
	}
	return deny(actor)
}

func deny(actor Actor) error {
	if !actor.Authenticated {
		return apperr.Unauthorized("Authentication credentials were not provided")
	}
	return apperr.Forbidden("You do not have permission to perform this action")
}

// AllowAny admits every caller.
var AllowAny = Rule{Name: "AllowAny"}

// IsAuthenticated admits any caller holding a valid token.
var IsAuthenticated = Rule{
	Name: "IsAuthenticated",
	HasAccess: func(actor Actor, _ string) bool {
		return actor.Authenticated
	},
}

// IsAdminOrReadOnly admits reads from anyone and writes from admins.
var IsAdminOrReadOnly = Rule{
	Name: "IsAdminOrReadOnly",
	HasAccess: func(actor Actor, method string) bool {
		return IsSafeMethod(method) || actor.IsAdmin()
	},
}

// IsAuthorOrReadOnly admits reads from anyone and writes from the resource owner.
var IsAuthorOrReadOnly = Rule{
	Name: "IsAuthorOrReadOnly",
	HasAccess: func(actor Actor, method string) bool {
		return IsSafeMethod(method) || actor.Authenticated
	},
	HasObjectAccess: func(actor Actor, method string, ownerID int64) bool {
		return IsSafeMethod(method) || actor.Owns(ownerID)
	},
}

// IsAdminModeratorAuthorOrReadOnly admits reads from anyone. Writes need an
// authenticated caller who owns the resource or is a moderator or admin.
var IsAdminModeratorAuthorOrReadOnly = Rule{
	Name: "IsAdminModeratorAuthorOrReadOnly",
	HasAccess: func(actor Actor, method string) bool {
		return IsSafeMethod(method) || actor.Authenticated
	},
	HasObjectAccess: func(actor Actor, method string, ownerID int64) bool {
		return IsSafeMethod(method) ||
			actor.Owns(ownerID) ||
			actor.IsModerator() ||
			actor.IsAdmin()
	},
}

// IsRoleAdmin admits authenticated admins (superusers included) for every method.
var IsRoleAdmin = Rule{
	Name: "IsRoleAdmin",
	HasAccess: func(actor Actor, _ string) bool {
		return actor.IsAdmin()
	},
}

// IsRoleModerator admits authenticated moderators for every method.
// Admins are not moderators; combine with [AnyOf] to admit both.
var IsRoleModerator = Rule{
	Name: "IsRoleModerator",
	HasAccess: func(actor Actor, _ string) bool {
		return actor.IsModerator()
	},
}

// # Combinators

// AnyOf admits the caller when at least one rule admits it. At the object level
// a rule counts only if both of its predicates pass.
func AnyOf(rules ...Rule) Rule {
	return Rule{
		Name: joinNames("|", rules),
		HasAccess: func(actor Actor, method string) bool {
			for _, rule := range rules {
				if rule.allows(actor, method) {
					return true
				}
			}
			return false
		},
		HasObjectAccess: func(actor Actor, method string, ownerID int64) bool {
			for _, rule := range rules {
				if rule.allows(actor, method) && rule.allowsObject(actor, method, ownerID) {
					return true
				}
			}
			return false
		},
	}
}

// AllOf admits the caller only when every rule admits it.
func AllOf(rules ...Rule) Rule {
	return Rule{
		Name: joinNames("&", rules),
		HasAccess: func(actor Actor, method string) bool {
			for _, rule := range rules {
				if !rule.allows(actor, method) {
					return false
				}
			}
			return true
		},
		HasObjectAccess: func(actor Actor, method string, ownerID int64) bool {
			for _, rule := range rules {
				if !rule.allowsObject(actor, method, ownerID) {
					return false
				}
			}
			return true
		},
	}
}

func joinNames(sep string, rules []Rule) string {
	names := make([]string, len(rules))
	for i, rule := range rules {
		names[i] = rule.Name
	}
	return "(" + strings.Join(names, sep) + ")"
}
