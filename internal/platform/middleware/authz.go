// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/access"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// RoleResolver loads the role state an account holds right now.
type RoleResolver interface {
	ResolveRole(context context.Context, userID int64) (sec.RoleState, error)
}

// Authenticate extracts and verifies the JWT from the Authorization header.
//
// # Flow
//  1. No 'Authorization' header: the request proceeds as anonymous.
//  2. Otherwise the header must be 'Bearer <token>' and the token must verify.
//  3. The subject is resolved to its stored role; a deleted account is a 401.
//  4. The claims, carrying the stored role, are injected into the request context.
func Authenticate(verifier TokenVerifier, resolver RoleResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, strings.TrimSpace(constants.BearerPrefix)) || token == "" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyToken(strings.TrimSpace(token))
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 4. Current Role ───────────────────────────────────────────────
			state, err := resolver.ResolveRole(request.Context(), claims.UserID)
			switch {
			case apperr.HasCode(err, apperr.CodeNotFound):
				respond.Error(writer, request, apperr.Unauthorized("User not found"))
				return
			case err != nil:
				respond.Error(writer, request, err)
				return
			}
			claims = claims.WithRoleState(state)

			// ── 5. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With("user_id", claims.UserID))
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// Require runs the method-level check of rule before the handler.
//
// # Usage
//
// Must be registered AFTER [Authenticate]. Object-level checks are the
// handler's job once the resource is loaded, see [access.Rule.CheckObject].
func Require(rule access.Rule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			actor := ctxutil.GetActor(request.Context())

			if err := rule.Check(actor, request.Method); err != nil {
				ctxutil.GetLogger(request.Context()).DebugContext(request.Context(), "access_denied",
					"rule", rule.Name,
					"authenticated", actor.Authenticated,
				)
				respond.Error(writer, request, err)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
