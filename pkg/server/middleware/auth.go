/*
Copyright 2024 Kernel Gateway Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package middleware

import (
	"net/http"

	svrcontext "github.com/kernelplane/kernel-gateway/pkg/server/context"
	"github.com/kernelplane/kernel-gateway/pkg/server/errors"
)

// AuthOptions configures the Auth middleware.
type AuthOptions struct {
	// AllowUnauthenticatedAccess skips header checking entirely and
	// stamps every request as "anonymous".
	AllowUnauthenticatedAccess bool

	// UserInHeader names the request header carrying caller identity
	// when AllowUnauthenticatedAccess is false.
	UserInHeader string
}

// anonymousIdentity is stamped when authentication is disabled.
const anonymousIdentity = "anonymous"

// Auth resolves the caller's identity and stashes it in the request
// context. When unauthenticated access isn't allowed, a missing or empty
// identity header is rejected with 403 — it never falls back to
// "anonymous" (mirroring the `authenticated` decorator's
// `raise web.HTTPError(403)` path).
func Auth(opts AuthOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := anonymousIdentity

			if !opts.AllowUnauthenticatedAccess {
				identity = r.Header.Get(opts.UserInHeader)
				if identity == "" {
					errors.HTTPForbidden("missing required identity header").Write(w, r)
					return
				}
			}

			ctx := svrcontext.NewContextWithIdentity(r.Context(), identity)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
