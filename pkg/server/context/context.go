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

// Package context stashes the identity the auth middleware resolved for
// a request, so downstream logging can attribute requests to a caller
// without every handler re-deriving it from the header.
package context

import (
	"context"
)

// contextKey defines a new context key type unique to this package.
type contextKey string

// identityKey is the key used to store the request identity (the
// caller's user, or "anonymous").
const identityKey contextKey = "identity"

// NewContextWithIdentity adds the resolved identity to the context.
func NewContextWithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext extracts the identity stashed by the auth
// middleware. Returns "" if none was stashed, e.g. a handler running
// outside the middleware chain in a test.
func IdentityFromContext(ctx context.Context) string {
	identity, _ := ctx.Value(identityKey).(string)
	return identity
}
