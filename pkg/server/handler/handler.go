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

// Package handler implements the REST surface of SPEC_FULL.md's HTTP
// façade: every method here delegates to pkg/manager and translates its
// results and errors into the façade's JSON responses.
package handler

import (
	"context"

	"github.com/kernelplane/kernel-gateway/pkg/kernel"
)

// Manager is the subset of *manager.Manager the façade depends on.
type Manager interface {
	Start(ctx context.Context, payload kernel.KernelPayload, waitForReady bool) (*kernel.KernelView, error)
	List(ctx context.Context, namespace string) ([]kernel.KernelView, error)
	Get(ctx context.Context, kernelID, namespace string) (*kernel.KernelView, error)
	Remove(ctx context.Context, kernelID, namespace string) error
}

// Handler implements every route in SPEC_FULL.md §C.4.5.
type Handler struct {
	manager Manager
}

// New returns a Handler backed by manager.
func New(manager Manager) *Handler {
	return &Handler{manager: manager}
}
