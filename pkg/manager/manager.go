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

// Package manager orchestrates kernel lifecycle on top of the Kubernetes
// CR client and the readiness poller: it's the only thing the HTTP
// façade talks to.
package manager

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kernelplane/kernel-gateway/pkg/kernel"
	"github.com/kernelplane/kernel-gateway/pkg/readiness"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// Client is the subset of kernelclient.Client this package depends on.
type Client interface {
	Create(ctx context.Context, payload kernel.KernelPayload) error
	List(ctx context.Context, namespace string) ([]kernel.KernelView, error)
	GetByID(ctx context.Context, kernelID, namespace string) (*kernel.KernelView, error)
	DeleteByID(ctx context.Context, kernelID, namespace string) error
}

// defaultWaitTimeout is how long Start waits for a newly created kernel
// to report ready before giving up.
const defaultWaitTimeout = 60 * time.Second

// Manager is the kernel lifecycle orchestrator: C4 in the component
// breakdown. It holds no state of its own; Kubernetes is the only source
// of truth on every call.
type Manager struct {
	client      Client
	waitTimeout time.Duration
}

// New returns a Manager backed by client.
func New(client Client) *Manager {
	return &Manager{client: client, waitTimeout: defaultWaitTimeout}
}

// WithWaitTimeout overrides the default readiness wait window used by Start.
func (m *Manager) WithWaitTimeout(timeout time.Duration) *Manager {
	m.waitTimeout = timeout
	return m
}

// Start creates a kernel and, if waitForReady is set, blocks until it
// reports ready or the wait window elapses. It always re-reads the
// kernel from Kubernetes before returning so the result reflects
// whatever the cluster actually recorded, not just what was requested.
func (m *Manager) Start(ctx context.Context, payload kernel.KernelPayload, waitForReady bool) (*kernel.KernelView, error) {
	if err := m.client.Create(ctx, payload); err != nil {
		return nil, err
	}

	if waitForReady {
		ready, err := readiness.Wait(ctx, m.client, payload.KernelID, payload.KernelNamespace, m.waitTimeout)
		if err != nil {
			return nil, err
		}

		if !ready {
			return nil, fmt.Errorf("%w: kernel-id %s", kernel.ErrKernelWaitReadyTimeout, payload.KernelID)
		}
	}

	return m.client.GetByID(ctx, payload.KernelID, payload.KernelNamespace)
}

// List returns every kernel in namespace.
func (m *Manager) List(ctx context.Context, namespace string) ([]kernel.KernelView, error) {
	return m.client.List(ctx, namespace)
}

// Get returns the named kernel, or nil (with no error) if it exists but
// isn't ready yet.
func (m *Manager) Get(ctx context.Context, kernelID, namespace string) (*kernel.KernelView, error) {
	view, err := m.client.GetByID(ctx, kernelID, namespace)
	if err != nil {
		return nil, err
	}

	if !view.Ready {
		return nil, nil
	}

	return view, nil
}

// Remove deletes a kernel. A failure to delete is logged and swallowed:
// this is a best-effort operation, matching the original source's
// aremove_kernel behavior of catching KernelDeleteError and returning
// silently. Any other error (e.g. failing to look the kernel up) is
// returned.
func (m *Manager) Remove(ctx context.Context, kernelID, namespace string) error {
	if err := m.client.DeleteByID(ctx, kernelID, namespace); err != nil {
		if !errors.Is(err, kernel.ErrKernelDelete) {
			return err
		}

		log.FromContext(ctx).Error(err, "failed to delete kernel, ignoring", "kernelId", kernelID, "namespace", namespace)
	}

	return nil
}

// ShutdownAll removes every kernel in namespace.
func (m *Manager) ShutdownAll(ctx context.Context, namespace string) error {
	views, err := m.client.List(ctx, namespace)
	if err != nil {
		return err
	}

	for _, view := range views {
		if err := m.Remove(ctx, view.KernelID, namespace); err != nil {
			return err
		}
	}

	return nil
}
