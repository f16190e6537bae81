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

// Package kernelclient issues Kernel custom resource CRUD against
// Kubernetes and classifies the errors it gets back into the kernel
// package's taxonomy.
package kernelclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	kernelsv1 "github.com/kernelplane/kernel-gateway/pkg/apis/kernels/v1"
	"github.com/kernelplane/kernel-gateway/pkg/constants"
	"github.com/kernelplane/kernel-gateway/pkg/kernel"

	kerrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"

	"sigs.k8s.io/controller-runtime/pkg/client"
)

// defaultTimeout bounds every Kubernetes call issued through this client
// when the caller doesn't supply a context deadline of its own.
const defaultTimeout = 60 * time.Second

// quotaExceededSubstring is matched, case-insensitively, against a 403
// response's status message to distinguish a quota rejection from any
// other forbidden response.
const quotaExceededSubstring = "exceeded quota"

// Client issues Kernel CR operations against Kubernetes.
type Client struct {
	client  client.Client
	timeout time.Duration
}

// Option configures a Client, either at construction time (New) or as a
// one-off override passed to an individual call.
type Option func(*Client)

// WithTimeout overrides the default 60s timeout applied when the
// caller's context carries no deadline of its own. Passed to New it
// changes the client's default; passed to an individual method call it
// overrides the default for that call only.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// New returns a Client wrapping c.
func New(c client.Client, opts ...Option) *Client {
	kc := &Client{client: c, timeout: defaultTimeout}

	for _, opt := range opts {
		opt(kc)
	}

	return kc
}

// withTimeout applies c's default timeout, or any per-call opts
// overriding it, unless ctx already carries a deadline of its own.
func (c *Client) withTimeout(ctx context.Context, opts ...Option) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}

	effective := *c
	for _, opt := range opts {
		opt(&effective)
	}

	return context.WithTimeout(ctx, effective.timeout)
}

// Create submits a new Kernel CR for payload. It classifies Kubernetes
// errors per the kernel package's taxonomy: 409 -> ErrKernelExists, 403
// with a quota-exceeded reason -> ErrKernelResourceQuotaExceeded, any
// other 403 -> ErrKernelForbidden, anything else -> ErrKernelCreation.
func (c *Client) Create(ctx context.Context, payload kernel.KernelPayload, opts ...Option) error {
	ctx, cancel := c.withTimeout(ctx, opts...)
	defer cancel()

	cr, err := kernel.ToCustomResource(payload)
	if err != nil {
		return err
	}

	if err := c.client.Create(ctx, cr); err != nil {
		return classifyCreateError(err, payload)
	}

	return nil
}

func classifyCreateError(err error, payload kernel.KernelPayload) error {
	switch {
	case kerrors.IsAlreadyExists(err):
		return fmt.Errorf("%w: kernel-id %s, namespace %s: %w", kernel.ErrKernelExists, payload.KernelID, payload.KernelNamespace, err)
	case kerrors.IsForbidden(err):
		if apiStatus, ok := err.(kerrors.APIStatus); ok && strings.Contains(strings.ToLower(apiStatus.Status().Message), quotaExceededSubstring) { //nolint:errorlint
			return fmt.Errorf("%w: %w", kernel.ErrKernelResourceQuotaExceeded, err)
		}

		return fmt.Errorf("%w: %w", kernel.ErrKernelForbidden, err)
	default:
		return fmt.Errorf("%w: %w", kernel.ErrKernelCreation, err)
	}
}

// List returns every kernel in namespace ("" lists across all
// namespaces this client is authorized to see).
func (c *Client) List(ctx context.Context, namespace string, opts ...Option) ([]kernel.KernelView, error) {
	ctx, cancel := c.withTimeout(ctx, opts...)
	defer cancel()

	result := &kernelsv1.KernelList{}

	if err := c.client.List(ctx, result, &client.ListOptions{Namespace: namespace}); err != nil {
		return nil, fmt.Errorf("%w: %w", kernel.ErrKernelRetrieve, err)
	}

	views := make([]kernel.KernelView, 0, len(result.Items))

	for i := range result.Items {
		view, err := kernel.FromCustomResource(&result.Items[i])
		if err != nil {
			return nil, err
		}

		views = append(views, *view)
	}

	return views, nil
}

// GetByID returns the kernel labeled with kernelID in namespace.
// ErrKernelNotFound is returned when no such kernel exists.
func (c *Client) GetByID(ctx context.Context, kernelID, namespace string, opts ...Option) (*kernel.KernelView, error) {
	ctx, cancel := c.withTimeout(ctx, opts...)
	defer cancel()

	selector := labels.SelectorFromSet(labels.Set{constants.KernelIDLabel: kernelID})

	result := &kernelsv1.KernelList{}

	listOptions := &client.ListOptions{
		Namespace:     namespace,
		LabelSelector: selector,
		Limit:         1,
	}

	if err := c.client.List(ctx, result, listOptions); err != nil {
		return nil, fmt.Errorf("%w: %w", kernel.ErrKernelRetrieve, err)
	}

	if len(result.Items) == 0 {
		return nil, fmt.Errorf("%w: kernel-id %s", kernel.ErrKernelNotFound, kernelID)
	}

	return kernel.FromCustomResource(&result.Items[0])
}

// DeleteByID deletes the kernel labeled with kernelID in namespace. A
// kernel that's already absent is treated as a no-op success, matching
// the original source's adelete_by_kernel_id behavior.
func (c *Client) DeleteByID(ctx context.Context, kernelID, namespace string, opts ...Option) error {
	ctx, cancel := c.withTimeout(ctx, opts...)
	defer cancel()

	view, err := c.GetByID(ctx, kernelID, namespace)
	if err != nil {
		if isNotFound(err) {
			return nil
		}

		return err
	}

	cr := &kernelsv1.Kernel{
		ObjectMeta: metav1.ObjectMeta{
			Name:      view.KernelName,
			Namespace: view.KernelNamespace,
		},
	}

	if err := c.client.Delete(ctx, cr); err != nil {
		if kerrors.IsNotFound(err) {
			return nil
		}

		return fmt.Errorf("%w: %w", kernel.ErrKernelDelete, err)
	}

	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, kernel.ErrKernelNotFound)
}
