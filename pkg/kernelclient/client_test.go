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

package kernelclient_test

import (
	"context"
	"errors"
	"testing"

	kernelsv1 "github.com/kernelplane/kernel-gateway/pkg/apis/kernels/v1"
	"github.com/kernelplane/kernel-gateway/pkg/kernel"
	"github.com/kernelplane/kernel-gateway/pkg/kernelclient"

	"k8s.io/apimachinery/pkg/runtime"

	"sigs.k8s.io/controller-runtime/pkg/client/fake"
)

func newScheme(t *testing.T) *runtime.Scheme {
	t.Helper()

	scheme := runtime.NewScheme()
	if err := kernelsv1.AddToScheme(scheme); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return scheme
}

func TestCreateThenGetByID(t *testing.T) {
	c := kernelclient.New(fake.NewClientBuilder().WithScheme(newScheme(t)).Build())

	payload := kernel.NewKernelPayload()
	payload.KernelID = "abcd-1234-efgh-5678"
	payload.KernelNamespace = "default"

	ctx := context.Background()

	if err := c.Create(ctx, payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	view, err := c.GetByID(ctx, payload.KernelID, payload.KernelNamespace)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if view.KernelID != payload.KernelID {
		t.Fatalf("got kernel id %q, want %q", view.KernelID, payload.KernelID)
	}

	if view.Ready {
		t.Fatal("freshly created kernel should not be ready")
	}
}

func TestCreateExisting(t *testing.T) {
	c := kernelclient.New(fake.NewClientBuilder().WithScheme(newScheme(t)).Build())

	payload := kernel.NewKernelPayload()
	payload.KernelID = "abcd-1234-efgh-5678"

	ctx := context.Background()

	if err := c.Create(ctx, payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := c.Create(ctx, payload)
	if !errors.Is(err, kernel.ErrKernelExists) {
		t.Fatalf("got error %v, want ErrKernelExists", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	c := kernelclient.New(fake.NewClientBuilder().WithScheme(newScheme(t)).Build())

	_, err := c.GetByID(context.Background(), "missing-kernel", "default")
	if !errors.Is(err, kernel.ErrKernelNotFound) {
		t.Fatalf("got error %v, want ErrKernelNotFound", err)
	}
}

func TestDeleteByIDIsANoOpWhenAbsent(t *testing.T) {
	c := kernelclient.New(fake.NewClientBuilder().WithScheme(newScheme(t)).Build())

	if err := c.DeleteByID(context.Background(), "missing-kernel", "default"); err != nil {
		t.Fatalf("expected a silent no-op, got %v", err)
	}
}

func TestDeleteByIDRemovesAnExistingKernel(t *testing.T) {
	c := kernelclient.New(fake.NewClientBuilder().WithScheme(newScheme(t)).Build())

	payload := kernel.NewKernelPayload()
	payload.KernelID = "abcd-1234-efgh-5678"

	ctx := context.Background()

	if err := c.Create(ctx, payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := c.DeleteByID(ctx, payload.KernelID, payload.KernelNamespace); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := c.GetByID(ctx, payload.KernelID, payload.KernelNamespace)
	if !errors.Is(err, kernel.ErrKernelNotFound) {
		t.Fatalf("got error %v, want ErrKernelNotFound after delete", err)
	}
}

func TestListReturnsAllKernelsInNamespace(t *testing.T) {
	c := kernelclient.New(fake.NewClientBuilder().WithScheme(newScheme(t)).Build())

	ctx := context.Background()

	for _, id := range []string{"kernel-one-aaaa-bbbb", "kernel-two-cccc-dddd"} {
		payload := kernel.NewKernelPayload()
		payload.KernelID = id

		if err := c.Create(ctx, payload); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	views, err := c.List(ctx, "default")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(views) != 2 {
		t.Fatalf("got %d kernels, want 2", len(views))
	}
}
