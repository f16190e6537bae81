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

package manager_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kernelplane/kernel-gateway/pkg/kernel"
	"github.com/kernelplane/kernel-gateway/pkg/manager"
)

type fakeClient struct {
	created      map[string]kernel.KernelPayload
	readyAfter   int
	getCalls     map[string]int
	deleteErr    error
	deletedIDs   []string
	listErr      error
	listOverride []kernel.KernelView
}

func newFakeClient() *fakeClient {
	return &fakeClient{created: map[string]kernel.KernelPayload{}, getCalls: map[string]int{}}
}

func (f *fakeClient) Create(_ context.Context, payload kernel.KernelPayload) error {
	if _, exists := f.created[payload.KernelID]; exists {
		return kernel.ErrKernelExists
	}

	f.created[payload.KernelID] = payload

	return nil
}

func (f *fakeClient) List(_ context.Context, _ string) ([]kernel.KernelView, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}

	if f.listOverride != nil {
		return f.listOverride, nil
	}

	views := make([]kernel.KernelView, 0, len(f.created))
	for _, payload := range f.created {
		views = append(views, kernel.KernelView{KernelPayload: payload, Ready: true})
	}

	return views, nil
}

func (f *fakeClient) GetByID(_ context.Context, kernelID, _ string) (*kernel.KernelView, error) {
	payload, ok := f.created[kernelID]
	if !ok {
		return nil, kernel.ErrKernelNotFound
	}

	f.getCalls[kernelID]++

	ready := f.getCalls[kernelID] > f.readyAfter

	return &kernel.KernelView{KernelPayload: payload, Ready: ready}, nil
}

func (f *fakeClient) DeleteByID(_ context.Context, kernelID, _ string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}

	delete(f.created, kernelID)
	f.deletedIDs = append(f.deletedIDs, kernelID)

	return nil
}

func TestStartWaitsUntilReady(t *testing.T) {
	client := newFakeClient()
	client.readyAfter = 1

	m := manager.New(client).WithWaitTimeout(5 * time.Second)

	payload := kernel.NewKernelPayload()
	payload.KernelID = "abcd-1234-efgh-5678"

	view, err := m.Start(context.Background(), payload, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !view.Ready {
		t.Fatal("expected the returned view to be ready")
	}
}

func TestStartTimesOutRaisesWaitReadyTimeout(t *testing.T) {
	client := newFakeClient()
	client.readyAfter = 1000

	m := manager.New(client).WithWaitTimeout(2100 * time.Millisecond)

	payload := kernel.NewKernelPayload()
	payload.KernelID = "abcd-1234-efgh-5678"

	_, err := m.Start(context.Background(), payload, true)
	if !errors.Is(err, kernel.ErrKernelWaitReadyTimeout) {
		t.Fatalf("got error %v, want ErrKernelWaitReadyTimeout", err)
	}
}

func TestGetReturnsNilWhenNotReady(t *testing.T) {
	client := newFakeClient()
	client.readyAfter = 1000

	payload := kernel.NewKernelPayload()
	payload.KernelID = "abcd-1234-efgh-5678"

	if err := client.Create(context.Background(), payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := manager.New(client)

	view, err := m.Get(context.Background(), payload.KernelID, payload.KernelNamespace)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if view != nil {
		t.Fatal("expected a nil view for a not-yet-ready kernel")
	}
}

func TestRemoveSwallowsDeleteError(t *testing.T) {
	client := newFakeClient()
	client.deleteErr = kernel.ErrKernelDelete

	m := manager.New(client)

	if err := m.Remove(context.Background(), "abcd-1234-efgh-5678", "default"); err != nil {
		t.Fatalf("expected Remove to swallow the delete error, got %v", err)
	}
}

func TestShutdownAllRemovesEveryKernel(t *testing.T) {
	client := newFakeClient()
	client.listOverride = []kernel.KernelView{
		{KernelPayload: kernel.KernelPayload{KernelID: "one"}},
		{KernelPayload: kernel.KernelPayload{KernelID: "two"}},
	}

	m := manager.New(client)

	if err := m.ShutdownAll(context.Background(), "default"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(client.deletedIDs) != 2 {
		t.Fatalf("got %d deletes, want 2", len(client.deletedIDs))
	}
}
