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

package readiness_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kernelplane/kernel-gateway/pkg/kernel"
	"github.com/kernelplane/kernel-gateway/pkg/readiness"
)

type fakeGetter struct {
	views []kernel.KernelView
	err   error
	calls int
}

func (f *fakeGetter) GetByID(_ context.Context, _, _ string) (*kernel.KernelView, error) {
	if f.err != nil {
		return nil, f.err
	}

	idx := f.calls
	if idx >= len(f.views) {
		idx = len(f.views) - 1
	}

	f.calls++

	view := f.views[idx]

	return &view, nil
}

func TestWaitReturnsTrueOnceReady(t *testing.T) {
	getter := &fakeGetter{views: []kernel.KernelView{{Ready: false}, {Ready: false}, {Ready: true}}}

	ready, err := readiness.Wait(context.Background(), getter, "kernel-id", "default", 5*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !ready {
		t.Fatal("expected ready=true")
	}
}

func TestWaitTimesOutWithoutError(t *testing.T) {
	getter := &fakeGetter{views: []kernel.KernelView{{Ready: false}}}

	ready, err := readiness.Wait(context.Background(), getter, "kernel-id", "default", 2100*time.Millisecond)
	if err != nil {
		t.Fatalf("expected no error on timeout, got %v", err)
	}

	if ready {
		t.Fatal("expected ready=false on timeout")
	}
}

func TestWaitPropagatesRetrievalErrors(t *testing.T) {
	getter := &fakeGetter{err: errors.New("api server unreachable")}

	ready, err := readiness.Wait(context.Background(), getter, "kernel-id", "default", 5*time.Second)
	if ready {
		t.Fatal("expected ready=false on error")
	}

	if !errors.Is(err, kernel.ErrKernelRetrieve) {
		t.Fatalf("got error %v, want ErrKernelRetrieve", err)
	}
}
