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

package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kernelplane/kernel-gateway/pkg/kernel"
	"github.com/kernelplane/kernel-gateway/pkg/server/handler"
)

type fakeManager struct {
	startView *kernel.KernelView
	startErr  error
	listViews []kernel.KernelView
	listErr   error
	getView   *kernel.KernelView
	getErr    error
	removeErr error

	mu         sync.Mutex
	removedIDs []string
}

func (m *fakeManager) Start(_ context.Context, _ kernel.KernelPayload, _ bool) (*kernel.KernelView, error) {
	return m.startView, m.startErr
}

func (m *fakeManager) List(_ context.Context, _ string) ([]kernel.KernelView, error) {
	return m.listViews, m.listErr
}

func (m *fakeManager) Get(_ context.Context, _, _ string) (*kernel.KernelView, error) {
	return m.getView, m.getErr
}

func (m *fakeManager) Remove(_ context.Context, kernelID, _ string) error {
	m.mu.Lock()
	m.removedIDs = append(m.removedIDs, kernelID)
	m.mu.Unlock()

	return m.removeErr
}

func newRouter(m *fakeManager) http.Handler {
	h := handler.New(m)

	router := chi.NewRouter()
	router.Get("/health", h.Health)
	router.Get("/api/kernelspecs", h.KernelSpecs)
	router.Get("/api/kernels", h.ListKernels)
	router.Post("/api/kernels", h.CreateKernel)
	router.Delete("/api/kernels", h.BatchDeleteKernels)
	router.Get("/api/kernels/{kernel_id}", h.GetKernel)
	router.Delete("/api/kernels/{kernel_id}", h.DeleteKernel)
	router.NotFound(http.HandlerFunc(handler.NotFound))
	router.MethodNotAllowed(http.HandlerFunc(handler.MethodNotAllowed))

	return router
}

func TestHealth(t *testing.T) {
	router := newRouter(&fakeManager{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestKernelSpecs(t *testing.T) {
	router := newRouter(&fakeManager{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/kernelspecs", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var specs []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &specs))
	assert.Equal(t, []string{"python"}, specs)
}

func TestListKernels(t *testing.T) {
	manager := &fakeManager{listViews: []kernel.KernelView{
		{KernelPayload: kernel.KernelPayload{KernelID: "a-b-c-d-e"}, Ready: true},
	}}
	router := newRouter(manager)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/kernels", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "a-b-c-d-e", body[0]["id"])
}

func TestCreateKernel(t *testing.T) {
	manager := &fakeManager{startView: &kernel.KernelView{
		KernelPayload: kernel.KernelPayload{KernelID: "a-b-c-d-e", KernelSpecName: kernel.KernelSpecNamePython},
		Ready:         true,
	}}
	router := newRouter(manager)

	body, err := json.Marshal(map[string]any{"name": "python", "env": map[string]any{}})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/kernels", bytes.NewReader(body)))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateKernelInvalidBody(t *testing.T) {
	router := newRouter(&fakeManager{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/kernels", bytes.NewReader([]byte("not json"))))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetKernelNotFound(t *testing.T) {
	router := newRouter(&fakeManager{getView: nil, getErr: nil})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/kernels/a-b-c-d-e", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetKernelFound(t *testing.T) {
	manager := &fakeManager{getView: &kernel.KernelView{
		KernelPayload: kernel.KernelPayload{KernelID: "a-b-c-d-e"},
		Ready:         true,
	}}
	router := newRouter(manager)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/kernels/a-b-c-d-e", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteKernel(t *testing.T) {
	manager := &fakeManager{}
	router := newRouter(manager)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/kernels/a-b-c-d-e", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"a-b-c-d-e"}, manager.removedIDs)
}

func TestBatchDeleteKernels(t *testing.T) {
	manager := &fakeManager{}
	router := newRouter(manager)

	body, err := json.Marshal(map[string]any{"kernel_ids": []string{"a-b-c-d-e", "f-g-h-i-j"}})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/kernels", bytes.NewReader(body)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.ElementsMatch(t, []string{"a-b-c-d-e", "f-g-h-i-j"}, manager.removedIDs)
}

func TestBatchDeleteKernelsMissingIDs(t *testing.T) {
	router := newRouter(&fakeManager{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/kernels", bytes.NewReader([]byte("{}"))))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNotFoundRoute(t *testing.T) {
	router := newRouter(&fakeManager{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nonexistent", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMethodNotAllowedRoute(t *testing.T) {
	router := newRouter(&fakeManager{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/kernels", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
