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

package handler

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/kernelplane/kernel-gateway/pkg/kernel"
	"github.com/kernelplane/kernel-gateway/pkg/server/errors"
	"github.com/kernelplane/kernel-gateway/pkg/server/util"
)

// namespace resolves the optional "namespace" query parameter; an empty
// value means "every namespace this client can see", matching
// list/getById/deleteById's "namespace?" contract.
func namespace(r *http.Request) string {
	return r.URL.Query().Get("namespace")
}

// ListKernels handles GET /api/kernels.
func (h *Handler) ListKernels(w http.ResponseWriter, r *http.Request) {
	views, err := h.manager.List(r.Context(), namespace(r))
	if err != nil {
		errors.HandleError(w, r, err)
		return
	}

	responses := make([]kernelResponse, 0, len(views))
	for _, view := range views {
		responses = append(responses, newKernelResponse(view))
	}

	util.WriteJSONResponse(w, r, http.StatusOK, responses)
}

// CreateKernel handles POST /api/kernels.
func (h *Handler) CreateKernel(w http.ResponseWriter, r *http.Request) {
	var req kernel.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.HTTPUnprocessableEntity("invalid request json body").WithError(err).Write(w, r)
		return
	}

	payload, err := kernel.PayloadFromCreateRequest(req)
	if err != nil {
		errors.HTTPUnprocessableEntity("invalid request json body").WithError(err).Write(w, r)
		return
	}

	view, err := h.manager.Start(r.Context(), payload, true)
	if err != nil {
		errors.HandleError(w, r, err)
		return
	}

	util.WriteJSONResponse(w, r, http.StatusOK, newKernelResponse(*view))
}

// deleteKernelsRequest is the DELETE /api/kernels request body.
type deleteKernelsRequest struct {
	KernelIDs []string `json:"kernel_ids"`
}

// BatchDeleteKernels handles DELETE /api/kernels: every id is removed
// concurrently, mirroring the original source's
// asyncio.gather(*[km.aremove_kernel(kid) for kid in kids]).
func (h *Handler) BatchDeleteKernels(w http.ResponseWriter, r *http.Request) {
	var req deleteKernelsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.KernelIDs == nil {
		errors.HTTPBadRequest("invalid request json body").Write(w, r)
		return
	}

	ns := namespace(r)

	var wg sync.WaitGroup

	wg.Add(len(req.KernelIDs))

	for _, kernelID := range req.KernelIDs {
		go func(kernelID string) {
			defer wg.Done()

			_ = h.manager.Remove(r.Context(), kernelID, ns)
		}(kernelID)
	}

	wg.Wait()

	w.WriteHeader(http.StatusOK)
}

// GetKernel handles GET /api/kernels/{kernel_id}.
func (h *Handler) GetKernel(w http.ResponseWriter, r *http.Request) {
	kernelID := chi.URLParam(r, "kernel_id")

	view, err := h.manager.Get(r.Context(), kernelID, namespace(r))
	if err != nil {
		errors.HandleError(w, r, err)
		return
	}

	if view == nil {
		errors.HTTPNotFound("kernel not found: " + kernelID).Write(w, r)
		return
	}

	util.WriteJSONResponse(w, r, http.StatusOK, newKernelResponse(*view))
}

// DeleteKernel handles DELETE /api/kernels/{kernel_id}. Idempotent: a
// kernel that's already gone still returns 200.
func (h *Handler) DeleteKernel(w http.ResponseWriter, r *http.Request) {
	kernelID := chi.URLParam(r, "kernel_id")

	if err := h.manager.Remove(r.Context(), kernelID, namespace(r)); err != nil {
		errors.HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
