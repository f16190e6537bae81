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

import "github.com/kernelplane/kernel-gateway/pkg/kernel"

// kernelResponse is the façade's public shape for a kernel, matching
// Jupyter's own /api/kernels response fields.
type kernelResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	LastActivity   *string `json:"last_activity"`
	ExecutionState string  `json:"execution_state"`
	Connections    int     `json:"connections"`
}

// newKernelResponse renders a KernelView as the façade's response body.
// Connections is always 0: this service never tracks live channel
// connection counts itself (that's the bridge's concern, C7).
func newKernelResponse(view kernel.KernelView) kernelResponse {
	return kernelResponse{
		ID:             view.KernelID,
		Name:           view.KernelName,
		LastActivity:   view.KernelLastActivityTime,
		ExecutionState: view.ExecutionState(),
		Connections:    0,
	}
}
