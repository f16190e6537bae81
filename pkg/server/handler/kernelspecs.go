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
	"net/http"

	"github.com/kernelplane/kernel-gateway/pkg/kernel"
	"github.com/kernelplane/kernel-gateway/pkg/server/util"
)

// KernelSpecs lists the kernel specification names this service
// supports.
func (h *Handler) KernelSpecs(w http.ResponseWriter, r *http.Request) {
	names := kernel.KernelSpecNames()

	specs := make([]string, 0, len(names))
	for _, name := range names {
		specs = append(specs, string(name))
	}

	util.WriteJSONResponse(w, r, http.StatusOK, specs)
}
