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

package kernel

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CreateRequest is the POST /api/kernels request body.
type CreateRequest struct {
	Name KernelSpecName `json:"name"`
	Env  map[string]any `json:"env"`
}

// kernelEnvPrefix is the only prefix of env entries this service honors
// when synthesizing a KernelPayload from a create request.
const kernelEnvPrefix = "KERNEL_"

// envFields mirrors the subset of KernelPayload that a create request's
// filtered env can populate; its json tags are the literal KERNEL_*
// names the original source's env dict carries, so a single
// json.Unmarshal both selects the recognized fields and reuses
// RawObjectList/IdleTimeoutSeconds' lenient decoding.
type envFields struct {
	KernelID           *string             `json:"KERNEL_ID"`
	KernelSpecName     *KernelSpecName     `json:"KERNEL_SPEC_NAME"`
	KernelWorkingDir   *string             `json:"KERNEL_WORKING_DIR"`
	KernelNamespace    *string             `json:"KERNEL_NAMESPACE"`
	KernelVolumes      *RawObjectList      `json:"KERNEL_VOLUMES"`
	KernelVolumeMounts *RawObjectList      `json:"KERNEL_VOLUME_MOUNTS"`
	KernelIdleTimeout  *IdleTimeoutSeconds `json:"KERNEL_IDLE_TIMEOUT"`
	KernelImage        *string             `json:"KERNEL_IMAGE"`
}

// PayloadFromCreateRequest filters req.Env to KERNEL_-prefixed entries,
// overlays KERNEL_SPEC_NAME from req.Name, and binds the result onto a
// KernelPayload populated with this service's defaults — mirroring the
// original source's:
//
//	filtered_values = {k: v for k, v in req_body.env.items() if k.startswith("KERNEL_")}
//	filtered_values.update({"KERNEL_SPEC_NAME": req_body.name})
//	payload = AliasKernelPayload.model_validate(filtered_values)
func PayloadFromCreateRequest(req CreateRequest) (KernelPayload, error) {
	filtered := make(map[string]any, len(req.Env)+1)

	for k, v := range req.Env {
		if strings.HasPrefix(k, kernelEnvPrefix) {
			filtered[k] = v
		}
	}

	filtered["KERNEL_SPEC_NAME"] = string(req.Name)

	data, err := json.Marshal(filtered)
	if err != nil {
		return KernelPayload{}, fmt.Errorf("%w: %w", ErrSchemaMapping, err)
	}

	var fields envFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return KernelPayload{}, fmt.Errorf("%w: %w", ErrSchemaMapping, err)
	}

	payload := NewKernelPayload()

	if fields.KernelID != nil {
		payload.KernelID = *fields.KernelID
	}

	if fields.KernelSpecName != nil {
		payload.KernelSpecName = *fields.KernelSpecName
	}

	if fields.KernelWorkingDir != nil {
		payload.KernelWorkingDir = *fields.KernelWorkingDir
	}

	if fields.KernelNamespace != nil {
		payload.KernelNamespace = *fields.KernelNamespace
	}

	if fields.KernelVolumes != nil {
		payload.KernelVolumes = *fields.KernelVolumes
	}

	if fields.KernelVolumeMounts != nil {
		payload.KernelVolumeMounts = *fields.KernelVolumeMounts
	}

	if fields.KernelIdleTimeout != nil {
		payload.KernelIdleTimeout = *fields.KernelIdleTimeout
	}

	if fields.KernelImage != nil {
		payload.KernelImage = *fields.KernelImage
	}

	if err := payload.KernelSpecName.Validate(); err != nil {
		return KernelPayload{}, err
	}

	return payload, nil
}
