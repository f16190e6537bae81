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

// Package kernel holds the API-facing kernel data model and the pure
// mapping between it and the Kernel custom resource.
package kernel

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// KernelSpecName is the name of a supported kernel specification. Only
// "python" exists today; the type exists so adding a second member later
// doesn't change every call site's signature.
type KernelSpecName string

// KernelSpecNamePython is the only kernel spec this service supports.
const KernelSpecNamePython KernelSpecName = "python"

// Validate reports whether k is a known kernel spec name.
func (k KernelSpecName) Validate() error {
	switch k {
	case KernelSpecNamePython:
		return nil
	default:
		return fmt.Errorf("%w: unknown kernel spec name %q", ErrSchemaMapping, string(k))
	}
}

// KernelSpecNames lists the kernel spec names this service will accept,
// used to serve GET /api/kernelspecs.
func KernelSpecNames() []KernelSpecName {
	return []KernelSpecName{KernelSpecNamePython}
}

// RawObjectList is an ordered list of arbitrary JSON objects, used for
// kernel_volumes and kernel_volume_mounts. It accepts either a JSON array
// or a string containing one (the latter is how these arrive when a
// caller passes them as a Kubernetes-style environment variable), and
// rejects anything else.
type RawObjectList []map[string]any

// UnmarshalJSON implements the "array, or string containing an array"
// decoding rule (Invariant 6).
func (l *RawObjectList) UnmarshalJSON(data []byte) error {
	var asArray []map[string]any
	if err := json.Unmarshal(data, &asArray); err == nil {
		*l = asArray
		return nil
	}

	var asString string
	if err := json.Unmarshal(data, &asString); err != nil {
		return fmt.Errorf("%w: kernel_volumes/kernel_volume_mounts must be a JSON array or a JSON-encoded string of one", ErrSchemaMapping)
	}

	var nested []map[string]any
	if err := json.Unmarshal([]byte(asString), &nested); err != nil {
		return fmt.Errorf("%w: kernel_volumes/kernel_volume_mounts string must decode to a JSON array", ErrSchemaMapping)
	}

	*l = nested

	return nil
}

// MarshalJSON always emits a plain array; the string-encoded form is only
// ever an accepted input, never this type's own output.
func (l RawObjectList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return json.Marshal([]map[string]any{})
	}

	return json.Marshal([]map[string]any(l))
}

// IdleTimeoutSeconds is kernel_idle_timeout: an integer number of seconds
// that also accepts a numeric string on the wire, mirroring the Python
// source's "coerce to int" validator.
type IdleTimeoutSeconds int

// UnmarshalJSON accepts either a JSON number or a JSON string containing one.
func (t *IdleTimeoutSeconds) UnmarshalJSON(data []byte) error {
	var asInt int
	if err := json.Unmarshal(data, &asInt); err == nil {
		*t = IdleTimeoutSeconds(asInt)
		return nil
	}

	var asString string
	if err := json.Unmarshal(data, &asString); err != nil {
		return fmt.Errorf("%w: kernel_idle_timeout must be an integer or a string integer", ErrSchemaMapping)
	}

	var parsed int
	if _, err := fmt.Sscanf(asString, "%d", &parsed); err != nil {
		return fmt.Errorf("%w: kernel_idle_timeout %q is not an integer", ErrSchemaMapping, asString)
	}

	*t = IdleTimeoutSeconds(parsed)

	return nil
}

// ConnectionInfo is the Jupyter wire-protocol connection descriptor
// handed to the kernel process and echoed back to API clients.
type ConnectionInfo struct {
	IP              string `json:"ip"`
	ShellPort       int32  `json:"shellPort"`
	IOPubPort       int32  `json:"iopubPort"`
	StdinPort       int32  `json:"stdinPort"`
	ControlPort     int32  `json:"controlPort"`
	HBPort          int32  `json:"hbPort"`
	KernelID        string `json:"kernelId"`
	Key             string `json:"key"`
	Transport       string `json:"transport"`
	SignatureScheme string `json:"signatureScheme"`
	KernelName      string `json:"kernelName"`
}

// NewConnectionInfo returns a ConnectionInfo populated with this
// service's fixed default ports and a fresh kernel id/key pair.
func NewConnectionInfo() ConnectionInfo {
	return ConnectionInfo{
		IP:              "0.0.0.0",
		ShellPort:       52318,
		IOPubPort:       52317,
		StdinPort:       52319,
		ControlPort:     52321,
		HBPort:          52320,
		KernelID:        uuid.NewString(),
		Key:             uuid.NewString(),
		Transport:       "tcp",
		SignatureScheme: "hmac-sha256",
		KernelName:      "",
	}
}

// KernelPayload is the create-kernel request body and the request-facing
// shape of every subsequent kernel representation.
type KernelPayload struct {
	KernelID             string             `json:"kernel_id"`
	KernelSpecName       KernelSpecName     `json:"kernel_spec_name"`
	KernelWorkingDir     string             `json:"kernel_working_dir"`
	KernelNamespace      string             `json:"kernel_namespace"`
	KernelVolumes        RawObjectList      `json:"kernel_volumes"`
	KernelVolumeMounts   RawObjectList      `json:"kernel_volume_mounts"`
	KernelIdleTimeout    IdleTimeoutSeconds `json:"kernel_idle_timeout"`
	KernelConnectionInfo ConnectionInfo     `json:"kernel_connection_info"`
	KernelImage          string             `json:"kernel_image"`
}

// NewKernelPayload returns a KernelPayload populated with every default
// this service applies when a caller omits a field, mirroring the
// Python source's pydantic field defaults.
func NewKernelPayload() KernelPayload {
	return KernelPayload{
		KernelID:             uuid.NewString(),
		KernelSpecName:       KernelSpecNamePython,
		KernelWorkingDir:     "/mnt/data",
		KernelNamespace:      "default",
		KernelVolumes:        RawObjectList{},
		KernelVolumeMounts:   RawObjectList{},
		KernelIdleTimeout:    3600,
		KernelConnectionInfo: NewConnectionInfo(),
		KernelImage:          "zjuici/tablegpt-kernel:0.1.1",
	}
}

// KernelView is the full read-model of a kernel: its payload plus the
// fields only Kubernetes can tell us (name, readiness, last activity).
type KernelView struct {
	KernelPayload

	KernelName             string  `json:"kernel_name"`
	KernelLastActivityTime *string `json:"kernel_last_activity_time"`
	Ready                  bool    `json:"ready"`
}

// ExecutionState renders Ready the way the HTTP façade's response body
// expects: "idle" once the kernel is running, "starting" until then.
func (v KernelView) ExecutionState() string {
	if v.Ready {
		return "idle"
	}

	return "starting"
}
