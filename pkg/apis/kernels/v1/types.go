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

// Package v1 defines the Kernel custom resource this service manages.
package v1

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// KernelSpec describes the pod and lifecycle knobs for a single Jupyter
// kernel instance. It mirrors exactly what the gateway writes on create;
// nothing here is mutated after submission.
type KernelSpec struct {
	// Template is the pod template the kernel container runs under.
	Template corev1.PodTemplateSpec `json:"template"`

	// IdleTimeoutSeconds is how long an idle kernel survives before an
	// external culler is entitled to remove it. This service never acts
	// on it directly.
	// +kubebuilder:validation:Minimum=0
	IdleTimeoutSeconds int32 `json:"idleTimeoutSeconds,omitempty"`

	// CullingIntervalSeconds is the cadence the external culler should
	// poll this kernel at. Fixed by the gateway at creation time.
	// +kubebuilder:validation:Minimum=0
	CullingIntervalSeconds int32 `json:"cullingIntervalSeconds,omitempty"`

	// KernelConnectionConfig is the ZMQ connection info the kernel
	// process will bind to, serialized verbatim onto the CR so it can be
	// read back without re-deriving it.
	KernelConnectionConfig KernelConnectionConfig `json:"kernelConnectionConfig"`
}

// KernelConnectionConfig is the ZMQ/Jupyter wire-protocol connection
// descriptor for a kernel, as handed to the kernel process and echoed back
// to API clients.
type KernelConnectionConfig struct {
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

// KernelStatus is the observed state of a kernel, set by whatever
// controller reconciles the pod and reports it back.
type KernelStatus struct {
	// Phase mirrors the owning pod's phase. The gateway considers a
	// kernel ready exactly when this is "Running".
	Phase corev1.PodPhase `json:"phase,omitempty"`

	// IP is the pod IP once assigned, overriding the IP embedded in
	// KernelConnectionConfig when present.
	IP string `json:"ip,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status

// Kernel is the custom resource backing a single Jupyter kernel instance.
type Kernel struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   KernelSpec   `json:"spec,omitempty"`
	Status KernelStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// KernelList is a list of Kernel resources.
type KernelList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`

	Items []Kernel `json:"items"`
}
