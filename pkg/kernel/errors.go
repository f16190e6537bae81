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

import "errors"

// The sentinel errors below are the kernel-domain taxonomy. The Python
// source this service replaces modeled these as a class hierarchy
// (KernelExistsError is-a KernelCreationError, etc); per the redesign this
// service's callers switch on the exact sentinel via errors.Is rather than
// relying on hierarchy, so the relationships aren't reproduced here.
var (
	// ErrKernelExists is returned when creating a kernel whose CR already
	// exists (Kubernetes 409).
	ErrKernelExists = errors.New("kernel already exists")

	// ErrKernelResourceQuotaExceeded is returned when kernel creation is
	// forbidden because it would exceed a resource quota (Kubernetes 403
	// whose message contains "exceeded quota").
	ErrKernelResourceQuotaExceeded = errors.New("kernel creation is forbidden: resource quota exceeded")

	// ErrKernelForbidden is returned when kernel creation is forbidden
	// for any other reason (Kubernetes 403).
	ErrKernelForbidden = errors.New("kernel creation is forbidden")

	// ErrKernelCreation is returned when kernel creation fails for a
	// reason other than the above (any other non-2xx).
	ErrKernelCreation = errors.New("error creating kernel")

	// ErrKernelRetrieve is returned when listing or getting kernels
	// fails.
	ErrKernelRetrieve = errors.New("error getting kernel")

	// ErrKernelNotFound is returned when a kernel lookup by ID finds
	// nothing (a KernelRetrieve failure specific to an empty result).
	ErrKernelNotFound = errors.New("kernel not found")

	// ErrKernelDelete is returned when deleting a kernel CR fails for a
	// reason other than it already being absent.
	ErrKernelDelete = errors.New("error deleting kernel")

	// ErrKernelWaitReadyTimeout is returned when a kernel does not reach
	// the ready state within its creation wait window.
	ErrKernelWaitReadyTimeout = errors.New("kernel wait for ready timeout")

	// ErrSchemaMapping is returned when a Kernel CR cannot be mapped to
	// or from its API representation, e.g. a required label is missing.
	ErrSchemaMapping = errors.New("kernel schema mapping error")
)
