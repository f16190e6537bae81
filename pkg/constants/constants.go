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

package constants

import (
	"fmt"
	"os"
	"path"
)

var (
	// Application is the application name.
	//nolint:gochecknoglobals
	Application = path.Base(os.Args[0])

	// Version is the application version set via the Makefile.
	//nolint:gochecknoglobals
	Version string

	// Revision is the git revision set via the Makefile.
	//nolint:gochecknoglobals
	Revision string
)

// VersionString returns a canonical version string, suitable for use as a
// User-Agent when this service ever has to call out to others.
func VersionString() string {
	return fmt.Sprintf("%s/%s (revision/%s)", Application, Version, Revision)
}

const (
	// KernelIDLabel identifies the kernel ID a Kernel CR belongs to. Set
	// on create, never mutated, and used as the label selector for every
	// by-ID lookup and delete.
	KernelIDLabel = "jupyter.org/kernel-id"

	// KernelManagerNameLabel is set to the Kernel CR's own name
	// ("<spec-name>-<kernel-id>"). Informational only; nothing in this
	// service selects on it.
	KernelManagerNameLabel = "jupyter.org/kernelmanager-name"

	// KernelSpecNameLabel records the kernel spec name (e.g. "python")
	// the CR was created with.
	KernelSpecNameLabel = "jupyter.org/kernel-spec-name"

	// KernelLastActivityAnnotation stores the last-observed kernel
	// activity time, formatted "2006-01-02 15:04:05.000000" UTC.
	KernelLastActivityAnnotation = "jupyter.org/kernel-last-activity-time"
)
