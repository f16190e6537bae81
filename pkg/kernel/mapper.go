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
	"strconv"
	"time"

	kernelsv1 "github.com/kernelplane/kernel-gateway/pkg/apis/kernels/v1"
	"github.com/kernelplane/kernel-gateway/pkg/constants"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// lastActivityTimeLayout is the annotation's on-wire timestamp format:
// seconds with microsecond precision, always UTC, no timezone suffix
// stored (time.Parse reads a zone-less value as UTC).
const lastActivityTimeLayout = "2006-01-02 15:04:05.000000"

// cullingIntervalSeconds is fixed: this service doesn't expose culling
// cadence as a caller-tunable knob.
const cullingIntervalSeconds = 60

// containerName is the name every kernel container is given.
const containerName = "ipykernel"

// kernelCommand is the fixed entrypoint every kernel container runs.
var kernelCommand = []string{"python", "-m", "ipykernel", "-f", "$(KERNEL_CONNECTION_FILE_PATH)"}

// ResourceName returns the CR name a payload would be created/looked up
// under: "<spec-name>-<kernel-id>".
func (p KernelPayload) ResourceName() string {
	return fmt.Sprintf("%s-%s", p.KernelSpecName, p.KernelID)
}

// envVars renders the payload's KERNEL_-prefixed fields as container
// environment variables, in field-declaration order, matching the
// original source's "env var per KERNEL_* field" rule. kernel_volumes,
// kernel_volume_mounts and kernel_idle_timeout are scalar-folded to
// strings (JSON-encoded for the two lists) so they survive as valid
// corev1.EnvVar values.
func (p KernelPayload) envVars() ([]corev1.EnvVar, error) {
	volumes, err := json.Marshal(p.KernelVolumes)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding kernel_volumes: %w", ErrSchemaMapping, err)
	}

	volumeMounts, err := json.Marshal(p.KernelVolumeMounts)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding kernel_volume_mounts: %w", ErrSchemaMapping, err)
	}

	return []corev1.EnvVar{
		{Name: "KERNEL_ID", Value: p.KernelID},
		{Name: "KERNEL_SPEC_NAME", Value: string(p.KernelSpecName)},
		{Name: "KERNEL_WORKING_DIR", Value: p.KernelWorkingDir},
		{Name: "KERNEL_NAMESPACE", Value: p.KernelNamespace},
		{Name: "KERNEL_VOLUMES", Value: string(volumes)},
		{Name: "KERNEL_VOLUME_MOUNTS", Value: string(volumeMounts)},
		{Name: "KERNEL_IDLE_TIMEOUT", Value: strconv.Itoa(int(p.KernelIdleTimeout))},
		{Name: "KERNEL_IMAGE", Value: p.KernelImage},
	}, nil
}

func decodeObjectList[T any](raw RawObjectList) ([]T, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	out := make([]T, 0, len(raw))

	for _, obj := range raw {
		data, err := json.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSchemaMapping, err)
		}

		var decoded T
		if err := json.Unmarshal(data, &decoded); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSchemaMapping, err)
		}

		out = append(out, decoded)
	}

	return out, nil
}

// ToCustomResource builds the Kernel CR document for a create request.
// It is pure: no I/O, no partial population on error. The kernel-manager
// label is set to the same "<spec>-<id>" value as the CR's own name, per
// the original source's convention.
func ToCustomResource(payload KernelPayload) (*kernelsv1.Kernel, error) {
	if err := payload.KernelSpecName.Validate(); err != nil {
		return nil, err
	}

	env, err := payload.envVars()
	if err != nil {
		return nil, err
	}

	volumes, err := decodeObjectList[corev1.Volume](payload.KernelVolumes)
	if err != nil {
		return nil, err
	}

	volumeMounts, err := decodeObjectList[corev1.VolumeMount](payload.KernelVolumeMounts)
	if err != nil {
		return nil, err
	}

	cr := &kernelsv1.Kernel{
		TypeMeta: metav1.TypeMeta{
			APIVersion: kernelsv1.Group,
			Kind:       kernelsv1.KernelKind,
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      payload.ResourceName(),
			Namespace: payload.KernelNamespace,
			Labels: map[string]string{
				constants.KernelIDLabel:          payload.KernelID,
				constants.KernelManagerNameLabel: payload.ResourceName(),
				constants.KernelSpecNameLabel:    string(payload.KernelSpecName),
			},
		},
		Spec: kernelsv1.KernelSpec{
			IdleTimeoutSeconds:     int32(payload.KernelIdleTimeout),
			CullingIntervalSeconds: cullingIntervalSeconds,
			KernelConnectionConfig: kernelsv1.KernelConnectionConfig(payload.KernelConnectionInfo),
			Template: corev1.PodTemplateSpec{
				Spec: corev1.PodSpec{
					RestartPolicy: corev1.RestartPolicyNever,
					Volumes:       volumes,
					Containers: []corev1.Container{
						{
							Name:         containerName,
							Image:        payload.KernelImage,
							Command:      append([]string(nil), kernelCommand...),
							Env:          env,
							VolumeMounts: volumeMounts,
							WorkingDir:   payload.KernelWorkingDir,
						},
					},
				},
			},
		},
	}

	return cr, nil
}

func encodeObjectList[T any](items []T) (RawObjectList, error) {
	if len(items) == 0 {
		return RawObjectList{}, nil
	}

	out := make(RawObjectList, 0, len(items))

	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSchemaMapping, err)
		}

		var decoded map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSchemaMapping, err)
		}

		out = append(out, decoded)
	}

	return out, nil
}

// FromCustomResource materializes a KernelView from a Kernel CR, the
// inverse of ToCustomResource. It requires the kernel-id label and at
// least one container to be present, and fails on a malformed
// last-activity annotation; anything else missing degrades gracefully
// the way the Python source's model_validate does.
func FromCustomResource(cr *kernelsv1.Kernel) (*KernelView, error) {
	kernelID, ok := cr.Labels[constants.KernelIDLabel]
	if !ok || kernelID == "" {
		return nil, fmt.Errorf("%w: custom resource %s/%s is missing the %s label", ErrSchemaMapping, cr.Namespace, cr.Name, constants.KernelIDLabel)
	}

	if len(cr.Spec.Template.Spec.Containers) == 0 {
		return nil, fmt.Errorf("%w: custom resource %s/%s has no containers", ErrSchemaMapping, cr.Namespace, cr.Name)
	}

	container := cr.Spec.Template.Spec.Containers[0]

	volumes, err := encodeObjectList(cr.Spec.Template.Spec.Volumes)
	if err != nil {
		return nil, err
	}

	volumeMounts, err := encodeObjectList(container.VolumeMounts)
	if err != nil {
		return nil, err
	}

	connectionInfo := ConnectionInfo(cr.Spec.KernelConnectionConfig)
	if cr.Status.IP != "" {
		connectionInfo.IP = cr.Status.IP
	}

	view := &KernelView{
		KernelPayload: KernelPayload{
			KernelID:             kernelID,
			KernelSpecName:       KernelSpecName(cr.Labels[constants.KernelSpecNameLabel]),
			KernelWorkingDir:     container.WorkingDir,
			KernelNamespace:      cr.Namespace,
			KernelVolumes:        volumes,
			KernelVolumeMounts:   volumeMounts,
			KernelIdleTimeout:    IdleTimeoutSeconds(cr.Spec.IdleTimeoutSeconds),
			KernelConnectionInfo: connectionInfo,
			KernelImage:          container.Image,
		},
		KernelName: cr.Name,
		Ready:      cr.Status.Phase == corev1.PodRunning,
	}

	lastActivity, err := lastActivityTime(cr)
	if err != nil {
		return nil, err
	}

	view.KernelLastActivityTime = lastActivity

	return view, nil
}

// lastActivityTime resolves the kernel-last-activity-time annotation, or
// falls back to the CR's creation timestamp when the annotation is
// absent, per the Python source's model_validate.
func lastActivityTime(cr *kernelsv1.Kernel) (*string, error) {
	raw, ok := cr.Annotations[constants.KernelLastActivityAnnotation]
	if !ok {
		if cr.CreationTimestamp.IsZero() {
			return nil, nil
		}

		formatted := cr.CreationTimestamp.UTC().Format(time.RFC3339Nano)

		return &formatted, nil
	}

	parsed, err := time.Parse(lastActivityTimeLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s annotation %q: %w", ErrSchemaMapping, constants.KernelLastActivityAnnotation, raw, err)
	}

	formatted := parsed.UTC().Format(time.RFC3339Nano)

	return &formatted, nil
}
