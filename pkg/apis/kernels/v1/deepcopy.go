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

package v1

import (
	"k8s.io/apimachinery/pkg/runtime"
)

// DeepCopyInto is hand-maintained: deepcopy-gen isn't run as part of this
// build, so these mirror what it would emit for a struct this shape.
func (in *KernelConnectionConfig) DeepCopyInto(out *KernelConnectionConfig) {
	*out = *in
}

func (in *KernelConnectionConfig) DeepCopy() *KernelConnectionConfig {
	if in == nil {
		return nil
	}

	out := new(KernelConnectionConfig)
	in.DeepCopyInto(out)

	return out
}

func (in *KernelSpec) DeepCopyInto(out *KernelSpec) {
	*out = *in
	in.Template.DeepCopyInto(&out.Template)
	out.KernelConnectionConfig = in.KernelConnectionConfig
}

func (in *KernelSpec) DeepCopy() *KernelSpec {
	if in == nil {
		return nil
	}

	out := new(KernelSpec)
	in.DeepCopyInto(out)

	return out
}

func (in *KernelStatus) DeepCopyInto(out *KernelStatus) {
	*out = *in
}

func (in *KernelStatus) DeepCopy() *KernelStatus {
	if in == nil {
		return nil
	}

	out := new(KernelStatus)
	in.DeepCopyInto(out)

	return out
}

func (in *Kernel) DeepCopyInto(out *Kernel) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

func (in *Kernel) DeepCopy() *Kernel {
	if in == nil {
		return nil
	}

	out := new(Kernel)
	in.DeepCopyInto(out)

	return out
}

func (in *Kernel) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}

	return nil
}

func (in *KernelList) DeepCopyInto(out *KernelList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)

	if in.Items != nil {
		items := make([]Kernel, len(in.Items))

		for i := range in.Items {
			in.Items[i].DeepCopyInto(&items[i])
		}

		out.Items = items
	}
}

func (in *KernelList) DeepCopy() *KernelList {
	if in == nil {
		return nil
	}

	out := new(KernelList)
	in.DeepCopyInto(out)

	return out
}

func (in *KernelList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}

	return nil
}
