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

// Package k8sclient constructs the Kubernetes client this service issues
// every Kernel CR operation through.
package k8sclient

import (
	"context"
	"fmt"

	kernelsv1 "github.com/kernelplane/kernel-gateway/pkg/apis/kernels/v1"

	"k8s.io/apimachinery/pkg/runtime"
	kubernetesscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"sigs.k8s.io/controller-runtime/pkg/cache"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// ErrClientInitialization is returned when neither in-cluster credentials
// nor a local kubeconfig could be resolved.
type ErrClientInitialization struct {
	InClusterError  error
	KubeconfigError error
}

func (e *ErrClientInitialization) Error() string {
	return fmt.Sprintf("unable to resolve kubernetes credentials: in-cluster: %s, kubeconfig: %s", e.InClusterError, e.KubeconfigError)
}

// resolveConfig attempts in-cluster credentials first, the way a pod
// running under Kubernetes would expect to authenticate, and falls back to
// the caller's local kubeconfig when that fails (e.g. running the gateway
// outside the cluster during development).
func resolveConfig() (*rest.Config, error) {
	inClusterConfig, inClusterErr := rest.InClusterConfig()
	if inClusterErr == nil {
		return inClusterConfig, nil
	}

	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()

	kubeconfig, kubeconfigErr := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, &clientcmd.ConfigOverrides{}).ClientConfig()
	if kubeconfigErr != nil {
		return nil, &ErrClientInitialization{InClusterError: inClusterErr, KubeconfigError: kubeconfigErr}
	}

	return kubeconfig, nil
}

// New returns a controller-runtime caching client initialized with core and
// Kernel CR types for typed operation against the cluster.
func New(ctx context.Context) (client.Client, error) {
	config, err := resolveConfig()
	if err != nil {
		return nil, err
	}

	scheme := runtime.NewScheme()

	if err := kubernetesscheme.AddToScheme(scheme); err != nil {
		return nil, err
	}

	if err := kernelsv1.AddToScheme(scheme); err != nil {
		return nil, err
	}

	kernelCache, err := cache.New(config, cache.Options{Scheme: scheme})
	if err != nil {
		return nil, err
	}

	go func() {
		_ = kernelCache.Start(ctx)
	}()

	c, err := client.New(config, client.Options{Scheme: scheme})
	if err != nil {
		return nil, err
	}

	input := client.NewDelegatingClientInput{
		CacheReader: kernelCache,
		Client:      c,
	}

	return client.NewDelegatingClient(input)
}
