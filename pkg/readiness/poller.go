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

// Package readiness polls a kernel until it's running, times out, or a
// retrieval error makes the wait pointless.
package readiness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kernelplane/kernel-gateway/pkg/kernel"
	"github.com/kernelplane/kernel-gateway/pkg/util/retry"
)

// pollPeriod is the fixed cadence kernels are polled for readiness at.
const pollPeriod = time.Second

// Getter is the subset of kernelclient.Client this package depends on.
type Getter interface {
	GetByID(ctx context.Context, kernelID, namespace string) (*kernel.KernelView, error)
}

// errNotReady signals the retry loop to keep polling; it never escapes
// Wait.
var errNotReady = errors.New("kernel not yet ready")

// Wait polls getter at a 1-second cadence until the named kernel reports
// ready, the timeout elapses, or a retrieval error occurs.
//
// A timeout is not itself an error: it returns (false, nil) so callers
// can decide how to react (e.g. raise their own
// ErrKernelWaitReadyTimeout). A retrieval error is fatal to the wait and
// is returned wrapped in kernel.ErrKernelRetrieve.
func Wait(ctx context.Context, getter Getter, kernelID, namespace string, timeout time.Duration) (bool, error) {
	var (
		ready bool
		fatal error
	)

	poll := func() error {
		view, err := getter.GetByID(ctx, kernelID, namespace)
		if err != nil {
			fatal = err
			return nil
		}

		if view.Ready {
			ready = true
			return nil
		}

		return errNotReady
	}

	err := retry.WithContext(ctx).WithTimeout(timeout).WithPeriod(pollPeriod).Do(poll)

	if fatal != nil {
		return false, fmt.Errorf("%w: %w", kernel.ErrKernelRetrieve, fatal)
	}

	if ready {
		return true, nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false, nil
	}

	return false, err
}
