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

// Package errors is the HTTP façade's error envelope: it turns the
// kernel package's taxonomy (or anything else a handler returns) into
// the {reason, message, traceback?} JSON body and status code the
// façade promises its callers.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/kernelplane/kernel-gateway/pkg/kernel"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// ErrRequest is the root sentinel every HTTPError unwraps to.
var ErrRequest = errors.New("request error")

// HTTPError carries everything needed to write the façade's standard
// error response and to log enough detail to debug it server-side.
type HTTPError struct {
	status    int
	reason    string
	message   string
	err       error
	values    []interface{}
	traceback string
}

func newHTTPError(status int, reason, message string) *HTTPError {
	return &HTTPError{status: status, reason: reason, message: message}
}

// WithError augments the error with an underlying cause, logged but
// never leaked to the client unless traceback reporting is enabled.
func (e *HTTPError) WithError(err error) *HTTPError {
	e.err = err
	return e
}

// WithValues augments the error with additional key/value pairs for
// server-side logging only.
func (e *HTTPError) WithValues(values ...interface{}) *HTTPError {
	e.values = values
	return e
}

// WithTraceback attaches a stack trace to the response body. Only used
// for errors this service didn't itself classify (§7: "tracebacks are
// included only for non-HTTP exceptions").
func (e *HTTPError) WithTraceback() *HTTPError {
	e.traceback = string(debug.Stack())
	return e
}

// Unwrap implements Go 1.13 errors.
func (e *HTTPError) Unwrap() error {
	return ErrRequest
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return e.message
}

type errorBody struct {
	Reason    string `json:"reason"`
	Message   string `json:"message"`
	Traceback string `json:"traceback,omitempty"`
}

// Write renders the error to the client and logs the full detail
// server-side.
func (e *HTTPError) Write(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context())

	var details []interface{}

	if e.message != "" {
		details = append(details, "message", e.message)
	}

	if e.err != nil {
		details = append(details, "error", e.err)
	}

	details = append(details, e.values...)

	logger.Info("request failed", details...)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.status)

	body, err := json.Marshal(errorBody{Reason: e.reason, Message: e.message, Traceback: e.traceback})
	if err != nil {
		logger.Error(err, "failed to marshal error response")
		return
	}

	if _, err := w.Write(body); err != nil {
		logger.Error(err, "failed to write error response")
	}
}

// The constructors below cover the façade's own validation/auth errors;
// kernel-domain errors are produced by classify, below.

func HTTPBadRequest(message string) *HTTPError {
	return newHTTPError(http.StatusBadRequest, "invalid_request", message)
}

func HTTPUnprocessableEntity(message string) *HTTPError {
	return newHTTPError(http.StatusUnprocessableEntity, "invalid_request", message)
}

func HTTPForbidden(message string) *HTTPError {
	return newHTTPError(http.StatusForbidden, "forbidden", message)
}

func HTTPNotFound(message string) *HTTPError {
	return newHTTPError(http.StatusNotFound, "not_found", message)
}

func HTTPMethodNotAllowed() *HTTPError {
	return newHTTPError(http.StatusMethodNotAllowed, "method_not_allowed", "the requested method was not allowed")
}

func HTTPInternalServerError(message string) *HTTPError {
	return newHTTPError(http.StatusInternalServerError, "internal_error", message)
}

// IsHTTPNotFound reports whether err renders as a 404.
func IsHTTPNotFound(err error) bool {
	var httpError *HTTPError

	return errors.As(err, &httpError) && httpError.status == http.StatusNotFound
}

// classify maps the kernel taxonomy to the façade's error response per
// SPEC_FULL.md §C.7. Anything it doesn't recognize becomes a 500 with a
// traceback attached, since it wasn't one of this service's own
// classified conditions.
func classify(err error) *HTTPError {
	switch {
	case errors.Is(err, kernel.ErrKernelExists):
		return newHTTPError(http.StatusConflict, "kernel_exists", err.Error())
	case errors.Is(err, kernel.ErrKernelResourceQuotaExceeded):
		return newHTTPError(http.StatusForbidden, "resource_quota_exceeded", err.Error())
	case errors.Is(err, kernel.ErrKernelForbidden):
		// Not the quota case (that's ErrKernelResourceQuotaExceeded above):
		// the API server rejected the request because this service's own
		// service account lacks permission, which is a misconfiguration
		// of the deployment, not something the caller can fix.
		return newHTTPError(http.StatusInternalServerError, "forbidden", err.Error())
	case errors.Is(err, kernel.ErrKernelNotFound):
		return newHTTPError(http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, kernel.ErrKernelRetrieve):
		return newHTTPError(http.StatusInternalServerError, "retrieve_error", err.Error())
	case errors.Is(err, kernel.ErrKernelCreation):
		return newHTTPError(http.StatusInternalServerError, "creation_error", err.Error())
	case errors.Is(err, kernel.ErrKernelDelete):
		return newHTTPError(http.StatusInternalServerError, "delete_error", err.Error())
	case errors.Is(err, kernel.ErrKernelWaitReadyTimeout):
		return newHTTPError(http.StatusInternalServerError, "wait_ready_timeout", err.Error())
	case errors.Is(err, kernel.ErrSchemaMapping):
		// A malformed CR in the cluster (e.g. missing the kernel-id label)
		// is this service's own bug, not a bad client request.
		return newHTTPError(http.StatusInternalServerError, "schema_mapping_error", err.Error())
	default:
		return nil
	}
}

// toHTTPError unwraps err to an *HTTPError if one is present anywhere in
// its chain.
func toHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	return nil
}

// HandleError is the top-level error handler every façade handler calls
// on failure.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if httpError := toHTTPError(err); httpError != nil {
		httpError.Write(w, r)
		return
	}

	if httpError := classify(err); httpError != nil {
		httpError.Write(w, r)
		return
	}

	log.FromContext(r.Context()).Error(err, "unhandled error")

	newHTTPError(http.StatusInternalServerError, "internal_error", fmt.Sprintf("unhandled error: %s", err)).WithError(err).WithTraceback().Write(w, r)
}
