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

// Package bridge implements the WebSocket channel endpoint (C7): it
// resolves a kernel, upgrades the connection, and hands off to whatever
// ZMQ/WebSocket relay the deployment wires in as a ChannelConnector —
// this package only owns the handshake, not the message protocol.
package bridge

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/kernelplane/kernel-gateway/pkg/kernel"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// Manager is the subset of *manager.Manager the bridge depends on.
type Manager interface {
	Get(ctx context.Context, kernelID, namespace string) (*kernel.KernelView, error)
}

// ChannelConnector relays messages between a client WebSocket connection
// and a kernel's ZMQ channels for as long as ctx is valid. This module
// never implements one itself: it's the external collaborator named in
// the system overview.
type ChannelConnector interface {
	Serve(ctx context.Context, conn *websocket.Conn) error
}

// Preparer is implemented by a ChannelConnector that needs a setup step
// (e.g. opening ZMQ sockets) before Serve is called.
type Preparer interface {
	Prepare(ctx context.Context) error
}

// ChannelConnectorFactory builds the ChannelConnector for one
// connection, given the resolved kernel and the caller's session id (""
// if none was supplied).
type ChannelConnectorFactory func(view *kernel.KernelView, sessionID string) ChannelConnector

// Bridge upgrades channel requests and dispatches to a ChannelConnector.
type Bridge struct {
	manager   Manager
	connector ChannelConnectorFactory
	upgrader  websocket.Upgrader
}

// New returns a Bridge backed by manager, building connectors with factory.
func New(manager Manager, factory ChannelConnectorFactory) *Bridge {
	return &Bridge{
		manager:   manager,
		connector: factory,
		upgrader:  websocket.Upgrader{},
	}
}

// writePlainError renders status/message as plain text, matching the
// original source's write_error (not the JSON envelope the rest of the
// façade uses).
func writePlainError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(message))
}

// Connect handles GET /api/kernels/{kernel_id}/channels.
func (b *Bridge) Connect(w http.ResponseWriter, r *http.Request) {
	kernelID := chi.URLParam(r, "kernel_id")
	ns := r.URL.Query().Get("namespace")

	view, err := b.manager.Get(r.Context(), kernelID, ns)
	if err != nil {
		if errors.Is(err, kernel.ErrKernelNotFound) {
			writePlainError(w, http.StatusNotFound, "Kernel not found: "+kernelID)
			return
		}

		writePlainError(w, http.StatusInternalServerError, "Get kernel error: "+kernelID)

		return
	}

	if view == nil {
		writePlainError(w, http.StatusInternalServerError, "Kernel not ready: "+kernelID)
		return
	}

	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.FromContext(r.Context()).Error(err, "failed to upgrade to websocket", "kernelId", kernelID)
		return
	}

	// The relay must outlive the HTTP handler's request context, which
	// is canceled the instant this function returns.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	defer conn.Close() //nolint:errcheck

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		log.FromContext(r.Context()).Info("no session id specified", "kernelId", kernelID)
	}

	connector := b.connector(view, sessionID)

	if preparer, ok := connector.(Preparer); ok {
		if err := preparer.Prepare(ctx); err != nil {
			log.FromContext(r.Context()).Error(err, "channel connector prepare failed", "kernelId", kernelID)
			return
		}
	}

	if err := connector.Serve(ctx, conn); err != nil {
		log.FromContext(r.Context()).Error(err, "channel bridge ended", "kernelId", kernelID)
	}
}
