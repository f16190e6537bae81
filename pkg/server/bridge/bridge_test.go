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

package bridge_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kernelplane/kernel-gateway/pkg/kernel"
	"github.com/kernelplane/kernel-gateway/pkg/server/bridge"
)

type fakeManager struct {
	view *kernel.KernelView
	err  error
}

func (m *fakeManager) Get(_ context.Context, _, _ string) (*kernel.KernelView, error) {
	return m.view, m.err
}

func newTestRouter(b *bridge.Bridge) http.Handler {
	router := chi.NewRouter()
	router.Get("/api/kernels/{kernel_id}/channels", b.Connect)

	return router
}

func TestConnectNotFound(t *testing.T) {
	manager := &fakeManager{err: kernel.ErrKernelNotFound}
	b := bridge.New(manager, func(*kernel.KernelView, string) bridge.ChannelConnector { return nil })

	server := httptest.NewServer(newTestRouter(b))
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/kernels/abc-def-012-345-678/channels")
	require.NoError(t, err)

	defer resp.Body.Close() //nolint:errcheck

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "text/plain", resp.Header.Get("Content-Type"))
}

func TestConnectNotReady(t *testing.T) {
	manager := &fakeManager{view: nil, err: nil}
	b := bridge.New(manager, func(*kernel.KernelView, string) bridge.ChannelConnector { return nil })

	server := httptest.NewServer(newTestRouter(b))
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/kernels/abc-def-012-345-678/channels")
	require.NoError(t, err)

	defer resp.Body.Close() //nolint:errcheck

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

type fakeConnector struct {
	prepared bool
	served   chan struct{}
}

func (c *fakeConnector) Prepare(_ context.Context) error {
	c.prepared = true
	return nil
}

func (c *fakeConnector) Serve(_ context.Context, conn *websocket.Conn) error {
	close(c.served)
	return conn.Close()
}

func TestConnectUpgradesAndServes(t *testing.T) {
	connector := &fakeConnector{served: make(chan struct{})}
	manager := &fakeManager{view: &kernel.KernelView{KernelPayload: kernel.KernelPayload{KernelID: "abc-def-012-345-678"}, Ready: true}}

	b := bridge.New(manager, func(view *kernel.KernelView, sessionID string) bridge.ChannelConnector {
		assert.Equal(t, "abc-def-012-345-678", view.KernelID)
		assert.Equal(t, "sess-1", sessionID)

		return connector
	})

	server := httptest.NewServer(newTestRouter(b))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/kernels/abc-def-012-345-678/channels?session_id=sess-1"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	defer conn.Close() //nolint:errcheck

	<-connector.served

	assert.True(t, connector.prepared)
}
