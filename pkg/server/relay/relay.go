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

// Package relay provides the default bridge.ChannelConnector: a byte-level
// proxy between a client's WebSocket and the kernel's shell port. It
// intentionally does not speak the Jupyter wire protocol's multipart ZMQ
// framing, HMAC signing, or channel multiplexing (shell/iopub/stdin/
// control/heartbeat) — that framing is the channel bridge's own concern
// per the system overview, external to this gateway. Deployments that
// need the full multi-channel relay swap this connector for one that does.
package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/gorilla/websocket"

	"github.com/kernelplane/kernel-gateway/pkg/kernel"
	"github.com/kernelplane/kernel-gateway/pkg/server/bridge"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// Connector dials a kernel's shell port on Prepare and pumps bytes
// between it and the WebSocket on Serve.
type Connector struct {
	info      kernel.ConnectionInfo
	sessionID string
	conn      net.Conn
	dial      func(network, address string) (net.Conn, error)
}

// NewConnector is a bridge.ChannelConnectorFactory.
func NewConnector(view *kernel.KernelView, sessionID string) bridge.ChannelConnector {
	return &Connector{
		info:      view.KernelConnectionInfo,
		sessionID: sessionID,
		dial:      net.Dial,
	}
}

// Prepare opens the upstream connection to the kernel's shell channel.
func (c *Connector) Prepare(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", c.info.IP, c.info.ShellPort)

	conn, err := c.dial(c.info.Transport, address)
	if err != nil {
		return fmt.Errorf("failed to dial kernel shell channel at %s: %w", address, err)
	}

	c.conn = conn

	return nil
}

// Serve pumps bytes bidirectionally between conn and the upstream kernel
// connection until either side closes or ctx is canceled.
func (c *Connector) Serve(ctx context.Context, conn *websocket.Conn) error {
	if c.conn == nil {
		return fmt.Errorf("channel connector used without Prepare")
	}

	defer c.conn.Close() //nolint:errcheck

	logger := log.FromContext(ctx).WithValues("kernelId", c.info.KernelID, "sessionId", c.sessionID)

	errs := make(chan error, 2)

	go func() {
		errs <- c.pumpFromKernel(conn)
	}()

	go func() {
		errs <- c.pumpToKernel(conn)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errs:
		if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			logger.Info("channel relay ended", "reason", err.Error())
		}

		return err
	}
}

// pumpFromKernel reads from the upstream kernel connection and forwards
// each chunk to the client as a binary WebSocket message.
func (c *Connector) pumpFromKernel(conn *websocket.Conn) error {
	buf := make([]byte, 4096)

	for {
		n, err := c.conn.Read(buf)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			return err
		}

		if err := conn.WriteMessage(websocket.BinaryMessage, buf[:n]); err != nil {
			return err
		}
	}
}

// pumpToKernel reads WebSocket messages from the client and forwards
// their payload to the upstream kernel connection.
func (c *Connector) pumpToKernel(conn *websocket.Conn) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		if _, err := c.conn.Write(data); err != nil {
			return err
		}
	}
}
