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

package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/kernelplane/kernel-gateway/pkg/constants"
	"github.com/kernelplane/kernel-gateway/pkg/k8sclient"
	"github.com/kernelplane/kernel-gateway/pkg/kernelclient"
	"github.com/kernelplane/kernel-gateway/pkg/manager"
	"github.com/kernelplane/kernel-gateway/pkg/server"
	"github.com/kernelplane/kernel-gateway/pkg/server/relay"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// start is the entry point to the gateway. A non-nil error means startup
// or serving failed and the process should exit non-zero; a clean
// shutdown (SIGTERM) returns nil.
func start() error {
	srv := &server.Server{}
	srv.AddFlags(pflag.CommandLine)

	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	pflag.Parse()

	srv.SetupLogging()

	logger := log.Log.WithName(constants.Application)

	logger.Info("service starting", "application", constants.Application, "version", constants.Version, "revision", constants.Revision)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := srv.SetupOpenTelemetry(ctx); err != nil {
		logger.Error(err, "failed to set up telemetry")
		return err
	}

	kubeClient, err := k8sclient.New(ctx)
	if err != nil {
		logger.Error(err, "failed to create kubernetes client")
		return err
	}

	kernelClient := kernelclient.New(kubeClient)
	mgr := manager.New(kernelClient)

	httpServer, err := srv.GetServer(mgr, relay.NewConnector)
	if err != nil {
		logger.Error(err, "failed to build server")
		return err
	}

	stop := make(chan os.Signal, 1)

	signal.Notify(stop, syscall.SIGTERM)

	go func() {
		<-stop

		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error(err, "server shutdown error")
		}
	}()

	if err := httpServer.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		logger.Error(err, "unexpected server error")

		return err
	}

	return nil
}

func main() {
	if err := start(); err != nil {
		os.Exit(1)
	}
}
