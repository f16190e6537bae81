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

// Package server assembles the HTTP façade: chi router, middleware
// chain, and route table, backed by pkg/manager.
package server

import (
	"context"
	"flag"
	"net/http"
	"os"
	"strings"

	chi "github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/pflag"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/trace"

	"github.com/kernelplane/kernel-gateway/pkg/server/bridge"
	"github.com/kernelplane/kernel-gateway/pkg/server/handler"
	"github.com/kernelplane/kernel-gateway/pkg/server/middleware"

	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

// Server bundles every flag-configurable concern of the façade.
type Server struct {
	// Options are server specific options e.g. listener address etc.
	Options Options

	// ZapOptions configure logging.
	ZapOptions zap.Options

	// AuthOptions configure the identity middleware (C6).
	AuthOptions middleware.AuthOptions

	allowUnauthenticatedAccess bool
}

// AddFlags registers every flag this binary exposes. The auth flags take
// their defaults from ALLOW_UNAUTHENTICATED_ACCESS and USER_IN_HEADER.
func (s *Server) AddFlags(flags *pflag.FlagSet) {
	s.Options.AddFlags(flags)
	s.ZapOptions.BindFlags(flag.CommandLine)

	allowUnauthenticatedDefault := false

	switch strings.ToLower(os.Getenv("ALLOW_UNAUTHENTICATED_ACCESS")) {
	case "true", "1", "yes", "y", "t":
		allowUnauthenticatedDefault = true
	}

	userInHeaderDefault := "X-Forwarded-User"
	if v := os.Getenv("USER_IN_HEADER"); v != "" {
		userInHeaderDefault = v
	}

	flags.BoolVar(&s.allowUnauthenticatedAccess, "allow-unauthenticated-access", allowUnauthenticatedDefault, "Skip identity header checking and treat every caller as anonymous.")
	flags.StringVar(&s.AuthOptions.UserInHeader, "user-in-header", userInHeaderDefault, "Header carrying caller identity when authentication is required.")
}

// SetupLogging installs the structured logger every other component
// reads from sigs.k8s.io/controller-runtime/pkg/log.
func (s *Server) SetupLogging() {
	log.SetLogger(zap.New(zap.UseFlagOptions(&s.ZapOptions)))
}

// SetupOpenTelemetry adds a span processor that prints root spans to the
// logs by default, and optionally ships spans to an OTLP listener.
func (s *Server) SetupOpenTelemetry(ctx context.Context) error {
	otel.SetLogger(log.Log)

	opts := []trace.TracerProviderOption{
		trace.WithSpanProcessor(&middleware.LoggingSpanProcessor{}),
	}

	if s.Options.OTLPEndpoint != "" {
		exporter, err := otlptracehttp.New(ctx,
			otlptracehttp.WithEndpoint(s.Options.OTLPEndpoint),
			otlptracehttp.WithInsecure(),
		)
		if err != nil {
			return err
		}

		opts = append(opts, trace.WithBatcher(exporter))
	}

	otel.SetTracerProvider(trace.NewTracerProvider(opts...))

	return nil
}

// GetServer builds the *http.Server, wiring every route named in
// SPEC_FULL.md §C.4.5 against mgr.
func (s *Server) GetServer(mgr handler.Manager, connector bridge.ChannelConnectorFactory) (*http.Server, error) {
	s.AuthOptions.AllowUnauthenticatedAccess = s.allowUnauthenticatedAccess
	if s.AuthOptions.UserInHeader == "" {
		s.AuthOptions.UserInHeader = "X-Forwarded-User"
	}

	openapi, err := middleware.NewOpenAPI()
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.CORS)
	router.Use(middleware.Auth(s.AuthOptions))
	router.NotFound(http.HandlerFunc(handler.NotFound))
	router.MethodNotAllowed(http.HandlerFunc(handler.MethodNotAllowed))

	h := handler.New(mgr)
	b := bridge.New(mgr, connector)

	// The request timeout applies to every route except the channels
	// WebSocket bridge, which is long-lived by design (see Options.RequestTimeout).
	router.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(s.Options.RequestTimeout))

		r.Get("/health", h.Health)
		r.Get("/api/kernelspecs", h.KernelSpecs)
		r.Get("/api/kernels", h.ListKernels)
		r.Post("/api/kernels", h.CreateKernel)
		r.Delete("/api/kernels", h.BatchDeleteKernels)
		r.Get("/api/kernels/{kernel_id:\\w+-\\w+-\\w+-\\w+-\\w+}", h.GetKernel)
		r.Delete("/api/kernels/{kernel_id:\\w+-\\w+-\\w+-\\w+-\\w+}", h.DeleteKernel)
		r.Get("/api/swagger.yaml", openapi.ServeYAML)
		r.Get("/api/docs", openapi.ServeDocs)
	})

	router.Get("/api/kernels/{kernel_id:\\w+-\\w+-\\w+-\\w+-\\w+}/channels", b.Connect)

	// --port accepts a bare port number as well as a full listen address.
	addr := s.Options.ListenAddress
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	server := &http.Server{
		Addr:              addr,
		ReadTimeout:       s.Options.ReadTimeout,
		ReadHeaderTimeout: s.Options.ReadHeaderTimeout,
		WriteTimeout:      s.Options.WriteTimeout,
		Handler:           router,
	}

	return server, nil
}
