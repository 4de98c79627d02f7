// Copyright 2026 The Spool Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package tracing wires an OpenTelemetry tracer around command
// invocations. Tracing is off unless an exporter is configured, so the
// common path adds no overhead.
package tracing

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Environment variables controlling the exporter selection.
const (
	// EndpointEnvVar names an OTLP/HTTP collector endpoint.
	EndpointEnvVar = "SPOOL_TRACE_ENDPOINT"

	// ConsoleEnvVar set to a truthy value dumps spans to stderr.
	ConsoleEnvVar = "SPOOL_TRACE_CONSOLE"

	// InsecureEnvVar disables TLS on the OTLP exporter, for local
	// collectors.
	InsecureEnvVar = "SPOOL_TRACE_INSECURE"
)

// Options configure span export.
type Options struct {
	// ServiceName identifies the process in exported spans.
	ServiceName string

	// ServiceVersion is the host application version.
	ServiceVersion string

	// Endpoint is an OTLP/HTTP collector (host:port). Empty disables
	// network export.
	Endpoint string

	// Insecure disables TLS on the OTLP exporter.
	Insecure bool

	// ConsoleWriter, when non-nil, receives pretty-printed spans.
	ConsoleWriter io.Writer
}

// FromEnv derives Options from the environment.
func FromEnv(serviceName, serviceVersion string) Options {
	opts := Options{
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
		Endpoint:       os.Getenv(EndpointEnvVar),
	}
	switch os.Getenv(ConsoleEnvVar) {
	case "1", "true", "yes":
		opts.ConsoleWriter = os.Stderr
	}
	switch os.Getenv(InsecureEnvVar) {
	case "1", "true", "yes":
		opts.Insecure = true
	}
	return opts
}

// Setup builds a tracer and its shutdown hook. With no exporter
// configured it returns a no-op tracer and a nil-safe shutdown.
func Setup(ctx context.Context, opts Options) (trace.Tracer, func(context.Context) error, error) {
	var exporters []sdktrace.SpanExporter

	if opts.Endpoint != "" {
		exp, err := newOTLPExporter(ctx, opts)
		if err != nil {
			return nil, nil, err
		}
		exporters = append(exporters, exp)
	}
	if opts.ConsoleWriter != nil {
		exp, err := stdouttrace.New(
			stdouttrace.WithWriter(opts.ConsoleWriter),
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("create console exporter: %w", err)
		}
		exporters = append(exporters, exp)
	}

	if len(exporters) == 0 {
		return noop.NewTracerProvider().Tracer(opts.ServiceName),
			func(context.Context) error { return nil },
			nil
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(opts.ServiceName),
		semconv.ServiceVersion(opts.ServiceVersion),
	))
	if err != nil {
		return nil, nil, fmt.Errorf("build resource: %w", err)
	}

	providerOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	for _, exp := range exporters {
		providerOpts = append(providerOpts, sdktrace.WithBatcher(exp))
	}
	provider := sdktrace.NewTracerProvider(providerOpts...)

	return provider.Tracer(opts.ServiceName), provider.Shutdown, nil
}

func newOTLPExporter(ctx context.Context, opts Options) (sdktrace.SpanExporter, error) {
	expOpts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(opts.Endpoint),
	}
	if opts.Insecure {
		expOpts = append(expOpts, otlptracehttp.WithInsecure())
	} else {
		expOpts = append(expOpts, otlptracehttp.WithTLSClientConfig(&tls.Config{
			MinVersion: tls.VersionTLS12,
		}))
	}

	exp, err := otlptracehttp.New(ctx, expOpts...)
	if err != nil {
		return nil, fmt.Errorf("create OTLP exporter: %w", err)
	}
	return exp, nil
}
