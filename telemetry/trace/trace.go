//
// Copyright (C) 2026 The weft authors. All rights reserved.
//
// weft is licensed under the Apache License Version 2.0.
//
//

// Package trace provides distributed tracing for weft graph execution.
// It integrates with OpenTelemetry and exports spans over OTLP gRPC.
package trace

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const defaultServiceName = "weft"

// TracerProvider is the global tracer provider for telemetry.
// It stays a no-op provider until Start is called.
var TracerProvider trace.TracerProvider = noop.NewTracerProvider()

// Tracer is the global tracer instance used by the executor.
var Tracer trace.Tracer = TracerProvider.Tracer("")

type options struct {
	serviceName string
	endpoint    string
}

// Option configures trace collection.
type Option func(*options)

// WithEndpoint sets the OTLP gRPC endpoint, e.g. "localhost:4317".
// When unset, the exporter falls back to the OTEL_EXPORTER_OTLP_ENDPOINT
// environment variable or its own default.
func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		o.endpoint = endpoint
	}
}

// WithServiceName sets the reported service name.
func WithServiceName(name string) Option {
	return func(o *options) {
		o.serviceName = name
	}
}

// Start installs an OTLP gRPC span exporter and replaces the global tracer.
// The returned clean function flushes and shuts the provider down.
func Start(ctx context.Context, opts ...Option) (clean func() error, err error) {
	o := &options{serviceName: defaultServiceName}
	for _, opt := range opts {
		opt(o)
	}

	expOpts := []otlptracegrpc.Option{otlptracegrpc.WithInsecure()}
	if o.endpoint != "" {
		expOpts = append(expOpts, otlptracegrpc.WithEndpoint(o.endpoint))
	}
	exporter, err := otlptracegrpc.New(ctx, expOpts...)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String(o.serviceName)),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	TracerProvider = tp
	Tracer = tp.Tracer(o.serviceName)

	return func() error {
		return tp.Shutdown(context.Background())
	}, nil
}
