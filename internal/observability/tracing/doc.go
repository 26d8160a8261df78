// Package tracing wires OpenTelemetry for the service.
//
// Init installs a global tracer provider that batches spans to an
// OTLP/HTTP endpoint. The default target is Langfuse's OTLP ingestion path,
// authenticated with the project key pair; without keys Init installs a
// no-op provider and nothing leaves the process.
//
// Middleware starts one server span per HTTP request and returns the trace
// ID in the X-Trace-Id header.
package tracing
