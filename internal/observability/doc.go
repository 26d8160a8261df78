// Package observability groups structured logging and tracing. Logs are JSON
// via log/slog; traces are OpenTelemetry spans exported over OTLP when a
// telemetry host is configured.
package observability
