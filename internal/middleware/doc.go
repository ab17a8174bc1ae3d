// Package middleware provides HTTP middleware for the catalog API server.
//
// It includes:
//   - Prometheus request metrics with ID-normalized route labels
//   - Request logging in W3C Extended Log Format
//   - Response compression (gzip) for JSON payloads
package middleware
