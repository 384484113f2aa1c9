// Package middleware provides HTTP middleware for the photo service.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics keyed by route template
//   - Basic authentication against a plain or bcrypt-hashed password
//   - gzip compression of JSON and text responses
package middleware
