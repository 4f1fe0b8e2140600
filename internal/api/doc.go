// Package api exposes the task management operations over HTTP: routing,
// request decoding and validation, and translation of service errors into
// sanitized JSON responses.
package api
