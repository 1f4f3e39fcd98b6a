// Package httpserver exposes the signup service over a JSON HTTP API.
//
// Mutations are POSTs under /v1/sessions and /v1/actions, reads are GETs,
// and /v1/events/subscribe streams the durable event feed as Server-Sent
// Events with an optional CEL filter.
package httpserver
