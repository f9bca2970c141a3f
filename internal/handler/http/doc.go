// Package http implements the HTTP transport layer of the study-platform server.
//
// It exposes route wiring, request handlers, and middleware used by the REST
// API. Cross-cutting concerns such as request tracing, access logging,
// metrics, bearer-token authentication and the role gate are handled in this
// package before requests are delegated to the service layer.
//
// Every error response is a JSON [models.ErrorResponse] with a stable code;
// the mapping from domain errors to status and code lives in errors_mapper.go.
package http
