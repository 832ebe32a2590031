// Package openapi publishes the wire contract of the training and prediction
// services as an OpenAPI 3 document and validates prediction payloads
// against it. The kin-openapi structures stay under internal/openapi.
package openapi
