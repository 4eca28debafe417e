// Package dto holds the JSON shapes exchanged over HTTP.
//
// Requests carry no binding rules beyond JSON shape. Field validation lives in
// the domain so its messages reach the client unchanged.
package dto
