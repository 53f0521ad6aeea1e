// Package types defines the wire shapes shared by the HTTP layer.
//
// Gateway bodies are relayed as raw JSON and are not modelled here. This
// package only holds the error body that middleware and handlers write when
// they answer a request themselves (405, 413, 401, 500, 504):
//
//	{"error": "Method not allowed"}
package types
