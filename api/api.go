// Package api embeds the HTTP contract so the server validates requests
// against the same document it publishes.
package api

import _ "embed"

//go:embed openapi.yml
var OpenAPI []byte
