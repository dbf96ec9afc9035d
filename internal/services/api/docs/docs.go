// Package docs embeds the OpenAPI document served under /api/docs. It is
// written by hand; the @ annotations on the handlers mirror it
package docs

import _ "embed"

// OpenAPI is the OpenAPI 3 document for /api/v1
//
//go:embed openapi.json
var OpenAPI []byte
