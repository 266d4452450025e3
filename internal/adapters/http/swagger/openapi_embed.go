package swagger

import _ "embed"

// OpenAPI is the embedded description of the matchmaking HTTP API. The
// handler serves it raw at /openapi.yaml and the /api-docs page renders it.
//
//go:embed openapi.yaml
var OpenAPI []byte
