package endpoints

import _ "embed"

//go:embed docs/api.md
var apiDocs []byte

//go:embed docs/openapi.json
var openAPISpec []byte
