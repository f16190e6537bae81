/*
Copyright 2024 Kernel Gateway Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package middleware

import (
	_ "embed"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed swagger.yaml
var swaggerYAML []byte

// swaggerUIHTML renders the Swagger UI shell against the embedded
// document, matching the original source's SwaggerUIHandler.
const swaggerUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Swagger UI</title>
    <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
</head>
<body>
    <div id="swagger-ui"></div>
    <script>
        window.onload = function() {
            SwaggerUIBundle({
                url: "/api/swagger.yaml",
                dom_id: '#swagger-ui',
                presets: [
                    SwaggerUIBundle.presets.apis,
                    SwaggerUIBundle.SwaggerUIStandalonePreset
                ],
                layout: "BaseLayout"
            });
        }
    </script>
</body>
</html>
`

// OpenAPI loads and validates the embedded specification once at
// startup, failing fast on a malformed document rather than serving a
// broken one.
type OpenAPI struct {
	document []byte
}

// NewOpenAPI parses the embedded swagger document to confirm it's
// well-formed before the server starts accepting traffic.
func NewOpenAPI() (*OpenAPI, error) {
	if _, err := openapi3.NewLoader().LoadFromData(swaggerYAML); err != nil {
		return nil, err
	}

	return &OpenAPI{document: swaggerYAML}, nil
}

// ServeYAML writes the raw specification document.
func (o *OpenAPI) ServeYAML(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/x-yaml")
	w.WriteHeader(http.StatusOK)

	_, _ = w.Write(o.document)
}

// ServeDocs writes the Swagger UI HTML shell.
func (o *OpenAPI) ServeDocs(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)

	_, _ = w.Write([]byte(swaggerUIHTML))
}
