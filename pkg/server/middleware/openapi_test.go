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

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kernelplane/kernel-gateway/pkg/server/middleware"
)

func TestNewOpenAPILoadsEmbeddedDocument(t *testing.T) {
	openapi, err := middleware.NewOpenAPI()
	require.NoError(t, err)
	require.NotNil(t, openapi)
}

func TestServeYAML(t *testing.T) {
	openapi, err := middleware.NewOpenAPI()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	openapi.ServeYAML(rec, httptest.NewRequest(http.MethodGet, "/api/swagger.yaml", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/x-yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "openapi:")
}

func TestServeDocs(t *testing.T) {
	openapi, err := middleware.NewOpenAPI()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	openapi.ServeDocs(rec, httptest.NewRequest(http.MethodGet, "/api/docs", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "SwaggerUIBundle"))
}
