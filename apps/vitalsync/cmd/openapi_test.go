package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAPIDocumentListsRoutes(t *testing.T) {
	out := filepath.Join(t.TempDir(), "openapi.json")
	openapiOutput, openapiDowngrade = out, false
	t.Cleanup(func() { openapiOutput, openapiDowngrade = "", true })

	require.NoError(t, generateOpenAPI(openapiCmd, nil))

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	var doc struct {
		Paths map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	for _, p := range []string{
		"/health",
		"/api/auth/whoop/login",
		"/api/auth/whoop/callback",
		"/api/sync",
		"/api/sync/batch",
		"/api/sync/batch/status",
	} {
		assert.Contains(t, doc.Paths, p)
	}
}
