package swagger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestDocIsValidJSON(t *testing.T) {
	BasePath = "/v2"
	defer func() { BasePath = "/api/v1" }()

	raw, err := swag.ReadDoc()
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "/v2", doc["basePath"])
	paths, ok := doc["paths"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, paths, "/students/{id}/standing")
	assert.Contains(t, paths, "/courses/{courseId}/weights")
}
