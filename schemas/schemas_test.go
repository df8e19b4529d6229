package schemas

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaFiles_ValidJSON(t *testing.T) {
	schemaFiles := []string{
		"contact_result.schema.json",
	}

	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := os.ReadFile(schemaFile)
			require.NoError(t, err, "should be able to read schema file")

			var schemaObj map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &schemaObj), "schema file should be valid JSON")

			_, hasType := schemaObj["type"]
			_, hasSchema := schemaObj["$schema"]
			assert.True(t, hasType && hasSchema, "schema should declare $schema and type")
		})
	}
}

func TestContactResult_EmbeddedMatchesFile(t *testing.T) {
	data, err := os.ReadFile("contact_result.schema.json")
	require.NoError(t, err)
	assert.Equal(t, string(data), ContactResult)
}

func TestContactResult_DeclaresEnvelopeFields(t *testing.T) {
	var schemaObj struct {
		Required   []string               `json:"required"`
		Properties map[string]interface{} `json:"properties"`
	}
	require.NoError(t, json.Unmarshal([]byte(ContactResult), &schemaObj))

	assert.ElementsMatch(t, []string{"success", "contacts", "count", "cached", "sources"}, schemaObj.Required)
	for _, field := range []string{"message", "company", "domain", "intent", "error_kind"} {
		assert.Contains(t, schemaObj.Properties, field)
	}
}
