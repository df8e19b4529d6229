package schemas

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/contact-finder/internal/types"
	schemafiles "github.com/jonathan/contact-finder/schemas"
)

const contactResultSchemaName = "contact_result.schema.json"

var (
	contactResultOnce   sync.Once
	contactResultSchema *gojsonschema.Schema
	contactResultErr    error
)

func contactResult() (*gojsonschema.Schema, error) {
	contactResultOnce.Do(func() {
		contactResultSchema, contactResultErr = Compile(contactResultSchemaName, schemafiles.ContactResult)
	})
	return contactResultSchema, contactResultErr
}

// ValidateContactResult checks an envelope against the contact result schema.
func ValidateContactResult(result *types.ContactResult) error {
	if result == nil {
		return fmt.Errorf("contact result is nil")
	}
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal contact result: %w", err)
	}
	return ValidateContactResultJSON(data)
}

// ValidateContactResultJSON checks raw JSON against the contact result schema.
func ValidateContactResultJSON(data []byte) error {
	schema, err := contactResult()
	if err != nil {
		return err
	}
	return validateWith(schema, contactResultSchemaName, data)
}
