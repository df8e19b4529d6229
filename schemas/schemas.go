// Package schemas ships the JSON Schemas for the documents this module emits.
package schemas

import _ "embed"

// ContactResult is the JSON Schema of the discovery response envelope.
//
//go:embed contact_result.schema.json
var ContactResult string
