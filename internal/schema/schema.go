// Package schema validates raw ingest objects against the stock JSON
// schema before they enter the pipeline.
package schema

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

const stockSchema = `{
	"type": "object",
	"properties": {
		"Date":   { "type": "string" },
		"Symbol": { "type": "string" },
		"Close":  { "type": "number" },
		"Open":   { "type": "number" },
		"High":   { "type": "number" },
		"Low":    { "type": "number" }
	}
}`

var stockLoader = gojsonschema.NewStringLoader(stockSchema)

// ValidateStock checks one raw JSON object from an ingestion batch. All
// fields are optional; present ones must have the schema's type.
func ValidateStock(raw []byte) error {
	res, err := gojsonschema.Validate(stockLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if !res.Valid() {
		return fmt.Errorf("invalid price record: %s", res.Errors()[0])
	}
	return nil
}
