// Package schemas embeds the JSON schemas for oopp's YAML files.
package schemas

import _ "embed"

// ConfigSchemaJSON is the JSON Schema for .oopp.yaml.
//
//go:embed config.schema.json
var ConfigSchemaJSON string
