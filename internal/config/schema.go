package config

import (
	"encoding/json"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/argo-signals/internal/indicator"
	"github.com/rxtech-lab/argo-signals/internal/signal"
)

// GenerateSchema generates a JSON schema for the Config document.
func (c *Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			switch t {
			case reflect.TypeOf(Window{}):
				return scalarOr("integer", &jsonschema.Schema{Type: "object"})
			case reflect.TypeOf(Bollinger{}):
				return scalarOr("integer", &jsonschema.Schema{Type: "object"})
			case reflect.TypeOf(MACD{}):
				return scalarOr("boolean", &jsonschema.Schema{Type: "object"})
			case reflect.TypeOf(Periods{}):
				return &jsonschema.Schema{OneOf: []*jsonschema.Schema{
					{Type: "array", Items: &jsonschema.Schema{Type: "integer"}},
					{Type: "object"},
				}}
			case reflect.TypeOf(indicator.Calendar("")):
				return &jsonschema.Schema{
					Type: "string",
					Enum: []any{string(indicator.CalendarWeekdays), string(indicator.CalendarDaily), string(indicator.CalendarAny)},
				}
			case reflect.TypeOf(signal.FillPolicy("")):
				return &jsonschema.Schema{
					Type: "string",
					Enum: []any{string(signal.FillForwardBackward), string(signal.FillNone)},
				}
			}

			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date",
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)

	schema.Title = "signals-config"
	schema.Description = "Configuration schema for a signal fusion run"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the Config document.
func (c *Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

func scalarOr(scalar string, object *jsonschema.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{OneOf: []*jsonschema.Schema{{Type: scalar}, object}}
}
