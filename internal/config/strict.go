package config

import (
	"reflect"
	"strings"

	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"gopkg.in/yaml.v3"
)

// decodeStrict decodes value into out after rejecting mapping keys that out
// does not declare. (*yaml.Node).Decode ignores unknown fields even when the
// outer decoder was created with KnownFields, so every custom unmarshaler
// decodes through here.
func decodeStrict(value *yaml.Node, out any, code errors.ErrorCode, section string) error {
	if value.Kind == yaml.MappingNode {
		known := yamlKeys(reflect.TypeOf(out).Elem())

		for i := 0; i+1 < len(value.Content); i += 2 {
			key := value.Content[i]
			if _, ok := known[key.Value]; !ok {
				return errors.Newf(code, "unknown %s key %q at line %d", section, key.Value, key.Line)
			}
		}
	}

	return value.Decode(out)
}

// yamlKeys lists the yaml field names of struct type t.
func yamlKeys(t reflect.Type) map[string]struct{} {
	keys := make(map[string]struct{}, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
		if name == "-" {
			continue
		}

		if name == "" {
			name = strings.ToLower(field.Name)
		}

		keys[name] = struct{}{}
	}

	return keys
}
