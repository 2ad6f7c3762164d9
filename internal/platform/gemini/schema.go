package gemini

import (
	"github.com/phrazzld/viral-scripts/internal/generation"
	"google.golang.org/genai"
)

var schemaTypes = map[generation.SchemaType]genai.Type{
	generation.TypeObject: genai.TypeObject,
	generation.TypeArray:  genai.TypeArray,
	generation.TypeString: genai.TypeString,
}

// toGenaiSchema converts the provider-neutral schema into the request type.
func toGenaiSchema(s *generation.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Type:        schemaTypes[s.Type],
		Description: s.Description,
		Items:       toGenaiSchema(s.Items),
	}

	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
		out.Required = append([]string(nil), s.Required...)
		out.PropertyOrdering = append([]string(nil), s.PropertyOrder...)
	}

	if s.MinItems > 0 {
		v := int64(s.MinItems)
		out.MinItems = &v
	}
	if s.MaxItems > 0 {
		v := int64(s.MaxItems)
		out.MaxItems = &v
	}

	return out
}
