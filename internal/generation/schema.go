package generation

import (
	"fmt"
	"sort"

	"github.com/phrazzld/viral-scripts/internal/domain"
)

// SchemaType is the JSON type of a schema node.
type SchemaType string

// Schema types used by the script package.
const (
	TypeObject SchemaType = "object"
	TypeArray  SchemaType = "array"
	TypeString SchemaType = "string"
)

// Schema is a provider-neutral description of the structured output requested
// from the model. Each provider adapter converts it into its own request type.
type Schema struct {
	Type        SchemaType
	Description string
	Items       *Schema
	Properties  map[string]*Schema
	// Required lists the object properties that must be present.
	Required []string
	// PropertyOrder fixes the order properties are emitted in.
	PropertyOrder []string
	// MinItems and MaxItems bound array lengths; zero means unbounded.
	MinItems int
	MaxItems int
}

// Top-level field names of the script package.
const (
	FieldScript       = "step1_script"
	FieldImagePrompts = "step2_prompts"
	FieldHeadlines    = "step3_headlines"
	FieldDescription  = "step4_description"
	FieldRisk         = "step5_risk"
)

// RequiredFields lists the top-level fields every response must carry, in order.
var RequiredFields = []string{FieldScript, FieldImagePrompts, FieldHeadlines, FieldDescription, FieldRisk}

// ScriptResponseSchema returns the schema of domain.ScriptResponse.
// A fresh value is built on every call so callers may modify it.
func ScriptResponseSchema() *Schema {
	stringSchema := func() *Schema { return &Schema{Type: TypeString} }

	headline := &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"headline":    stringSchema(),
			"translation": stringSchema(),
			"score":       stringSchema(),
		},
		Required:      []string{"headline", "translation", "score"},
		PropertyOrder: []string{"headline", "translation", "score"},
	}

	description := &Schema{
		Type:        TypeObject,
		Description: "Descrição do vídeo e hashtags.",
		Properties: map[string]*Schema{
			"copy": stringSchema(),
			"hashtags": {
				Type:  TypeArray,
				Items: stringSchema(),
			},
		},
		Required:      []string{"copy", "hashtags"},
		PropertyOrder: []string{"copy", "hashtags"},
	}

	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			FieldScript: {
				Type:        TypeString,
				Description: "O roteiro completo do vídeo, estilo jornalístico alarmista.",
			},
			FieldImagePrompts: {
				Type:        TypeArray,
				Items:       stringSchema(),
				Description: fmt.Sprintf("Lista de %d prompts de imagem em inglês.", domain.ImagePromptCount),
				MinItems:    domain.ImagePromptCount,
				MaxItems:    domain.ImagePromptCount,
			},
			FieldHeadlines: {
				Type:        TypeArray,
				Items:       headline,
				Description: fmt.Sprintf("%d headlines com tradução e score.", domain.HeadlineCount),
				MinItems:    domain.HeadlineCount,
				MaxItems:    domain.HeadlineCount,
			},
			FieldDescription: description,
			FieldRisk: {
				Type:        TypeString,
				Description: "Percentual de risco de punição.",
			},
		},
		Required:      append([]string(nil), RequiredFields...),
		PropertyOrder: append([]string(nil), RequiredFields...),
	}
}

// JSONSchema renders s as a JSON Schema document. With strict set, every
// object forbids additional properties and lists all of its properties as
// required, which is what strict structured-output modes insist on.
func (s *Schema) JSONSchema(strict bool) map[string]any {
	out := map[string]any{"type": string(s.Type)}
	if s.Description != "" {
		out["description"] = s.Description
	}

	switch s.Type {
	case TypeArray:
		if s.Items != nil {
			out["items"] = s.Items.JSONSchema(strict)
		}
		if s.MinItems > 0 {
			out["minItems"] = s.MinItems
		}
		if s.MaxItems > 0 {
			out["maxItems"] = s.MaxItems
		}
	case TypeObject:
		props := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = prop.JSONSchema(strict)
		}
		out["properties"] = props

		required := s.Required
		if strict {
			required = s.orderedPropertyNames()
			out["additionalProperties"] = false
		}
		if len(required) > 0 {
			out["required"] = required
		}
	}

	return out
}

// orderedPropertyNames returns every property name, PropertyOrder first.
func (s *Schema) orderedPropertyNames() []string {
	names := make([]string, 0, len(s.Properties))
	seen := make(map[string]bool, len(s.Properties))
	for _, name := range s.PropertyOrder {
		if _, ok := s.Properties[name]; ok && !seen[name] {
			names = append(names, name)
			seen[name] = true
		}
	}
	rest := make([]string, 0)
	for name := range s.Properties {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}
