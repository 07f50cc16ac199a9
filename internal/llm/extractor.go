// Package llm - extractor.go provides schema definitions for LLM-based structured generation.
package llm

import (
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
)

// FieldType is the JSON type of a schema field.
type FieldType string

// Field types understood by ExtractionSchema.
const (
	FieldString  FieldType = "string"
	FieldInteger FieldType = "integer"
	FieldArray   FieldType = "array"
	FieldObject  FieldType = "object"
)

// ExtractionSchema defines the structure the model must produce.
// It is used three ways: as the provider response schema, as a JSON Schema document for
// validation, and as a human-readable outline embedded in prompts.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "PersonaScaffold")
	Description string        // Description of one element
	Fields      []SchemaField // Expected output fields
	List        bool          // Output is an array of elements rather than a single object
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string        // JSON field name
	Type        FieldType     // JSON type
	Description string        // Description for the LLM
	Required    bool          // Whether this field is required
	Items       *SchemaField  // Element definition for arrays
	Fields      []SchemaField // Nested fields for objects
	Length      int           // Exact array length, 0 for unconstrained
}

// ResponseSchema converts the schema into a Gemini response schema.
func (s ExtractionSchema) ResponseSchema() *genai.Schema {
	element := objectSchema(s.Description, s.Fields)
	if !s.List {
		return element
	}
	return &genai.Schema{
		Type:        genai.TypeArray,
		Description: fmt.Sprintf("List of %s objects", s.Name),
		Items:       element,
	}
}

func objectSchema(description string, fields []SchemaField) *genai.Schema {
	schema := &genai.Schema{
		Type:        genai.TypeObject,
		Description: description,
		Properties:  make(map[string]*genai.Schema, len(fields)),
	}
	for _, f := range fields {
		schema.Properties[f.Name] = f.genaiSchema()
		if f.Required {
			schema.Required = append(schema.Required, f.Name)
		}
	}
	return schema
}

func (f SchemaField) genaiSchema() *genai.Schema {
	switch f.Type {
	case FieldInteger:
		return &genai.Schema{Type: genai.TypeInteger, Description: f.Description}
	case FieldArray:
		schema := &genai.Schema{Type: genai.TypeArray, Description: f.lengthDescription()}
		if f.Items != nil {
			schema.Items = f.Items.genaiSchema()
		}
		return schema
	case FieldObject:
		return objectSchema(f.Description, f.Fields)
	default:
		return &genai.Schema{Type: genai.TypeString, Description: f.Description}
	}
}

func (f SchemaField) lengthDescription() string {
	if f.Length > 0 {
		return fmt.Sprintf("%s (exactly %d items)", f.Description, f.Length)
	}
	return f.Description
}

// JSONSchema converts the schema into a JSON Schema (draft-07) document.
func (s ExtractionSchema) JSONSchema() map[string]any {
	element := objectJSONSchema(s.Fields)
	element["title"] = s.Name
	var doc map[string]any
	if s.List {
		doc = map[string]any{"type": "array", "items": element}
	} else {
		doc = element
	}
	doc["$schema"] = "http://json-schema.org/draft-07/schema#"
	return doc
}

func objectJSONSchema(fields []SchemaField) map[string]any {
	props := make(map[string]any, len(fields))
	required := []string{}
	for _, f := range fields {
		props[f.Name] = f.jsonSchema()
		if f.Required {
			required = append(required, f.Name)
		}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

func (f SchemaField) jsonSchema() map[string]any {
	switch f.Type {
	case FieldInteger:
		return map[string]any{"type": "integer"}
	case FieldArray:
		schema := map[string]any{"type": "array"}
		if f.Items != nil {
			schema["items"] = f.Items.jsonSchema()
		}
		if f.Length > 0 {
			schema["minItems"] = f.Length
			schema["maxItems"] = f.Length
		}
		return schema
	case FieldObject:
		return objectJSONSchema(f.Fields)
	default:
		return map[string]any{"type": "string"}
	}
}

// Outline renders the schema as an indented field list for inclusion in a prompt.
func (s ExtractionSchema) Outline() string {
	var sb strings.Builder
	writeOutline(&sb, s.Fields, "- ")
	return sb.String()
}

func writeOutline(sb *strings.Builder, fields []SchemaField, indent string) {
	for _, f := range fields {
		typeHint := string(f.Type)
		if f.Type == FieldArray && f.Items != nil {
			typeHint = fmt.Sprintf("array of %s", f.Items.Type)
		}
		optional := ""
		if !f.Required {
			optional = ", optional"
		}
		fmt.Fprintf(sb, "%s%s (%s%s): %s\n", indent, f.Name, typeHint, optional, f.lengthDescription())
		if f.Type == FieldObject {
			writeOutline(sb, f.Fields, "  "+indent)
		}
		if f.Type == FieldArray && f.Items != nil && f.Items.Type == FieldObject {
			writeOutline(sb, f.Items.Fields, "  "+indent)
		}
	}
}

// --- Predefined Schemas ---

// PersonaScaffoldSchema returns the schema for the persona generation call: a list of
// personas, each with narrative fields, ad copy and image prompts.
func PersonaScaffoldSchema() ExtractionSchema {
	str := func(name, desc string) SchemaField {
		return SchemaField{Name: name, Type: FieldString, Description: desc, Required: true}
	}
	strList := func(name, desc string) SchemaField {
		return SchemaField{Name: name, Type: FieldArray, Description: desc, Required: true, Items: &SchemaField{Type: FieldString}}
	}

	return ExtractionSchema{
		Name:        "PersonaScaffold",
		Description: "A detailed marketing persona with ad copy and image prompts",
		List:        true,
		Fields: []SchemaField{
			str("id", "Unique text identifier, e.g. \"persona-123\""),
			str("name", "Persona name, e.g. \"Anna Innovator\""),
			{Name: "age", Type: FieldInteger, Description: "Age in years", Required: true},
			str("occupation", "Occupation or job title"),
			str("demographics", "Location, income, education, family status"),
			strList("goals", "Persona goals, at least 2"),
			strList("challenges", "Challenges and pain points, at least 2"),
			strList("motivations", "What drives the persona, at least 2"),
			strList("communicationChannels", "Preferred channels, e.g. \"LinkedIn\", \"Industry blogs\""),
			str("detailedDescription", "Narrative description, at least 100 words"),
			{
				Name:        "googleAds",
				Type:        FieldArray,
				Description: "2-3 Google Ads variants",
				Required:    true,
				Items: &SchemaField{
					Type: FieldObject,
					Fields: []SchemaField{
						str("headline1", "First headline"),
						str("headline2", "Second headline"),
						{Name: "headline3", Type: FieldString, Description: "Third headline"},
						str("description1", "First description line"),
						{Name: "description2", Type: FieldString, Description: "Second description line"},
					},
				},
			},
			str("socialMediaAdText", "One social media ad text (Facebook, Instagram)"),
			{
				Name:        "imagePrompts",
				Type:        FieldObject,
				Description: "Prompts for an image generation model",
				Required:    true,
				Fields: []SchemaField{
					{
						Name:        "storyboard",
						Type:        FieldArray,
						Description: "Descriptive, visual storyboard image prompts",
						Required:    true,
						Items:       &SchemaField{Type: FieldString},
						Length:      3,
					},
					str("socialMediaAd", "Detailed prompt for one square social media ad image"),
				},
			},
		},
	}
}
