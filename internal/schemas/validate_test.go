package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/persona-studio/internal/types"
)

const nameSchema = `{
  "type": "object",
  "properties": {"name": {"type": "string"}, "age": {"type": "integer"}},
  "required": ["name"]
}`

func TestValidateJSONString(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"valid", `{"name":"Anna","age":3}`, false},
		{"missing required", `{"age":3}`, true},
		{"wrong type", `{"name":"Anna","age":"three"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSONString(nameSchema, tt.doc)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.NotEmpty(t, validationErr.Errors)
			assert.Contains(t, err.Error(), "validation failed")
		})
	}
}

func TestValidateJSONString_BadSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 12}`, `{}`)
	require.Error(t, err)
	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestValidationError_RootField(t *testing.T) {
	err := ValidateJSONString(`{"type":"array"}`, `{}`)
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "(root)", validationErr.Errors[0].Field)
}

func validScaffold() types.PersonaScaffold {
	h3 := "Third"
	return types.PersonaScaffold{
		ID:                    "persona-1",
		Name:                  "Anna",
		Age:                   30,
		Occupation:            "Designer",
		Demographics:          "Urban",
		Goals:                 []string{"a"},
		Challenges:            []string{"b"},
		Motivations:           []string{"c"},
		CommunicationChannels: []string{"d"},
		DetailedDescription:   "Long text",
		GoogleAds:             []types.GoogleAd{{Headline1: "1", Headline2: "2", Headline3: &h3, Description1: "d"}},
		SocialMediaAdText:     "Buy",
		ImagePrompts:          types.ImagePrompts{Storyboard: []string{"x", "y", "z"}, SocialMediaAd: "sq"},
	}
}

func TestValidatePersonaScaffolds(t *testing.T) {
	assert.NoError(t, ValidatePersonaScaffolds([]types.PersonaScaffold{validScaffold()}))
	assert.NoError(t, ValidatePersonaScaffolds([]types.PersonaScaffold{}))
}

func TestValidatePersonaScaffolds_StoryboardLength(t *testing.T) {
	s := validScaffold()
	s.ImagePrompts.Storyboard = []string{"only one"}

	err := ValidatePersonaScaffolds([]types.PersonaScaffold{s})
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Contains(t, validationErr.Errors[0].Field, "storyboard")
}
