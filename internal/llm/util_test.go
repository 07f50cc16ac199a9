package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"json fence", "```json\n[{\"id\": \"p1\"}]\n```", `[{"id": "p1"}]`},
		{"bare fence", "```\n{\"personas\": []}\n```", `{"personas": []}`},
		{"fence with other language tag", "```javascript\n{\"name\": \"Anna\"}\n```", `{"name": "Anna"}`},
		{"padding around fence", "  \n```json\n{\"age\": 31}\n```\n  ", `{"age": 31}`},
		{"fence without newline", "```[1, 2]```", `[1, 2]`},
		{"no fence", `[{"id": "p1"}]`, `[{"id": "p1"}]`},
		{"prose is left alone", "not json", "not json"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONBlock(tt.input))
		})
	}
}
