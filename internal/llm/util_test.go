package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "json code block", input: "```json\n{\"terms\": [\"go\"]}\n```", expected: `{"terms": ["go"]}`},
		{name: "generic code block", input: "```\n[\"go\"]\n```", expected: `["go"]`},
		{name: "code block with language", input: "```javascript\n{\"key\": \"value\"}\n```", expected: `{"key": "value"}`},
		{name: "plain JSON", input: `{"key": "value"}`, expected: `{"key": "value"}`},
		{name: "preamble", input: "Here are the terms:\n[\"rust\", \"wasm\"]", expected: `["rust", "wasm"]`},
		{name: "trailing text", input: "{\"key\": \"value\"}\n\nAnything else?", expected: `{"key": "value"}`},
		{name: "nested", input: "Output: {\"outer\": {\"inner\": [1, 2]}}", expected: `{"outer": {"inner": [1, 2]}}`},
		{name: "brackets inside strings", input: `{"note": "use } and ] freely"} done`, expected: `{"note": "use } and ] freely"}`},
		{name: "escaped quote", input: `x {"m": "say \"hi}\""} y`, expected: `{"m": "say \"hi}\""}`},
		{name: "no json", input: "nothing to see", expected: "nothing to see"},
		{name: "unbalanced", input: `{"open": true`, expected: `{"open": true`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}
