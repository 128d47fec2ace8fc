package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTerms(t *testing.T) {
	assert.Equal(t,
		[]string{"Python", "Go", "Rust", "C++", "Kafka"},
		SplitTerms("Python, Go; Rust/C++ & and Kafka"))
	assert.Empty(t, SplitTerms(" , ; "))
}

func TestContextTerms(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "experience with stops at comma",
			text: "Experience with Kubernetes, plus other things",
			want: []string{"Kubernetes"},
		},
		{
			name: "proficient in keeps dotted names",
			text: "Proficient in Node.js. Also likes tea",
			want: []string{"Node.js"},
		},
		{
			name: "skills list",
			text: "Required skills: Vue.js, Nuxt.js, and Tailwind CSS.",
			want: []string{"Vue.js", "Nuxt.js", "Tailwind CSS"},
		},
		{
			name: "knowledge and familiar",
			text: "Knowledge of Terraform. Familiar with Helm",
			want: []string{"Terraform", "Helm"},
		},
		{
			name: "no context phrase",
			text: "We ship software every day",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContextTerms(tt.text))
		})
	}
}
