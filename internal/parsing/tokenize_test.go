package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"lowercases and strips punctuation", "Built REST APIs, fast!", []string{"built", "rest", "apis", "fast"}},
		{"keeps c++ and c#", "C++ and C# (daily)", []string{"c++", "and", "c#", "daily"}},
		{"joins dotted names", "Node.js / React.js", []string{"nodejs", "reactjs"}},
		{"sentence period splits", "Shipped it. Then left.", []string{"shipped", "it", "then", "left"}},
		{"hyphen splits", "micro-services", []string{"micro", "services"}},
		{"plus between words splits", "a+b", []string{"a", "b"}},
		{"unicode letters", "Café Zürich", []string{"café", "zürich"}},
		{"empty", "", nil},
		{"punctuation only", "-- !! ..", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TokenList(tt.input))
		})
	}
}

func TestTokens_StopsEarly(t *testing.T) {
	var got []string
	for tok := range Tokens("one two three four") {
		got = append(got, tok)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"one", "two"}, got)
}

func TestTokens_Deterministic(t *testing.T) {
	text := "Led migration of 40 services to Kubernetes (k8s) on AWS."
	assert.Equal(t, TokenList(text), TokenList(text))
}

func TestNGrams(t *testing.T) {
	tokens := []string{"machine", "learning", "platform"}

	assert.Equal(t, []string{"machine learning", "learning platform"}, NGrams(tokens, 2))
	assert.Equal(t, []string{"machine learning platform"}, NGrams(tokens, 3))
	assert.Nil(t, NGrams(tokens, 4))
	assert.Nil(t, NGrams(tokens, 0))
}

func TestGrams(t *testing.T) {
	got := Grams([]string{"a", "b", "c"}, 2)
	assert.Equal(t, []string{"a", "b", "c", "a b", "b c"}, got)
}

func TestStem(t *testing.T) {
	tests := map[string]string{
		"services":   "service",
		"libraries":  "library",
		"deploying":  "deploy",
		"deployed":   "deploy",
		"caches":     "cach",
		"class":      "class",
		"status":     "status",
		"analysis":   "analysis",
		"go":         "go",
		"c++":        "c++",
		"kubernetes": "kubernete",
	}
	for in, want := range tests {
		assert.Equal(t, want, Stem(in), "stem(%q)", in)
	}
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount("   "))
	assert.Equal(t, 3, WordCount(" Built  REST\tAPIs "))
}

func TestTokenOverlap(t *testing.T) {
	a := TokenList("reduced latency by 40 percent across services")
	b := TokenList("reduced latency by 45 percent across services")

	sim := TokenOverlap(a, b)
	assert.InDelta(t, 12.0/14.0, sim, 1e-9)
	assert.Equal(t, sim, TokenOverlap(b, a))
	assert.Equal(t, 1.0, TokenOverlap(a, a))
	assert.Equal(t, 0.0, TokenOverlap(nil, a))
	assert.Equal(t, 0.0, TokenOverlap([]string{"x"}, []string{"y"}))
}

func TestEditDistance(t *testing.T) {
	assert.Equal(t, 0, EditDistance("kafka", "kafka"))
	assert.Equal(t, 1, EditDistance("kafka", "kafk"))
	assert.Equal(t, 1, EditDistance("python", "pyton"))
	assert.Equal(t, 2, EditDistance("kafka", "kfkaa"))
	assert.Equal(t, 3, EditDistance("", "abc"))
	assert.Equal(t, 1, EditDistance("zürich", "zurich"))
}
