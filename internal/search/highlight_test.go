package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchedTerms(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty", "", nil},
		{"whitespace only", "   ", nil},
		{"lowercases and dedupes", "Tax TAX permit", []string{"tax", "permit"}},
		{"drops short tokens", "st rental in FL", []string{"rental"}},
		{"preserves order", "zoning permit zoning", []string{"zoning", "permit"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MatchedTerms(tc.query))
		})
	}
}
