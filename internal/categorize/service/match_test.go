package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	organizationModel "github.com/prscope/prscope/internal/organization/model"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name           string
		raw            string
		wantName       string
		wantConfidence float64
		wantOK         bool
	}{
		{
			name:           "comma separated",
			raw:            "Category: Bug Fix, Confidence: 0.9",
			wantName:       "Bug Fix",
			wantConfidence: 0.9,
			wantOK:         true,
		},
		{
			name:           "newline separated",
			raw:            "Category: Bug Fix\nConfidence: 0.85",
			wantName:       "Bug Fix",
			wantConfidence: 0.85,
			wantOK:         true,
		},
		{
			name:           "lowercase labels",
			raw:            "category: feature, confidence: .75",
			wantName:       "feature",
			wantConfidence: 0.75,
			wantOK:         true,
		},
		{
			name:           "surrounded by chatter",
			raw:            "Sure! Based on the diff:\n\nCategory: Refactoring, Confidence: 0.6\n\nLet me know if you need more.",
			wantName:       "Refactoring",
			wantConfidence: 0.6,
			wantOK:         true,
		},
		{
			name:           "integer confidence",
			raw:            "Category: Feature, Confidence: 1",
			wantName:       "Feature",
			wantConfidence: 1,
			wantOK:         true,
		},
		{
			name:   "missing confidence",
			raw:    "Category: Bug Fix",
			wantOK: false,
		},
		{
			name:   "missing category",
			raw:    "Confidence: 0.9",
			wantOK: false,
		},
		{
			name:   "free-form refusal",
			raw:    "I cannot classify this pull request.",
			wantOK: false,
		},
		{
			name:   "empty",
			raw:    "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, confidence, ok := parseResponse(tt.raw)
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantName, name)
			assert.InDelta(t, tt.wantConfidence, confidence, 1e-9)
		})
	}
}

func TestMatchCategory(t *testing.T) {
	categories := []organizationModel.Category{
		{ID: 1, Name: "Bug Fix"},
		{ID: 2, Name: "Feature"},
		{ID: 3, Name: "Refactoring"},
	}

	tests := []struct {
		name       string
		suggestion string
		wantID     int64
		wantOK     bool
	}{
		{"exact", "Bug Fix", 1, true},
		{"case insensitive", "bug fix", 1, true},
		{"no spaces", "bugfix", 1, true},
		{"substring", "Refactor", 3, true},
		{"no plausible candidate", "xyzzy", 0, false},
		{"empty suggestion", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := matchCategory(tt.suggestion, categories)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantID, got.ID)
			}
		})
	}

	t.Run("exact match wins over fuzzy", func(t *testing.T) {
		ambiguous := []organizationModel.Category{
			{ID: 10, Name: "bug fix"},
			{ID: 11, Name: "Bug Fix"},
		}
		got, ok := matchCategory("Bug Fix", ambiguous)
		require.True(t, ok)
		assert.Equal(t, int64(11), got.ID)
	})

	t.Run("no categories", func(t *testing.T) {
		_, ok := matchCategory("Bug Fix", nil)
		assert.False(t, ok)
	})
}

func TestFuzzyScore(t *testing.T) {
	assert.InDelta(t, 1.0, fuzzyScore("bug fix", "Bug Fix"), 1e-9)
	assert.InDelta(t, 0.8, fuzzyScore("bugfix", "Bug Fix"), 1e-9)
	assert.InDelta(t, 0.8, fuzzyScore("Refactor", "Refactoring"), 1e-9)
	assert.Less(t, fuzzyScore("xyzzy", "Bug Fix"), fuzzyThreshold)
	assert.Zero(t, fuzzyScore("", "Bug Fix"))
}
