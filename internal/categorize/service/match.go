package service

import (
	"regexp"
	"strconv"
	"strings"

	organizationModel "github.com/prscope/prscope/internal/organization/model"
)

// responseRe tolerates comma- or newline-separated fields and any casing of
// the labels.
var responseRe = regexp.MustCompile(`(?is)category:\s*(.+?)\s*(?:,|\n)\s*confidence:\s*([0-9]*\.?[0-9]+)`)

// fuzzyThreshold is the minimum fuzzy score for a candidate to be accepted.
const fuzzyThreshold = 0.6

// parseResponse extracts the suggested category name and confidence from a
// raw model response.
func parseResponse(raw string) (string, float64, bool) {
	m := responseRe.FindStringSubmatch(raw)
	if m == nil {
		return "", 0, false
	}

	name := strings.TrimSpace(m[1])
	if name == "" {
		return "", 0, false
	}

	confidence, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return "", 0, false
	}
	return name, confidence, true
}

// matchCategory resolves a suggested name against the configured categories:
// exact (case-sensitive) match first, then the best fuzzy candidate above
// the threshold. No match means the suggestion is discarded.
func matchCategory(suggestion string, categories []organizationModel.Category) (*organizationModel.Category, bool) {
	for i := range categories {
		if categories[i].Name == suggestion {
			return &categories[i], true
		}
	}

	var best *organizationModel.Category
	bestScore := 0.0
	for i := range categories {
		score := fuzzyScore(suggestion, categories[i].Name)
		if score > bestScore {
			best = &categories[i]
			bestScore = score
		}
	}
	if best == nil || bestScore <= fuzzyThreshold {
		return nil, false
	}
	return best, true
}

// fuzzyScore scores a suggested name against a candidate: 1.0 for
// case-insensitive equality, 0.8 when one contains the other (ignoring case
// and spaces), otherwise the fraction of suggested characters also present
// in the candidate.
func fuzzyScore(suggestion, candidate string) float64 {
	s := strings.ToLower(strings.TrimSpace(suggestion))
	c := strings.ToLower(strings.TrimSpace(candidate))
	if s == c {
		return 1.0
	}

	sCompact := strings.ReplaceAll(s, " ", "")
	cCompact := strings.ReplaceAll(c, " ", "")
	if sCompact != "" && cCompact != "" &&
		(strings.Contains(cCompact, sCompact) || strings.Contains(sCompact, cCompact)) {
		return 0.8
	}

	candidateRunes := make(map[rune]bool)
	for _, r := range c {
		candidateRunes[r] = true
	}
	overlap := 0
	for _, r := range s {
		if candidateRunes[r] {
			overlap++
		}
	}

	maxLen := len([]rune(s))
	if l := len([]rune(c)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 0
	}
	return float64(overlap) / float64(maxLen)
}
