package rerank

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

var integerToken = regexp.MustCompile(`\d+`)

// ParseIndices extracts a validated index selection from raw model output.
//
// Strategy: strict JSON-array parse of the first bracketed segment, then a
// permissive scan for integer tokens in order of appearance. Either way the
// result is filtered to in-range, first-occurrence-unique indices capped at
// topN. An empty result means the caller should fall back to pool order.
func ParseIndices(raw string, poolSize, topN int) []int {
	indices := parseStrict(raw)
	if indices == nil {
		indices = parseLoose(raw)
	}
	return validate(indices, poolSize, topN)
}

func parseStrict(raw string) []int {
	start := strings.Index(raw, "[")
	end := strings.Index(raw, "]")
	if start == -1 || end == -1 || end <= start {
		return nil
	}

	var indices []int
	if err := json.Unmarshal([]byte(raw[start:end+1]), &indices); err != nil {
		return nil
	}
	return indices
}

func parseLoose(raw string) []int {
	tokens := integerToken.FindAllString(raw, -1)
	indices := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		n, err := strconv.Atoi(tok)
		if err != nil {
			continue
		}
		indices = append(indices, n)
	}
	return indices
}

func validate(indices []int, poolSize, topN int) []int {
	seen := make(map[int]bool)
	valid := make([]int, 0, topN)
	for _, idx := range indices {
		if idx < 0 || idx >= poolSize {
			continue
		}
		if seen[idx] {
			continue
		}
		seen[idx] = true
		valid = append(valid, idx)
		if len(valid) == topN {
			break
		}
	}
	return valid
}
