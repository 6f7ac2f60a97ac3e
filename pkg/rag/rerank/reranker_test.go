package rerank

import (
	"context"
	"errors"
	"io"
	"log"
	"reflect"
	"testing"

	"case-advisor-be/pkg/llm"
	"case-advisor-be/pkg/store"
)

func TestParseIndices(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		poolSize int
		topN     int
		want     []int
	}{
		{
			name:     "clean bracketed list",
			raw:      "[0,2,1]",
			poolSize: 3,
			topN:     3,
			want:     []int{0, 2, 1},
		},
		{
			name:     "bracketed list with surrounding prose",
			raw:      "The best excerpts are: [3, 1]",
			poolSize: 5,
			topN:     3,
			want:     []int{3, 1},
		},
		{
			name:     "prose only falls back to token extraction",
			raw:      "I think you should pick 2 and maybe 5",
			poolSize: 6,
			topN:     3,
			want:     []int{2, 5},
		},
		{
			name:     "empty string",
			raw:      "",
			poolSize: 4,
			topN:     2,
			want:     []int{},
		},
		{
			name:     "prose without numbers",
			raw:      "These all look equally relevant to me.",
			poolSize: 4,
			topN:     2,
			want:     []int{},
		},
		{
			name:     "out of range indices dropped",
			raw:      "[0, 7, 9, 1]",
			poolSize: 3,
			topN:     3,
			want:     []int{0, 1},
		},
		{
			name:     "duplicates keep first occurrence",
			raw:      "[2, 2, 0, 2, 1]",
			poolSize: 3,
			topN:     3,
			want:     []int{2, 0, 1},
		},
		{
			name:     "result capped at topN",
			raw:      "[0, 1, 2, 3, 4]",
			poolSize: 5,
			topN:     2,
			want:     []int{0, 1},
		},
		{
			name:     "malformed brackets fall back to loose scan",
			raw:      "[0, 2",
			poolSize: 3,
			topN:     3,
			want:     []int{0, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseIndices(tt.raw, tt.poolSize, tt.topN)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseIndices(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

type stubProvider struct {
	response string
	err      error
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return s.response, s.err
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.response, s.err
}

func testCandidates(n int) []store.Candidate {
	candidates := make([]store.Candidate, n)
	for i := range candidates {
		candidates[i] = store.Candidate{Title: "Case", Content: "content"}
	}
	return candidates
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestSelectValidOutput(t *testing.T) {
	r := NewReranker(&stubProvider{response: "[0,2,1]"}, discardLogger())

	got := r.Select(context.Background(), "query", testCandidates(3), 3)
	want := []int{0, 2, 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Select = %v, want %v", got, want)
	}
}

func TestSelectFallsBackOnModelError(t *testing.T) {
	r := NewReranker(&stubProvider{err: errors.New("timeout")}, discardLogger())

	got := r.Select(context.Background(), "query", testCandidates(5), 3)
	want := []int{0, 1, 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Select = %v, want %v", got, want)
	}
}

func TestSelectFallsBackOnGarbage(t *testing.T) {
	r := NewReranker(&stubProvider{response: "sorry, I cannot rank these"}, discardLogger())

	got := r.Select(context.Background(), "query", testCandidates(4), 2)
	want := []int{0, 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Select = %v, want %v", got, want)
	}
}

func TestSelectPartialValidKeptAsIs(t *testing.T) {
	// Two valid indices for topN=3: a short selection is kept, not padded
	r := NewReranker(&stubProvider{response: "I think you should pick 2 and maybe 5"}, discardLogger())

	got := r.Select(context.Background(), "query", testCandidates(6), 3)
	want := []int{2, 5}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Select = %v, want %v", got, want)
	}
}

func TestSelectEmptyPool(t *testing.T) {
	r := NewReranker(&stubProvider{response: "[0]"}, discardLogger())

	if got := r.Select(context.Background(), "query", nil, 3); got != nil {
		t.Errorf("Select on empty pool = %v, want nil", got)
	}
}
