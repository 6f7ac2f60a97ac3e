package gemini

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestGenerationConfigCarriesZeroTemperature(t *testing.T) {
	payload := geminiChatRequest{
		Contents: []*geminiChatContent{
			{Parts: []*geminiChatParts{{Text: "hi"}}, Role: "user"},
		},
		GenerationConfig: &geminiGenerationConfig{Temperature: 0},
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"temperature":0`) {
		t.Errorf("temperature 0 was dropped from the request: %s", raw)
	}
}
