package questions

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/skillhive/skillhive-go/internal/model"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		want       model.QuestionList
		wantStrict bool
	}{
		{
			name:       "plain array",
			input:      `["Q1?", "Q2?"]`,
			want:       model.QuestionList{"Q1?", "Q2?"},
			wantStrict: true,
		},
		{
			name:       "code fence stripped before parsing",
			input:      "```json\n[\"Q1?\", \"Q2?\"]\n```",
			want:       model.QuestionList{"Q1?", "Q2?"},
			wantStrict: true,
		},
		{
			name:       "bare fence",
			input:      "```\n[\"What is Go? in English\"]\n```\n",
			want:       model.QuestionList{"What is Go? in English"},
			wantStrict: true,
		},
		{
			name:       "commas inside questions survive",
			input:      `["Why, and when, use channels?", "What is a goroutine?"]`,
			want:       model.QuestionList{"Why, and when, use channels?", "What is a goroutine?"},
			wantStrict: true,
		},
		{
			name:       "empty elements dropped",
			input:      `["Q1?", "  ", ""]`,
			want:       model.QuestionList{"Q1?"},
			wantStrict: true,
		},
		{
			name:       "escaped quotes fall back to loose split",
			input:      `[\"Q1?\", \"Q2?\"]`,
			want:       model.QuestionList{"Q1?", "Q2?"},
			wantStrict: false,
		},
		{
			name:       "trailing prose after fence falls back",
			input:      "```json\n[\"Q1?\", \"Q2?\"]\n``` Hope this helps",
			want:       model.QuestionList{"Q1?", `Q2?"]`+"\n Hope this helps"},
			wantStrict: false,
		},
		{
			name:       "empty text",
			input:      "   ",
			want:       model.QuestionList{},
			wantStrict: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, strict := Parse(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
			if strict != tt.wantStrict {
				t.Errorf("strict = %v, want %v", strict, tt.wantStrict)
			}
		})
	}
}

func TestPrompt_MentionsTopic(t *testing.T) {
	p := Prompt("distributed systems")
	if !strings.Contains(p, "learning guide on distributed systems") {
		t.Errorf("prompt does not mention the topic: %s", p)
	}
	if !strings.Contains(p, "in English") {
		t.Error("prompt should ask for the in English suffix")
	}
}
