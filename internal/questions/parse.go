package questions

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/skillhive/skillhive-go/internal/model"
)

var (
	fenceRe = regexp.MustCompile("```[A-Za-z]*")
	// quotedAheadRe matches a quoted string at the start of the remaining text.
	quotedAheadRe = regexp.MustCompile(`^\s*"[^"]*"`)
)

// Parse turns model output into a question list. It is best effort: the
// output is first checked against the expected shape (a JSON array of
// strings); anything else goes through a comma-split heuristic that can
// mis-split malformed output. strict reports whether the schema check passed.
func Parse(text string) (questions model.QuestionList, strict bool) {
	cleaned := strings.TrimSpace(fenceRe.ReplaceAllString(text, ""))
	if cleaned == "" {
		return model.QuestionList{}, false
	}

	var arr []string
	if err := json.Unmarshal([]byte(cleaned), &arr); err == nil {
		return compact(arr), true
	}
	return compact(splitLoose(cleaned)), false
}

func splitLoose(s string) []string {
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.TrimSpace(s)

	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ',' && quotedAheadRe.MatchString(s[i+1:]) {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])

	for i, p := range parts {
		p = strings.TrimSpace(p)
		p = strings.TrimPrefix(p, `"`)
		p = strings.TrimSuffix(p, `"`)
		parts[i] = p
	}
	return parts
}

func compact(in []string) model.QuestionList {
	out := make(model.QuestionList, 0, len(in))
	for _, q := range in {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	return out
}
