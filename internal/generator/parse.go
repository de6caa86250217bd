package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"StrideCoach/internal/model"
)

var (
	// ErrNoJSON means the completion text held no parseable JSON object.
	ErrNoJSON = errors.New("generator: no JSON object in response")
	// ErrIncompleteTip means the JSON parsed but lacked a title or message.
	ErrIncompleteTip = errors.New("generator: tip is missing title or message")
)

type rawTip struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   *struct {
		Label string `json:"label"`
		Href  string `json:"href"`
	} `json:"action"`
}

// ParseTip extracts a tip from free text. It first tries everything between the
// first '{' and the last '}', then each balanced top-level object on its own.
// Unknown categories are replaced by fallback.
func ParseTip(text string, fallback model.Category) (model.Tip, error) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return model.Tip{}, ErrNoJSON
	}

	var raw rawTip
	err := json.Unmarshal([]byte(text[start:end+1]), &raw)
	if err != nil {
		for _, c := range jsonCandidates(text) {
			raw = rawTip{}
			if json.Unmarshal([]byte(c), &raw) == nil {
				err = nil
				break
			}
		}
	}
	if err != nil {
		return model.Tip{}, fmt.Errorf("%w: %v", ErrNoJSON, err)
	}

	tip := model.Tip{
		Title:    strings.TrimSpace(raw.Title),
		Message:  strings.TrimSpace(raw.Message),
		Category: model.Category(strings.ToLower(strings.TrimSpace(raw.Category))),
	}
	if tip.Title == "" || tip.Message == "" {
		return model.Tip{}, ErrIncompleteTip
	}
	if !tip.Category.Valid() {
		tip.Category = fallback
	}
	if raw.Action != nil && (raw.Action.Label != "" || raw.Action.Href != "") {
		tip.Action = &model.Action{Label: strings.TrimSpace(raw.Action.Label), Href: strings.TrimSpace(raw.Action.Href)}
	}
	return tip, nil
}

// jsonCandidates returns every balanced top-level {...} in s, skipping braces inside strings.
func jsonCandidates(s string) []string {
	var out []string
	depth, start := 0, -1
	inString, escape := false, false
	for i := 0; i < len(s); i++ {
		b := s[i]
		if escape {
			escape = false
			continue
		}
		if inString {
			if b == '\\' {
				escape = true
			} else if b == '"' {
				inString = false
			}
			continue
		}
		switch b {
		case '"':
			inString = true
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					out = append(out, s[start:i+1])
					start = -1
				}
			}
		}
	}
	return out
}
