package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StrideCoach/internal/model"
)

func TestParseTip(t *testing.T) {
	t.Run("surrounded by prose and fences", func(t *testing.T) {
		raw := "Sure! Here is your tip:\n```json\n{\"title\": \"Rest up\", \"message\": \"Take tonight off.\", \"category\": \"Energy\", \"action\": {\"label\": \"Log\", \"href\": \"/energy\"}}\n```\nGood luck {smile}"
		// the trailing brace breaks first-to-last extraction, the scanner recovers
		tip, err := ParseTip(raw, model.CategoryProgress)
		require.NoError(t, err)
		assert.Equal(t, "Rest up", tip.Title)
		assert.Equal(t, model.CategoryEnergy, tip.Category)
		require.NotNil(t, tip.Action)
		assert.Equal(t, "/energy", tip.Action.Href)
	})

	t.Run("braces inside strings", func(t *testing.T) {
		tip, err := ParseTip(`{"title":"Use {templates}","message":"A } is fine.","category":"mission"}`, model.CategoryProgress)
		require.NoError(t, err)
		assert.Equal(t, "Use {templates}", tip.Title)
		assert.Nil(t, tip.Action)
	})

	t.Run("unknown category uses fallback", func(t *testing.T) {
		tip, err := ParseTip(`{"title":"a","message":"b","category":"finance"}`, model.CategoryWarning)
		require.NoError(t, err)
		assert.Equal(t, model.CategoryWarning, tip.Category)
	})

	t.Run("no json", func(t *testing.T) {
		_, err := ParseTip("I cannot help with that.", model.CategoryProgress)
		assert.ErrorIs(t, err, ErrNoJSON)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := ParseTip(`{"title": "a", "message": }`, model.CategoryProgress)
		assert.ErrorIs(t, err, ErrNoJSON)
	})

	t.Run("missing message", func(t *testing.T) {
		_, err := ParseTip(`{"title":"a"}`, model.CategoryProgress)
		assert.ErrorIs(t, err, ErrIncompleteTip)
	})
}

func TestJSONCandidates(t *testing.T) {
	got := jsonCandidates(`x {"a":"}"} y {"b":{"c":1}} {unclosed`)
	assert.Equal(t, []string{`{"a":"}"}`, `{"b":{"c":1}}`}, got)
}
