package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordFilter_Match(t *testing.T) {
	f := NewKeywordFilter([]string{"Climate Report", "CWA", ""})

	kw, ok := f.Match("Daily Climate Report for DSM", "")
	assert.True(t, ok)
	assert.Equal(t, "Climate Report", kw)

	kw, ok = f.Match("Advisory", "issued CWA 101")
	assert.True(t, ok)
	assert.Equal(t, "CWA", kw)

	_, ok = f.Match("Tornado Warning", "Take cover now.")
	assert.False(t, ok)
}

func TestKeywordFilter_CaseSensitiveSubstring(t *testing.T) {
	f := NewKeywordFilter([]string{"CWA"})

	_, ok := f.Match("cwa lowercase", "")
	assert.False(t, ok, "matching is case-sensitive")

	_, ok = f.Match("XCWAX", "")
	assert.True(t, ok, "matching is not word-boundary aware")
}

func TestKeywordFilter_DropsEmptyKeywords(t *testing.T) {
	f := NewKeywordFilter([]string{"", "A"})
	assert.Equal(t, []string{"A"}, f.Keywords())

	_, ok := NewKeywordFilter([]string{""}).Match("anything", "at all")
	assert.False(t, ok)
}

func TestAlertEntry_Validate(t *testing.T) {
	ok := AlertEntry{ID: "http://x/1", Title: "T", Summary: "S"}
	require.NoError(t, ok.Validate())

	for name, e := range map[string]AlertEntry{
		"missing link":    {Title: "T", Summary: "S"},
		"missing title":   {ID: "http://x/1", Summary: "S"},
		"missing summary": {ID: "http://x/1", Title: "T"},
	} {
		t.Run(name, func(t *testing.T) {
			err := e.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedEntry))
		})
	}
}
