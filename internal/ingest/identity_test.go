package ingest

import (
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveJobID(t *testing.T) {
	tests := []struct {
		name   string
		href   string
		wantID string
		wantOK bool
	}{
		{
			name:   "full listing href",
			href:   "/jobs/ai-chatbot-development_~987654321012/?referrer_url_path=search",
			wantID: "987654321012",
			wantOK: true,
		},
		{
			name:   "absolute URL",
			href:   "https://www.example.com/jobs/~_spa/build-bot_~021234567890123456789/",
			wantID: "021234567890123456789",
			wantOK: true,
		},
		{
			name:   "surrounding whitespace",
			href:   "  /jobs/thing_~555/  ",
			wantID: "555",
			wantOK: true,
		},
		{name: "no id pattern", href: "/jobs/some-listing/", wantOK: false},
		{name: "marker without digits", href: "/jobs/thing_~/", wantOK: false},
		{name: "empty input", href: "", wantOK: false},
		{name: "whitespace only", href: "   ", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ResolveJobID(tt.href)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestSyntheticJobID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := SyntheticJobID()
		require.Len(t, id, SyntheticIDLength)
		for _, r := range id {
			assert.True(t, unicode.IsDigit(r), "synthetic id must be digits only, got %q", id)
		}
		seen[id] = true
	}
	// 100 draws from a 21-digit space should never collide.
	assert.Len(t, seen, 100)
}

func TestResolveIdentities(t *testing.T) {
	batch := []RawJob{
		{Title: "first", Href: "/jobs/first_~111/"},
		{Title: "second", Href: "/jobs/second-no-id/"},
		{Title: "third", JobID: "/jobs/third_~333/"}, // explicit id field carries the pattern
		{Title: "fourth"},
	}

	ids := ResolveIdentities(batch)
	require.Len(t, ids, len(batch))

	require.NotNil(t, ids[0])
	assert.Equal(t, "111", ids[0].JobID)
	assert.Nil(t, ids[1])
	require.NotNil(t, ids[2])
	assert.Equal(t, "333", ids[2].JobID)
	assert.Nil(t, ids[3])
}
