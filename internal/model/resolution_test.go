package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mp4(id string, height int, size int64) Format {
	return Format{ID: id, Height: height, Container: "mp4", HasVideo: true, FileSize: size}
}

func TestResolutions(t *testing.T) {
	formats := []Format{
		mp4("a", 720, 1),
		mp4("b", 1080, 1),
		mp4("c", 720, 2),
		{ID: "webm", Height: 1440, Container: "webm", HasVideo: true},
		{ID: "audio", Container: "mp4"},
		{ID: "unknown-height", Container: "mp4", HasVideo: true},
		mp4("d", 360, 1),
	}

	assert.Equal(t, []string{"1080p", "720p", "360p"}, Resolutions(formats))
	assert.Empty(t, Resolutions(nil))
}

func TestResolveFormat(t *testing.T) {
	formats := []Format{
		mp4("1080-small", 1080, 500),
		mp4("1080-large", 1080, 700),
		mp4("720", 720, 300),
	}

	tests := []struct {
		target string
		wantID string
	}{
		{"1080p", "1080-large"},
		{"900p", "720"},
		{"2160p", "1080-large"},
		{"720p", "720"},
	}

	for _, test := range tests {
		t.Run(test.target, func(t *testing.T) {
			got, err := ResolveFormat(formats, test.target)
			require.NoError(t, err)
			assert.Equal(t, test.wantID, got.ID)
		})
	}
}

func TestResolveFormat_NeverPicksHigher(t *testing.T) {
	formats := []Format{mp4("1080", 1080, 700), mp4("720", 720, 300)}

	_, err := ResolveFormat(formats, "480p")
	assert.ErrorIs(t, err, ErrNoMatchingFormat)
}

func TestResolveFormat_TieKeepsFirstSeen(t *testing.T) {
	formats := []Format{mp4("first", 720, 100), mp4("second", 720, 100)}

	got, err := ResolveFormat(formats, "720p")
	require.NoError(t, err)
	assert.Equal(t, "first", got.ID)
}

func TestResolveFormat_NoCandidates(t *testing.T) {
	formats := []Format{
		{ID: "webm", Height: 720, Container: "webm", HasVideo: true},
		{ID: "audio", Container: "mp4"},
	}

	_, err := ResolveFormat(formats, "720p")
	assert.ErrorIs(t, err, ErrNoMatchingFormat)
}

func TestResolveFormat_InvalidLabel(t *testing.T) {
	_, err := ResolveFormat([]Format{mp4("a", 720, 1)}, "hd")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoMatchingFormat)
}

func TestParseResolution(t *testing.T) {
	h, err := ParseResolution("720p")
	require.NoError(t, err)
	assert.Equal(t, 720, h)

	h, err = ParseResolution(" 1080P ")
	require.NoError(t, err)
	assert.Equal(t, 1080, h)

	_, err = ParseResolution("p")
	assert.Error(t, err)
	_, err = ParseResolution("-5p")
	assert.Error(t, err)
}
