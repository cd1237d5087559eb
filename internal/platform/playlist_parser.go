package platform

import (
	"context"
	"fmt"
	"time"

	ytlib "github.com/ytget/ytdlp/v2"
)

// Timeout constants
const (
	DefaultPlaylistParseTimeout = 30 * time.Second
)

// URL templates
const (
	YouTubeVideoURLTemplate = "https://www.youtube.com/watch?v=%s"
)

// PlaylistExpander lists playlist entries with the ytdlp library
type PlaylistExpander struct {
	timeout  time.Duration
	maxItems int
}

// NewPlaylistExpander creates a new playlist expander. maxItems <= 0 lists everything.
func NewPlaylistExpander(maxItems int) *PlaylistExpander {
	return &PlaylistExpander{
		timeout:  DefaultPlaylistParseTimeout,
		maxItems: max(0, maxItems),
	}
}

// SetTimeout sets the timeout for playlist listing
func (p *PlaylistExpander) SetTimeout(timeout time.Duration) {
	p.timeout = timeout
}

// VideoURLs returns the watch URLs of every video in a playlist, in playlist order
func (p *PlaylistExpander) VideoURLs(ctx context.Context, link string) ([]string, error) {
	playlistID := ExtractPlaylistID(link)
	if playlistID == "" {
		return nil, fmt.Errorf("could not extract playlist ID from URL: %s", link)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	items, err := ytlib.New().GetPlaylistItemsAll(ctx, playlistID, p.maxItems)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}

	urls := make([]string, 0, len(items))
	for _, it := range items {
		if it.VideoID == "" {
			continue
		}
		urls = append(urls, fmt.Sprintf(YouTubeVideoURLTemplate, it.VideoID))
	}
	return urls, nil
}
