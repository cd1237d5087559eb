package platform

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// Link handling constants
const (
	SearchPrefix      = "ytsearch:"
	PlaylistQueryKey  = "list"
	PlaylistIDParam   = "list="
	PlaylistSeparator = "&"
)

// ErrNoLinks is returned when pasted input contains nothing usable
var ErrNoLinks = errors.New("no usable input or URLs found")

var (
	playlistPageRe = regexp.MustCompile(`(?i)^https?://(?:www\.)?youtube\.com/playlist\?list=`)
	youtubeURLRe   = regexp.MustCompile(`^https?://(?:www\.)?(youtube\.com|youtu\.be)/`)
)

// NormalizeLinks turns pasted text into fetchable links, one per non-blank
// line. Playlist pages are kept, other YouTube URLs lose their playlist
// parameter and free text becomes a search query. Duplicates are dropped,
// first occurrence wins.
func NormalizeLinks(text string) ([]string, error) {
	seen := make(map[string]struct{})
	var links []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var link string
		switch {
		case playlistPageRe.MatchString(line):
			link = line
		case youtubeURLRe.MatchString(line):
			link = StripPlaylistParam(line)
		default:
			link = SearchPrefix + line
		}

		if _, ok := seen[link]; ok {
			continue
		}
		seen[link] = struct{}{}
		links = append(links, link)
	}

	if len(links) == 0 {
		return nil, ErrNoLinks
	}
	return links, nil
}

// StripPlaylistParam removes the "list" query parameter from a URL
func StripPlaylistParam(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if !q.Has(PlaylistQueryKey) {
		return raw
	}
	q.Del(PlaylistQueryKey)
	u.RawQuery = q.Encode()
	return u.String()
}

// IsPlaylistURL reports whether a link points at a playlist page
func IsPlaylistURL(link string) bool {
	return playlistPageRe.MatchString(link)
}

// ExtractPlaylistID extracts the playlist ID from a playlist URL
func ExtractPlaylistID(link string) string {
	_, after, ok := strings.Cut(link, PlaylistIDParam)
	if !ok {
		return ""
	}
	id, _, _ := strings.Cut(after, PlaylistSeparator)
	return id
}
