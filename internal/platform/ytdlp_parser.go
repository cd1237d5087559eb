package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/yt-queue/internal/model"
)

// Timeout constants
const (
	DefaultParseTimeout = 60 * time.Second
)

// yt-dlp JSON markers
const (
	TypePlaylist = "playlist"
	NoCodec      = "none"
)

// InfoCache memoizes provider results by link
type InfoCache interface {
	Get(link string) ([]model.VideoInfo, bool)
	Put(link string, infos []model.VideoInfo) error
}

// PlaylistLister enumerates the video URLs of a playlist link
type PlaylistLister interface {
	VideoURLs(ctx context.Context, link string) ([]string, error)
}

// JSONFetcher returns yt-dlp's single-JSON dump for a link
type JSONFetcher func(ctx context.Context, link string) ([]byte, error)

// InfoService resolves links to video metadata using yt-dlp
type InfoService struct {
	timeout   time.Duration
	cache     InfoCache
	playlists PlaylistLister
	fetchJSON JSONFetcher
	logger    *slog.Logger
}

// NewInfoService creates a provider. cache and playlists may be nil.
func NewInfoService(cache InfoCache, playlists PlaylistLister, logger *slog.Logger) *InfoService {
	if logger == nil {
		logger = slog.Default()
	}
	return &InfoService{
		timeout:   DefaultParseTimeout,
		cache:     cache,
		playlists: playlists,
		fetchJSON: dumpSingleJSON,
		logger:    logger.With("component", "info"),
	}
}

// SetTimeout sets the timeout for one link lookup
func (s *InfoService) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		s.timeout = timeout
	}
}

// SetJSONFetcher replaces the yt-dlp invocation
func (s *InfoService) SetJSONFetcher(fetch JSONFetcher) {
	s.fetchJSON = fetch
}

// FetchInfo returns the metadata records for a link. Cached results are used
// when available; an unreadable cache entry falls through to a live lookup.
// The lookup timeout applies to every video separately, so long playlists
// are not cut short.
func (s *InfoService) FetchInfo(ctx context.Context, link string) ([]model.VideoInfo, error) {
	if s.cache != nil {
		if infos, ok := s.cache.Get(link); ok {
			s.logger.Debug("info cache hit", "link", link)
			return infos, nil
		}
	}

	var (
		infos []model.VideoInfo
		err   error
	)
	if s.playlists != nil && IsPlaylistURL(link) {
		infos, err = s.fetchPlaylist(ctx, link)
	} else {
		infos, err = s.fetchSingle(ctx, link)
	}
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, fmt.Errorf("no videos found for %s", link)
	}

	if s.cache != nil {
		if err := s.cache.Put(link, infos); err != nil {
			s.logger.Warn("failed to cache info", "link", link, "error", err)
		}
	}
	return infos, nil
}

func (s *InfoService) fetchSingle(ctx context.Context, link string) ([]model.VideoInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	data, err := s.fetchJSON(ctx, link)
	if err != nil {
		return nil, fmt.Errorf("failed to extract info for %s: %w", link, err)
	}
	return parseInfoJSON(data, link)
}

// fetchPlaylist lists the playlist, then resolves each video in order.
// Videos that fail or time out are skipped. Cancelling ctx drops the batch.
func (s *InfoService) fetchPlaylist(ctx context.Context, link string) ([]model.VideoInfo, error) {
	urls, err := s.playlists.VideoURLs(ctx, link)
	if err != nil {
		return nil, err
	}

	infos := make([]model.VideoInfo, 0, len(urls))
	for _, u := range urls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entry, err := s.fetchSingle(ctx, u)
		if err != nil {
			s.logger.Warn("skipping playlist entry", "url", u, "error", err)
			continue
		}
		infos = append(infos, entry...)
	}
	return infos, nil
}

// dumpSingleJSON runs "yt-dlp -J <link>"
func dumpSingleJSON(ctx context.Context, link string) ([]byte, error) {
	res, err := ytdlp.New().DumpSingleJSON().Run(ctx, link)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(res.Stdout) == "" {
		return nil, fmt.Errorf("yt-dlp returned empty output")
	}
	return []byte(res.Stdout), nil
}

// parseInfoJSON converts a yt-dlp single-JSON dump. Playlists and searches
// yield their entries; entries without a page URL are dropped.
func parseInfoJSON(data []byte, link string) ([]model.VideoInfo, error) {
	raw := json.RawMessage(data)
	extracted, err := ytdlp.ParseExtractedInfo(&raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp output: %w", err)
	}

	if string(extracted.Type) != TypePlaylist && extracted.Entries == nil {
		info := convertInfo(extracted)
		if info.URL == "" {
			info.URL = link
		}
		return []model.VideoInfo{info}, nil
	}

	infos := make([]model.VideoInfo, 0, len(extracted.Entries))
	for _, entry := range extracted.Entries {
		if entry == nil {
			continue
		}
		info := convertInfo(entry)
		if info.URL == "" {
			continue
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func convertInfo(extracted *ytdlp.ExtractedInfo) model.VideoInfo {
	info := model.VideoInfo{
		URL:          stringValue(extracted.WebpageURL),
		Title:        stringValue(extracted.Title),
		ThumbnailURL: stringValue(extracted.Thumbnail),
		Duration:     numberValue(extracted.Duration),
		Formats:      make([]model.Format, 0, len(extracted.Formats)),
	}
	for _, f := range extracted.Formats {
		if f == nil {
			continue
		}
		format := model.Format{
			ID:        stringValue(f.FormatID),
			Container: stringValue(f.Extension),
			Height:    int(numberValue(f.Height)),
		}
		// yt-dlp omits vcodec for some single-stream sites
		vcodec := stringValue(f.VCodec)
		format.HasVideo = vcodec != NoCodec && (vcodec != "" || format.Height > 0)

		format.FileSize = int64(numberValue(f.FileSize))
		if format.FileSize == 0 {
			format.FileSize = int64(numberValue(f.FileSizeApprox))
		}
		info.Formats = append(info.Formats, format)
	}
	return info
}

// stringValue reads an optional string field of the extracted info
func stringValue(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case *string:
		if s != nil {
			return *s
		}
	}
	return ""
}

// numberValue reads an optional numeric field of the extracted info
func numberValue(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case *float64:
		if n != nil {
			return *n
		}
	case int:
		return float64(n)
	case *int:
		if n != nil {
			return float64(*n)
		}
	case int64:
		return float64(n)
	case *int64:
		if n != nil {
			return float64(*n)
		}
	}
	return 0
}
