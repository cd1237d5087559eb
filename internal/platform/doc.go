package platform

// Package platform contains OS/platform integration and external tooling glue:
// filesystem helpers, link normalization, video metadata and playlist listing
// via yt-dlp, and OS open/reveal.
