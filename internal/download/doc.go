package download

// Package download implements the download queue built on top of yt-dlp
// (via github.com/lrstanley/go-ytdlp). A single controller goroutine owns every
// queue item and the active-download counter; download tasks and metadata
// fetch batches run on their own goroutines and report back over a typed event
// channel.
