package download

import (
	"testing"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/stretchr/testify/assert"
)

func TestComputePercent(t *testing.T) {
	tests := []struct {
		name       string
		downloaded int64
		total      int64
		want       int
	}{
		{"unknown total", 500, 0, 0},
		{"nothing yet", 0, 1000, 0},
		{"floors", 999, 1000, 99},
		{"half", 50, 100, 50},
		{"complete", 1000, 1000, 100},
		{"overshoot clamps", 1200, 1000, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputePercent(tt.downloaded, tt.total))
		})
	}
}

func TestProgressFromUpdate(t *testing.T) {
	t.Run("finished reports 100", func(t *testing.T) {
		p := progressFromUpdate(&ytdlp.ProgressUpdate{Status: ytdlp.ProgressStatusFinished})
		assert.Equal(t, 100, p.Percent)
	})

	t.Run("downloading", func(t *testing.T) {
		p := progressFromUpdate(&ytdlp.ProgressUpdate{
			Status:          ytdlp.ProgressStatusDownloading,
			TotalBytes:      4000,
			DownloadedBytes: 1000,
			Started:         time.Now().Add(-2 * time.Second),
		})
		assert.Equal(t, 25, p.Percent)
		assert.Greater(t, p.Speed, 0.0)
	})

	t.Run("unknown size", func(t *testing.T) {
		p := progressFromUpdate(&ytdlp.ProgressUpdate{Status: ytdlp.ProgressStatusDownloading})
		assert.Equal(t, 0, p.Percent)
		assert.Zero(t, p.Speed)
	})
}

func TestNewYTDLPRunner_Defaults(t *testing.T) {
	r := NewYTDLPRunner(0, nil)
	assert.Equal(t, DefaultProgressInterval, r.progressInterval)
	assert.NotNil(t, r.logger)
}
