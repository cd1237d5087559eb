package model

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrNoMatchingFormat is returned when no mp4 video stream can serve a resolution
var ErrNoMatchingFormat = errors.New("no matching mp4 format")

// ResolutionSuffix is appended to a height to build a resolution label
const ResolutionSuffix = "p"

// ResolutionLabel returns the label for a stream height, e.g. 1080 -> "1080p"
func ResolutionLabel(height int) string {
	return strconv.Itoa(height) + ResolutionSuffix
}

// ParseResolution converts a label such as "720p" (or plain "720") to a height
func ParseResolution(label string) (int, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(strings.ToLower(label)), ResolutionSuffix)
	height, err := strconv.Atoi(trimmed)
	if err != nil || height <= 0 {
		return 0, fmt.Errorf("invalid resolution %q", label)
	}
	return height, nil
}

// isCandidate reports whether a stream can be picked by resolution
func isCandidate(f Format) bool {
	return f.HasVideo && f.Height > 0 && strings.EqualFold(f.Container, ContainerMP4)
}

// Resolutions returns the distinct resolution labels of the mp4 video streams,
// highest first
func Resolutions(formats []Format) []string {
	seen := make(map[int]struct{})
	heights := make([]int, 0, len(formats))
	for _, f := range formats {
		if !isCandidate(f) {
			continue
		}
		if _, ok := seen[f.Height]; ok {
			continue
		}
		seen[f.Height] = struct{}{}
		heights = append(heights, f.Height)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(heights)))

	labels := make([]string, 0, len(heights))
	for _, h := range heights {
		labels = append(labels, ResolutionLabel(h))
	}
	return labels
}

// ResolveFormat picks the stream to download for a resolution label.
//
// Among streams with exactly the requested height the one with the largest
// declared size wins (first seen on ties). Without an exact match the closest
// lower height is used. A higher resolution than requested is never chosen.
func ResolveFormat(formats []Format, label string) (Format, error) {
	target, err := ParseResolution(label)
	if err != nil {
		return Format{}, err
	}

	var (
		exact    Format
		hasExact bool
		lower    Format
		hasLower bool
	)
	for _, f := range formats {
		if !isCandidate(f) {
			continue
		}
		switch {
		case f.Height == target:
			if !hasExact || f.FileSize > exact.FileSize {
				exact, hasExact = f, true
			}
		case f.Height < target:
			if !hasLower || f.Height > lower.Height ||
				(f.Height == lower.Height && f.FileSize > lower.FileSize) {
				lower, hasLower = f, true
			}
		}
	}

	if hasExact {
		return exact, nil
	}
	if hasLower {
		return lower, nil
	}
	return Format{}, fmt.Errorf("%w for %s", ErrNoMatchingFormat, label)
}
