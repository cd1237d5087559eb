package ffmpeg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, BinaryName())
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755))

	assert.NoError(t, Check(bin))
	assert.ErrorIs(t, Check(filepath.Join(dir, "missing")), ErrNotFound)
	assert.ErrorIs(t, Check(dir), ErrNotFound)
	assert.ErrorIs(t, Check(""), ErrNotFound)
}

func TestLocate_Configured(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, BinaryName())
	require.NoError(t, os.WriteFile(bin, []byte("x"), 0o755))

	path, err := Locate(bin)
	require.NoError(t, err)
	assert.Equal(t, bin, path)

	_, err = Locate(filepath.Join(dir, "nope"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		output   string
		expected string
	}{
		{"ffmpeg version 6.1.1 Copyright (c) 2000-2023\nbuilt with gcc", "6.1.1"},
		{"ffmpeg version N-112345-g1234567, Copyright", "N-112345-g1234567"},
		{"something else", "something else"},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, parseVersion(test.output))
	}
}
