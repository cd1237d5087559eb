package platform

import (
	"errors"
	"reflect"
	"testing"
)

func TestNormalizeLinks(t *testing.T) {
	input := `
https://www.youtube.com/watch?v=abc&list=PL123&t=10

https://youtube.com/playlist?list=PL999
  lofi hip hop  
https://youtu.be/xyz
https://www.youtube.com/watch?v=abc&list=OTHER&t=10
`
	expected := []string{
		"https://www.youtube.com/watch?t=10&v=abc",
		"https://youtube.com/playlist?list=PL999",
		"ytsearch:lofi hip hop",
		"https://youtu.be/xyz",
	}

	links, err := NormalizeLinks(input)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !reflect.DeepEqual(links, expected) {
		t.Errorf("NormalizeLinks() = %#v, expected %#v", links, expected)
	}
}

func TestNormalizeLinks_Empty(t *testing.T) {
	_, err := NormalizeLinks("  \n\t\n")
	if !errors.Is(err, ErrNoLinks) {
		t.Errorf("Expected ErrNoLinks, got %v", err)
	}
}

func TestStripPlaylistParam(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://www.youtube.com/watch?v=abc&list=PL1", "https://www.youtube.com/watch?v=abc"},
		{"https://www.youtube.com/watch?v=abc", "https://www.youtube.com/watch?v=abc"},
		{"https://youtu.be/abc?list=PL1", "https://youtu.be/abc"},
	}

	for _, test := range tests {
		if result := StripPlaylistParam(test.input); result != test.expected {
			t.Errorf("StripPlaylistParam(%s) = %s, expected %s", test.input, result, test.expected)
		}
	}
}

func TestExtractPlaylistID(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://www.youtube.com/playlist?list=PL123", "PL123"},
		{"https://www.youtube.com/playlist?list=PL123&si=x", "PL123"},
		{"https://www.youtube.com/watch?v=abc", ""},
	}

	for _, test := range tests {
		if result := ExtractPlaylistID(test.input); result != test.expected {
			t.Errorf("ExtractPlaylistID(%s) = %s, expected %s", test.input, result, test.expected)
		}
	}
}

func TestIsPlaylistURL(t *testing.T) {
	if !IsPlaylistURL("https://www.youtube.com/playlist?list=PL1") {
		t.Error("Expected playlist page to be detected")
	}
	if IsPlaylistURL("https://www.youtube.com/watch?v=abc&list=PL1") {
		t.Error("Watch URL with list param is not a playlist page")
	}
}
