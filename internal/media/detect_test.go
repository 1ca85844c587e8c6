package media

import (
	"strings"
	"testing"
)

func TestIsSupportedExt(t *testing.T) {
	for _, ext := range []string{".mp3", ".wav", ".flac", ".ogg", ".MP3", ".Flac"} {
		if !IsSupportedExt(ext) {
			t.Fatalf("expected %s to be supported", ext)
		}
	}
	for _, ext := range []string{".aac", ".m4a", ".txt", ".m3u", ""} {
		if IsSupportedExt(ext) {
			t.Fatalf("expected %s to be unsupported", ext)
		}
	}
}

func TestSupportedExtsListMatchesMap(t *testing.T) {
	list := SupportedExtsList()
	for ext := range audioExts {
		if !strings.Contains(list, ext) {
			t.Fatalf("expected supported ext list to include %s, got %q", ext, list)
		}
	}
}
