package player

import (
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
)

// Metadata holds the track information shown in the header.
type Metadata struct {
	Title  string
	Artist string
	Album  string
}

// Display returns a single-line "Artist - Title" string for the header,
// omitting parts that are unknown.
func (m Metadata) Display() string {
	if m.Artist != "" && m.Title != "" {
		return m.Artist + " - " + m.Title
	}
	if m.Title != "" {
		return m.Title
	}
	return "Unknown track"
}

// ReadMetadata reads ID3v2 tags from the file, falling back to the filename.
// Non-MP3 formats rarely carry ID3 tags but id3v2 tolerates them, so the
// parse is attempted for every format.
func ReadMetadata(path string) Metadata {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err == nil {
		defer tag.Close()
		m := Metadata{
			Title:  strings.TrimSpace(tag.Title()),
			Artist: strings.TrimSpace(tag.Artist()),
			Album:  strings.TrimSpace(tag.Album()),
		}
		if m.Title != "" {
			return m
		}
	}

	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	name = strings.ReplaceAll(name, "_", " ")

	return Metadata{Title: name}
}
