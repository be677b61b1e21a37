// Package media defines the descriptor handed from extraction to download.
package media

import "galleryscraper/pkg/format"

// PlaceholderURL is downloaded when a post page offers no recognisable media.
const PlaceholderURL = "https://i.pinimg.com/originals/13/92/6c/13926cfb3fd8818166d8b3149e0696de.jpg"

// PlaceholderTitle is the title given to the placeholder media.
const PlaceholderTitle = "placeholder"

// Kind distinguishes still images from videos
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Media describes one downloadable item found on a post page.
// FileType always carries a leading dot.
type Media struct {
	Title       string
	URL         string
	FileType    string
	Kind        Kind
	Placeholder bool
}

// PlaceholderMedia returns the fallback descriptor used when extraction
// finds nothing.
func PlaceholderMedia() Media {
	ext, ok := format.Resolve(PlaceholderURL)
	if !ok {
		ext = ".jpg"
	}
	return Media{
		Title:       PlaceholderTitle,
		URL:         PlaceholderURL,
		FileType:    ext,
		Kind:        KindImage,
		Placeholder: true,
	}
}

// String renders the descriptor for log lines.
func (m Media) String() string {
	if m.Placeholder {
		return "placeholder " + m.URL
	}
	return string(m.Kind) + " " + m.URL
}
