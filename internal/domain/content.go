package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnknownSectionType = errors.New("unknown section type")

// Content is the payload of a section. The concrete shape is determined by
// the section's type tag; every decode and render site switches on the tag
// exhaustively.
type Content interface {
	sectionContent()
}

type Link struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type GalleryImage struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

type TextListContent struct {
	Items []string `json:"items"`
}

type LinksContent struct {
	Links []Link `json:"links"`
}

type GalleryContent struct {
	Images []GalleryImage `json:"images"`
}

func (TextListContent) sectionContent() {}
func (LinksContent) sectionContent()    {}
func (GalleryContent) sectionContent()  {}

// DefaultContent returns the empty payload a freshly added section starts with.
func DefaultContent(t SectionType) (Content, error) {
	switch t {
	case SectionTextList:
		return TextListContent{Items: []string{}}, nil
	case SectionLinks:
		return LinksContent{Links: []Link{}}, nil
	case SectionGallery:
		return GalleryContent{Images: []GalleryImage{}}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSectionType, t)
	}
}

// DecodeContent parses a raw payload according to the type tag. Missing
// arrays are normalized to empty so callers never see a nil list.
func DecodeContent(t SectionType, raw []byte) (Content, error) {
	if len(raw) == 0 {
		return DefaultContent(t)
	}

	switch t {
	case SectionTextList:
		var c TextListContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decoding text_list content: %w", err)
		}
		if c.Items == nil {
			c.Items = []string{}
		}
		return c, nil
	case SectionLinks:
		var c LinksContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decoding links content: %w", err)
		}
		if c.Links == nil {
			c.Links = []Link{}
		}
		return c, nil
	case SectionGallery:
		var c GalleryContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decoding gallery content: %w", err)
		}
		if c.Images == nil {
			c.Images = []GalleryImage{}
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSectionType, t)
	}
}

func EncodeContent(c Content) ([]byte, error) {
	return json.Marshal(c)
}

// ContentMatches reports whether the payload's concrete shape agrees with the
// section's type tag.
func ContentMatches(t SectionType, c Content) bool {
	switch t {
	case SectionTextList:
		_, ok := c.(TextListContent)
		return ok
	case SectionLinks:
		_, ok := c.(LinksContent)
		return ok
	case SectionGallery:
		_, ok := c.(GalleryContent)
		return ok
	}
	return false
}
