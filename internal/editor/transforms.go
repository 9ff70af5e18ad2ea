package editor

import (
	"errors"
	"strings"

	"github.com/arlenko/folio/internal/domain"
)

var ErrIndexOutOfRange = errors.New("entry index out of range")

// SetTextLines replaces a text list's items from newline-delimited input.
// Blank and whitespace-only lines are dropped.
func SetTextLines(text string) func(*Draft) error {
	return func(d *Draft) error {
		c, ok := d.Content.(domain.TextListContent)
		if !ok {
			return ErrContentMismatch
		}
		c.Items = SplitLines(text)
		d.Content = c
		return nil
	}
}

func AddLink(link domain.Link) func(*Draft) error {
	return func(d *Draft) error {
		c, ok := d.Content.(domain.LinksContent)
		if !ok {
			return ErrContentMismatch
		}
		c.Links = append(c.Links, link)
		d.Content = c
		return nil
	}
}

func UpdateLink(index int, link domain.Link) func(*Draft) error {
	return func(d *Draft) error {
		c, ok := d.Content.(domain.LinksContent)
		if !ok {
			return ErrContentMismatch
		}
		if index < 0 || index >= len(c.Links) {
			return ErrIndexOutOfRange
		}
		links := make([]domain.Link, len(c.Links))
		copy(links, c.Links)
		links[index] = link
		c.Links = links
		d.Content = c
		return nil
	}
}

func RemoveLink(index int) func(*Draft) error {
	return func(d *Draft) error {
		c, ok := d.Content.(domain.LinksContent)
		if !ok {
			return ErrContentMismatch
		}
		if index < 0 || index >= len(c.Links) {
			return ErrIndexOutOfRange
		}
		links := make([]domain.Link, 0, len(c.Links)-1)
		links = append(links, c.Links[:index]...)
		links = append(links, c.Links[index+1:]...)
		c.Links = links
		d.Content = c
		return nil
	}
}

func AddImage(img domain.GalleryImage) func(*Draft) error {
	return func(d *Draft) error {
		c, ok := d.Content.(domain.GalleryContent)
		if !ok {
			return ErrContentMismatch
		}
		c.Images = append(c.Images, img)
		d.Content = c
		return nil
	}
}

func UpdateImage(index int, img domain.GalleryImage) func(*Draft) error {
	return func(d *Draft) error {
		c, ok := d.Content.(domain.GalleryContent)
		if !ok {
			return ErrContentMismatch
		}
		if index < 0 || index >= len(c.Images) {
			return ErrIndexOutOfRange
		}
		images := make([]domain.GalleryImage, len(c.Images))
		copy(images, c.Images)
		images[index] = img
		c.Images = images
		d.Content = c
		return nil
	}
}

func RemoveImage(index int) func(*Draft) error {
	return func(d *Draft) error {
		c, ok := d.Content.(domain.GalleryContent)
		if !ok {
			return ErrContentMismatch
		}
		if index < 0 || index >= len(c.Images) {
			return ErrIndexOutOfRange
		}
		images := make([]domain.GalleryImage, 0, len(c.Images)-1)
		images = append(images, c.Images[:index]...)
		images = append(images, c.Images[index+1:]...)
		c.Images = images
		d.Content = c
		return nil
	}
}

// SplitLines splits newline-delimited text into trimmed, non-blank items.
func SplitLines(text string) []string {
	items := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			items = append(items, line)
		}
	}
	return items
}

// JoinLines is the inverse of SplitLines for lists without blank entries.
func JoinLines(items []string) string {
	return strings.Join(items, "\n")
}
