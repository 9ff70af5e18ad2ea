package domain

import (
	"time"

	"github.com/google/uuid"
)

type SectionType string

const (
	SectionTextList SectionType = "text_list"
	SectionLinks    SectionType = "links"
	SectionGallery  SectionType = "gallery"
)

func (t SectionType) Valid() bool {
	switch t {
	case SectionTextList, SectionLinks, SectionGallery:
		return true
	}
	return false
}

type Section struct {
	ID        uuid.UUID   `json:"id"`
	ProfileID uuid.UUID   `json:"profile_id"`
	Title     string      `json:"title"`
	Type      SectionType `json:"type"`
	Content   Content     `json:"content"`
	Position  int         `json:"position"`
	Visible   bool        `json:"visible"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
