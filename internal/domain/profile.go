package domain

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Bio         string    `json:"bio"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	BannerURL   *string   `json:"banner_url,omitempty"`
	Theme       string    `json:"theme"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MediaPurpose selects which profile image an upload replaces.
type MediaPurpose string

const (
	MediaAvatar MediaPurpose = "avatar"
	MediaBanner MediaPurpose = "banner"
)

func (p MediaPurpose) Valid() bool {
	return p == MediaAvatar || p == MediaBanner
}
