package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// ContentType tag of the content union
type ContentType string

const (
	ContentText            ContentType = "text"
	ContentSticker         ContentType = "sticker"
	ContentImage           ContentType = "image"
	ContentFile            ContentType = "file"
	ContentPoll            ContentType = "poll"
	ContentContact         ContentType = "contact"
	ContentSpotifyTrack    ContentType = "spotify_track"
	ContentSpotifyAlbum    ContentType = "spotify_album"
	ContentSpotifyPlaylist ContentType = "spotify_playlist"
)

// Content definition message payload, Data shape depends on Type
type Content struct {
	ID        uint           `gorm:"primaryKey" json:"-"`
	Type      ContentType    `gorm:"size:32;not null" json:"type"`
	Data      datatypes.JSON `json:"data"`
	CreatedAt time.Time      `json:"-"`
}

// TextPayload text content
type TextPayload struct {
	Text string `json:"text"`
}

// StickerPayload sticker content
type StickerPayload struct {
	Pack string `json:"pack"`
	Name string `json:"name"`
}

// ImagePayload image content
type ImagePayload struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// FilePayload file content
type FilePayload struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Size int64  `json:"size,omitempty"`
}

// PollPayload poll content
type PollPayload struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// ContactPayload shares another user
type ContactPayload struct {
	UserID uint `json:"userId"`
}

// SpotifyPayload track, album or playlist reference
type SpotifyPayload struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Valid report whether t is a known content type
func (t ContentType) Valid() bool {
	switch t {
	case ContentText, ContentSticker, ContentImage, ContentFile, ContentPoll,
		ContentContact, ContentSpotifyTrack, ContentSpotifyAlbum, ContentSpotifyPlaylist:
		return true
	}
	return false
}

// IsSpotify report whether t is one of the spotify kinds
func (t ContentType) IsSpotify() bool {
	return t == ContentSpotifyTrack || t == ContentSpotifyAlbum || t == ContentSpotifyPlaylist
}

// NewContent validate data against the payload schema of t
func NewContent(t ContentType, data json.RawMessage) (Content, error) {
	if !t.Valid() {
		return Content{}, fmt.Errorf("%w: unknown type %q", ErrInvalidContent, t)
	}
	if len(data) == 0 {
		return Content{}, fmt.Errorf("%w: %s payload is empty", ErrInvalidContent, t)
	}
	if err := validatePayload(t, data); err != nil {
		return Content{}, err
	}
	return Content{Type: t, Data: datatypes.JSON(data)}, nil
}

func validatePayload(t ContentType, data json.RawMessage) error {
	invalid := func(reason string) error {
		return fmt.Errorf("%w: %s %s", ErrInvalidContent, t, reason)
	}

	switch t {
	case ContentText:
		var p TextPayload
		if err := strictUnmarshal(data, &p); err != nil {
			return invalid(err.Error())
		}
		if strings.TrimSpace(p.Text) == "" {
			return invalid("text is required")
		}
	case ContentSticker:
		var p StickerPayload
		if err := strictUnmarshal(data, &p); err != nil {
			return invalid(err.Error())
		}
		if p.Name == "" {
			return invalid("name is required")
		}
	case ContentImage:
		var p ImagePayload
		if err := strictUnmarshal(data, &p); err != nil {
			return invalid(err.Error())
		}
		if p.URL == "" {
			return invalid("url is required")
		}
	case ContentFile:
		var p FilePayload
		if err := strictUnmarshal(data, &p); err != nil {
			return invalid(err.Error())
		}
		if p.URL == "" || p.Name == "" {
			return invalid("url and name are required")
		}
	case ContentPoll:
		var p PollPayload
		if err := strictUnmarshal(data, &p); err != nil {
			return invalid(err.Error())
		}
		if p.Question == "" || len(p.Options) < 2 {
			return invalid("needs a question and at least two options")
		}
	case ContentContact:
		var p ContactPayload
		if err := strictUnmarshal(data, &p); err != nil {
			return invalid(err.Error())
		}
		if p.UserID == 0 {
			return invalid("userId is required")
		}
	case ContentSpotifyTrack, ContentSpotifyAlbum, ContentSpotifyPlaylist:
		var p SpotifyPayload
		if err := strictUnmarshal(data, &p); err != nil {
			return invalid(err.Error())
		}
		if p.ID == "" {
			return invalid("id is required")
		}
	}
	return nil
}

func strictUnmarshal(data json.RawMessage, v interface{}) error {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	// exactly one value, only whitespace may follow
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("unexpected data after payload")
	}
	return nil
}
