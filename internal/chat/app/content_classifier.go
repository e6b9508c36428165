package app

import (
	"encoding/json"
	"regexp"

	"messaging_service/internal/chat/domain"

	"gorm.io/datatypes"
)

type linkPattern struct {
	typ domain.ContentType
	re  *regexp.Regexp
}

// checked in order, the first pattern that matches wins
var linkPatterns = []linkPattern{
	{domain.ContentSpotifyTrack, regexp.MustCompile(`(?:https?://open\.spotify\.com/(?:intl-[a-z]{2}/)?track/|spotify:track:)([A-Za-z0-9]{22})`)},
	{domain.ContentSpotifyAlbum, regexp.MustCompile(`(?:https?://open\.spotify\.com/(?:intl-[a-z]{2}/)?album/|spotify:album:)([A-Za-z0-9]{22})`)},
	{domain.ContentSpotifyPlaylist, regexp.MustCompile(`(?:https?://open\.spotify\.com/(?:intl-[a-z]{2}/)?playlist/|spotify:playlist:)([A-Za-z0-9]{22})`)},
}

// ClassifyText replace a text content that carries a recognised link with the
// specialised content for that link. ok is false when nothing matched.
func ClassifyText(text string) (domain.Content, bool) {
	for _, p := range linkPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		data, err := json.Marshal(domain.SpotifyPayload{
			ID:  m[1],
			URL: canonicalSpotifyURL(p.typ, m[1]),
		})
		if err != nil {
			return domain.Content{}, false
		}
		return domain.Content{Type: p.typ, Data: datatypes.JSON(data)}, true
	}
	return domain.Content{}, false
}

func canonicalSpotifyURL(t domain.ContentType, id string) string {
	kind := map[domain.ContentType]string{
		domain.ContentSpotifyTrack:    "track",
		domain.ContentSpotifyAlbum:    "album",
		domain.ContentSpotifyPlaylist: "playlist",
	}[t]
	return "https://open.spotify.com/" + kind + "/" + id
}
