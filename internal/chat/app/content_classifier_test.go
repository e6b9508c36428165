package app

import (
	"encoding/json"
	"testing"

	"messaging_service/internal/chat/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyText(t *testing.T) {
	const id = "4uLU6hMCjMI75M1A2tKUQC"

	tests := []struct {
		name string
		text string
		want domain.ContentType
		ok   bool
	}{
		{"plain text", "see you at 8", "", false},
		{"track url", "https://open.spotify.com/track/" + id + "?si=abc", domain.ContentSpotifyTrack, true},
		{"localized album", "https://open.spotify.com/intl-de/album/" + id, domain.ContentSpotifyAlbum, true},
		{"playlist uri", "spotify:playlist:" + id, domain.ContentSpotifyPlaylist, true},
		{"track wins over playlist", "spotify:playlist:" + id + " and spotify:track:" + id, domain.ContentSpotifyTrack, true},
		{"short id ignored", "https://open.spotify.com/track/abc", "", false},
		{"other host", "https://example.com/track/" + id, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := ClassifyText(tt.text)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			assert.Equal(t, tt.want, c.Type)

			var p domain.SpotifyPayload
			require.NoError(t, json.Unmarshal(c.Data, &p))
			assert.Equal(t, id, p.ID)
			assert.Contains(t, p.URL, "https://open.spotify.com/")
		})
	}
}
