// Package videolink recognises YouTube URLs and builds embed URLs for them.
package videolink

import "regexp"

// Embed settings for the player iframe.
const (
	EmbedBase   = "https://www.youtube.com/embed/"
	EmbedAllow  = "accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture"
	EmbedWidth  = "100%"
	EmbedHeight = 315
)

// videoID matches the four URL shapes. The id is always group 1.
var videoID = regexp.MustCompile(
	`(?:https?://)?(?:(?:www\.|m\.)?youtube\.com/(?:watch\?(?:[^#\s]*&)?v=|embed/|v/|e/)|youtu\.be/)([A-Za-z0-9_-]{11})`,
)

// Extract returns the 11 character video id of the first recognised link in
// input, or "" when there is none.
func Extract(input string) string {
	m := videoID.FindStringSubmatch(input)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// EmbedURL returns the player URL for id, or "" for an empty id.
func EmbedURL(id string) string {
	if id == "" {
		return ""
	}
	return EmbedBase + id
}
