package content

import (
	"regexp"
	"strings"
)

// youTubeIDLength is the length of every YouTube video ID
const youTubeIDLength = 11

// youTubeIDPattern captures the token after any of the known YouTube URL shapes:
// youtu.be/<id>, /v/<id>, /u/<n>/<id>, /embed/<id>, watch?v=<id>, &v=<id>.
var youTubeIDPattern = regexp.MustCompile(`^.*(youtu\.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*).*`)

// ExtractYouTubeID returns the 11-character video ID from a YouTube URL.
// ok is false for anything that does not match or yields an ID of the wrong length.
func ExtractYouTubeID(rawURL string) (id string, ok bool) {
	m := youTubeIDPattern.FindStringSubmatch(strings.TrimSpace(rawURL))
	if len(m) < 3 || len(m[2]) != youTubeIDLength {
		return "", false
	}
	return m[2], true
}

// YouTubeWatchURL returns the canonical watch URL for a video ID
func YouTubeWatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// YouTubeThumbnailURL returns the high-quality thumbnail URL for a video ID
func YouTubeThumbnailURL(id string) string {
	return "https://img.youtube.com/vi/" + id + "/hqdefault.jpg"
}
