package content

import "testing"

func TestExtractYouTubeID(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		wantID string
		wantOK bool
	}{
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"watch with extra params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=10s", "dQw4w9WgXcQ", true},
		{"watch plain", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"v param not first", "https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"embed", "https://www.youtube.com/embed/dQw4w9WgXcQ?autoplay=1", "dQw4w9WgXcQ", true},
		{"legacy v path", "https://www.youtube.com/v/dQw4w9WgXcQ?version=3", "dQw4w9WgXcQ", true},
		{"user upload path", "https://www.youtube.com/u/1/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"short link with fragment", "https://youtu.be/dQw4w9WgXcQ#t=30", "dQw4w9WgXcQ", true},
		{"surrounding whitespace", "  https://youtu.be/dQw4w9WgXcQ  ", "dQw4w9WgXcQ", true},
		{"not youtube", "https://example.com/not-youtube", "", false},
		{"id too short", "https://www.youtube.com/watch?v=abc123", "", false},
		{"id too long", "https://youtu.be/dQw4w9WgXcQextra", "", false},
		{"empty", "", "", false},
		{"garbage", "not a url at all", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ExtractYouTubeID(tt.url)
			if ok != tt.wantOK {
				t.Fatalf("ExtractYouTubeID(%q) ok = %v, want %v", tt.url, ok, tt.wantOK)
			}
			if id != tt.wantID {
				t.Errorf("ExtractYouTubeID(%q) = %q, want %q", tt.url, id, tt.wantID)
			}
		})
	}
}

func TestYouTubeURLs(t *testing.T) {
	if got := YouTubeWatchURL("dQw4w9WgXcQ"); got != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Errorf("unexpected watch URL %s", got)
	}
	if got := YouTubeThumbnailURL("dQw4w9WgXcQ"); got != "https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg" {
		t.Errorf("unexpected thumbnail URL %s", got)
	}
}
