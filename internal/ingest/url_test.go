package ingest

import "testing"

func TestIsVideoURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"standard watch link", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", true},
		{"shorts link", "https://www.youtube.com/shorts/dQw4w9WgXcQ", true},
		{"mobile host", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"other host", "https://vimeo.com/12345", false},
		{"empty", "", false},
		{"not a url", "just some text", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsVideoURL(tt.url); got != tt.want {
				t.Errorf("IsVideoURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestEmbedURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			"watch link",
			"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			"https://www.youtube.com/embed/dQw4w9WgXcQ",
		},
		{
			"watch link with extra params",
			"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s",
			"https://www.youtube.com/embed/dQw4w9WgXcQ",
		},
		{
			"short link",
			"https://youtu.be/dQw4w9WgXcQ",
			"https://www.youtube.com/embed/dQw4w9WgXcQ",
		},
		{
			"shorts link",
			"https://www.youtube.com/shorts/dQw4w9WgXcQ",
			"https://www.youtube.com/embed/dQw4w9WgXcQ",
		},
		{
			"live path with id segment",
			"https://www.youtube.com/live/dQw4w9WgXcQ",
			"https://www.youtube.com/embed/dQw4w9WgXcQ",
		},
		{
			"already an embed link",
			"https://www.youtube.com/embed/dQw4w9WgXcQ",
			"https://www.youtube.com/embed/dQw4w9WgXcQ",
		},
		{
			"unrecognized link returned unchanged",
			"https://www.youtube.com/feed/subscriptions",
			"https://www.youtube.com/feed/subscriptions",
		},
		{
			"empty",
			"",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := EmbedURL(tt.url); got != tt.want {
				t.Errorf("EmbedURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestLooksLikeVideoID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		s    string
		want bool
	}{
		{"dQw4w9WgXcQ", true},
		{"abc-DEF_123", true},
		{"tooshort", false},
		{"exactly12chars!", false},
		{"has space..", false},
	}

	for _, tt := range tests {
		if got := looksLikeVideoID(tt.s); got != tt.want {
			t.Errorf("looksLikeVideoID(%q) = %v, want %v", tt.s, got, tt.want)
		}
	}
}
