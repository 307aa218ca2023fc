package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveVideoID(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   VideoID
		wantOK bool
	}{
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"short link with query", "https://youtu.be/dQw4w9WgXcQ?t=42", "dQw4w9WgXcQ", true},
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"watch url extra params", "https://www.youtube.com/watch?list=PL1&v=dQw4w9WgXcQ&t=5s", "dQw4w9WgXcQ", true},
		{"mobile host", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"music host", "https://music.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"repeated v keeps first", "https://www.youtube.com/watch?v=first000000&v=second00000", "first000000", true},
		{"scheme-less short link", "youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"scheme-less watch url", "www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"bare id", "abcdefghijk", "abcdefghijk", true},
		{"bare id with dash and underscore", "a-b_c-d_e-f", "a-b_c-d_e-f", true},
		{"youtube without v", "https://www.youtube.com/channel/UC123", "", false},
		{"short link without path", "https://youtu.be/", "", false},
		{"other host", "https://vimeo.com/123456789", "", false},
		{"ten chars", "abcdefghij", "", false},
		{"twelve chars", "abcdefghijkl", "", false},
		{"bad chars", "abc$efgh!jk", "", false},
		{"empty", "", "", false},
		{"garbage url", "http://[::1]:namedport", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveVideoID(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVideoIDValid(t *testing.T) {
	assert.True(t, VideoID("dQw4w9WgXcQ").Valid())
	assert.False(t, VideoID("short").Valid())
	assert.False(t, VideoID("dQw4w9WgXc!").Valid())
}
