package transcript

import (
	"net/url"
	"regexp"
	"strings"
)

var videoIDRE = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// ResolveVideoID extracts a video identifier from a youtu.be link, a youtube.com
// watch URL, or a bare 11-character id. First matching rule wins.
func ResolveVideoID(input string) (VideoID, bool) {
	input = strings.TrimSpace(input)
	if u, err := parseLink(input); err == nil {
		host := u.Hostname()
		if host == "youtu.be" {
			id := strings.TrimPrefix(u.Path, "/")
			return VideoID(id), id != ""
		}
		if strings.Contains(host, "youtube.com") {
			id := u.Query().Get("v")
			return VideoID(id), id != ""
		}
	}
	if videoIDRE.MatchString(input) {
		return VideoID(input), true
	}
	return "", false
}

// parseLink parses input as a URL, accepting scheme-less links such as
// "youtu.be/<id>" that browsers and chat clients commonly produce.
func parseLink(input string) (*url.URL, error) {
	u, err := url.Parse(input)
	if err != nil || u.Host != "" {
		return u, err
	}
	for _, prefix := range []string{"youtu.be/", "youtube.com/", "www.youtube.com/", "m.youtube.com/"} {
		if strings.HasPrefix(input, prefix) {
			return url.Parse("https://" + input)
		}
	}
	return u, nil
}

// Valid reports whether id has the canonical 11-character shape.
func (id VideoID) Valid() bool {
	return videoIDRE.MatchString(string(id))
}

func (id VideoID) String() string { return string(id) }
