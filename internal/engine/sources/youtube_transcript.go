package sources

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/engine/transcript"
)

// YouTube caption listing.
// Primary:  scrape watch page ytInitialPlayerResponse → captionTracks (works from any IP)
// Fallback: ANDROID Innertube /player → captionTracks (works from non-blocked IPs)
// Segments come from the track's timedtext XML.

// YouTube is a transcript.Provider backed by YouTube's public web endpoints.
type YouTube struct {
	client    *http.Client
	page      pageFunc // nil = watch page fetched with client
	limiter   *rate.Limiter
	retry     engine.RetryConfig
	watchURL  string
	playerURL string
}

var _ transcript.Provider = (*YouTube)(nil)

// YouTubeOption configures a YouTube provider.
type YouTubeOption func(*YouTube)

// WithHTTPClient overrides engine.Cfg.HTTPClient.
func WithHTTPClient(c *http.Client) YouTubeOption {
	return func(y *YouTube) { y.client = c }
}

// WithBrowserClient routes watch page requests through a stealth browser client.
func WithBrowserClient(bc *engine.BrowserClient) YouTubeOption {
	return func(y *YouTube) { y.page = browserPage(bc) }
}

// WithRateLimit caps outbound requests to YouTube. rps <= 0 disables the limit.
func WithRateLimit(rps float64, burst int) YouTubeOption {
	return func(y *YouTube) { y.limiter = newLimiter(rps, burst) }
}

// WithEndpoints overrides the watch page and Innertube player URLs.
func WithEndpoints(watchURL, playerURL string) YouTubeOption {
	return func(y *YouTube) {
		y.watchURL = watchURL
		y.playerURL = playerURL
	}
}

// NewYouTube builds a provider from engine.Cfg, then applies opts.
func NewYouTube(opts ...YouTubeOption) *YouTube {
	y := &YouTube{
		client:    engine.Cfg.HTTPClient,
		page:      browserPage(engine.Cfg.BrowserClient),
		limiter:   newLimiter(engine.Cfg.YouTubeRPS, engine.Cfg.YouTubeBurst),
		retry:     engine.DefaultRetryConfig,
		watchURL:  ytWatchURL,
		playerURL: ytInnertubeURL,
	}
	for _, o := range opts {
		o(y)
	}
	if y.client == nil {
		y.client = http.DefaultClient
	}
	return y
}

func newLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

func (y *YouTube) wait(ctx context.Context) error {
	engine.IncrYouTubeRequests()
	if err := y.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("youtube rate limit: %w", err)
	}
	return nil
}

// ListTranscripts returns the caption tracks of a video in YouTube's order.
func (y *YouTube) ListTranscripts(ctx context.Context, id transcript.VideoID) (transcript.TranscriptList, error) {
	videoID := string(id)

	player, err := y.watchPlayer(ctx, videoID)
	if err != nil || !player.playable() {
		slog.Debug("youtube: watch page unusable, trying android player",
			slog.String("id", videoID), slog.Any("err", err))
		alt, altErr := y.postInnerTubeAndroid(ctx, videoID)
		switch {
		case altErr == nil && (err != nil || alt.playable()):
			player, err = alt, nil
		case err != nil:
			return nil, fmt.Errorf("%w; %w", err, altErr)
		}
	}
	return y.transcriptsFrom(id, player)
}

func (y *YouTube) watchPlayer(ctx context.Context, videoID string) (*innertubePlayerResp, error) {
	body, err := y.getWatchPage(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return parseWatchPlayer(body)
}

// transcriptsFrom converts a player response into a transcript list, mapping
// missing captions to typed errors.
func (y *YouTube) transcriptsFrom(id transcript.VideoID, player *innertubePlayerResp) (transcript.TranscriptList, error) {
	if !player.playable() {
		return nil, fmt.Errorf("%w: %s", transcript.ErrVideoUnavailable, player.unplayableReason())
	}
	if player.Captions == nil {
		return nil, fmt.Errorf("%w (video %s)", transcript.ErrTranscriptsDisabled, id)
	}
	tracks := player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w (video %s)", transcript.ErrTranscriptsDisabled, id)
	}

	list := make(transcript.TranscriptList, 0, len(tracks))
	for _, t := range tracks {
		if needsPoToken(t.BaseURL) {
			continue
		}
		list = append(list, &ytTranscript{yt: y, track: t})
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: all caption tracks require PoToken", transcript.ErrCaptionsUnavailable)
	}
	return list, nil
}

// needsPoToken reports whether a caption track URL requires a PoToken (browser-only).
// Tracks with &exp=xpe cannot be fetched server-side.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// ytTranscript is one listed caption track.
type ytTranscript struct {
	yt    *YouTube
	track captionTrack
}

func (t *ytTranscript) LanguageCode() string { return t.track.LanguageCode }
func (t *ytTranscript) IsGenerated() bool    { return t.track.Kind == "asr" }

// Fetch downloads and parses the track's timedtext XML.
func (t *ytTranscript) Fetch(ctx context.Context) ([]transcript.Segment, error) {
	return t.yt.fetchTimedText(ctx, t.track.BaseURL)
}

// timedTextURL drops any fmt parameter so YouTube serves its default XML format.
func timedTextURL(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}
	q := u.Query()
	if !q.Has("fmt") {
		return baseURL
	}
	q.Del("fmt")
	u.RawQuery = q.Encode()
	return u.String()
}

// fetchTimedText fetches and parses a YouTube timedtext XML caption URL.
func (y *YouTube) fetchTimedText(ctx context.Context, baseURL string) ([]transcript.Segment, error) {
	if err := y.wait(ctx); err != nil {
		return nil, err
	}
	target := timedTextURL(baseURL)
	resp, err := engine.RetryHTTP(ctx, y.retry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentChrome)
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		return y.client.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch timedtext: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch timedtext: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTimedTextBytes))
	if err != nil {
		return nil, err
	}
	return parseTimedText(body)
}

// parseTimedText decodes timedtext XML into segments, dropping lines with no text.
// An empty body means YouTube refused the request without an error status.
func parseTimedText(body []byte) ([]transcript.Segment, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, errors.New("empty timedtext response")
	}
	var tt ytTimedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}

	segs := make([]transcript.Segment, 0, len(tt.Lines)+len(tt.Body.Paras))
	for _, line := range tt.Lines {
		text := engine.CleanCaption(line.Text)
		if text == "" {
			continue
		}
		segs = append(segs, transcript.Segment{Text: text, Start: line.Start, Duration: line.Dur})
	}
	for _, p := range tt.Body.Paras {
		text := engine.CleanCaption(p.Text)
		if text == "" {
			continue
		}
		segs = append(segs, transcript.Segment{
			Text:     text,
			Start:    float64(p.T) / 1000,
			Duration: float64(p.D) / 1000,
		})
	}
	return segs, nil
}
