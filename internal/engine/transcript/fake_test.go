package transcript

import (
	"context"
	"sync"
)

type fakeTranscript struct {
	code      string
	generated bool
	segs      []Segment
	err       error
}

func (f *fakeTranscript) LanguageCode() string { return f.code }
func (f *fakeTranscript) IsGenerated() bool    { return f.generated }
func (f *fakeTranscript) Fetch(ctx context.Context) ([]Segment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.segs, nil
}

type fakeProvider struct {
	mu    sync.Mutex
	list  TranscriptList
	err   error
	calls int
	// onList runs before each listing, e.g. to cancel a context mid-run.
	onList func(call int)
}

func (p *fakeProvider) ListTranscripts(ctx context.Context, id VideoID) (TranscriptList, error) {
	p.mu.Lock()
	p.calls++
	call := p.calls
	p.mu.Unlock()
	if p.onList != nil {
		p.onList(call)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.err != nil {
		return nil, p.err
	}
	return p.list, nil
}

type panicProvider struct{}

func (panicProvider) ListTranscripts(context.Context, VideoID) (TranscriptList, error) {
	panic("boom")
}

func segs(texts ...string) []Segment {
	out := make([]Segment, len(texts))
	for i, t := range texts {
		out[i] = Segment{Text: t, Start: float64(i), Duration: 1}
	}
	return out
}
