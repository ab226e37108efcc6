package pages

import (
	"context"
	"sort"
	"sync"
)

// Recorder is a Registrar that keeps every page it receives, optionally
// forwarding each one to Next first. Pages that Next rejects are not kept.
type Recorder struct {
	Next Registrar

	mu    sync.Mutex
	pages []Page
}

// NewRecorder returns a Recorder forwarding to next, which may be nil.
func NewRecorder(next Registrar) *Recorder {
	return &Recorder{Next: next}
}

func (r *Recorder) CreatePage(ctx context.Context, p Page) error {
	if r.Next != nil {
		if err := r.Next.CreatePage(ctx, p); err != nil {
			return err
		}
	}
	r.mu.Lock()
	r.pages = append(r.pages, p)
	r.mu.Unlock()
	return nil
}

// Pages returns a copy of the recorded pages sorted by template, then path.
func (r *Recorder) Pages() []Page {
	r.mu.Lock()
	out := make([]Page, len(r.pages))
	copy(out, r.pages)
	r.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Template != out[j].Template {
			return out[i].Template < out[j].Template
		}
		return out[i].Path < out[j].Path
	})
	return out
}

// Len reports how many pages were recorded.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pages)
}
