// Package planner computes the next phase duration from recent session
// history. The policy is consistency-based: a user completing most recent
// focus sessions earns longer focus blocks, a struggling user gets shorter
// ones and longer rests. Every answer is clamped to the configured bounds.
package planner

import (
	"sync"

	"github.com/tomo-dev/tomo/internal/config"
	"github.com/tomo-dev/tomo/internal/journal"
)

// breakFloorSeconds is the lower bound for rest phases: breaks shrink under
// the policy but are never adjusted away entirely. Configured bounds still
// win; a break whose max sits under the floor is left to its own range.
const breakFloorSeconds = 60

// Planner holds a sliding window of the most recent session records and
// derives durations from the focus completion ratio inside it. Methods are
// safe for concurrent use; PlanDuration does no I/O, so it can run on the
// machine's tick path.
type Planner struct {
	mu     sync.Mutex
	cfg    *config.Config
	recent []journal.SessionRecord
}

// New seeds the window from history (oldest first). Only the trailing
// window-many records are retained.
func New(cfg *config.Config, history []journal.SessionRecord) *Planner {
	k := cfg.Planner.Window
	if len(history) > k {
		history = history[len(history)-k:]
	}
	return &Planner{
		cfg:    cfg,
		recent: append([]journal.SessionRecord(nil), history...),
	}
}

// Observe appends a finished session to the window.
func (p *Planner) Observe(rec journal.SessionRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.recent = append(p.recent, rec)
	if k := p.cfg.Planner.Window; len(p.recent) > k {
		p.recent = p.recent[len(p.recent)-k:]
	}
}

// Window returns a copy of the current history window, oldest first.
func (p *Planner) Window() []journal.SessionRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]journal.SessionRecord(nil), p.recent...)
}

// PlanDuration returns the duration in seconds for the next run of phase,
// always within the configured [min, max] for that phase.
//
// With no focus attempts on record the configured default applies. When
// every recent focus attempt failed, focus snaps to its minimum and breaks
// to their maximum. Otherwise the completion ratio moves the last planned
// duration up or down one step: focus steps with the ratio, breaks step
// against it and more gently.
func (p *Planner) PlanDuration(phase journal.Phase) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	bounds := p.cfg.Durations(phase)

	attempted, completed := 0, 0
	for _, rec := range p.recent {
		if rec.Phase == journal.PhaseFocus {
			attempted++
			if rec.Completed {
				completed++
			}
		}
	}
	if attempted == 0 {
		return p.clamp(phase, bounds.DefaultSeconds, bounds)
	}

	base := bounds.DefaultSeconds
	for i := len(p.recent) - 1; i >= 0; i-- {
		if p.recent[i].Phase == phase {
			base = p.recent[i].PlannedSeconds
			break
		}
	}

	pc := p.cfg.Planner
	ratio := float64(completed) / float64(attempted)
	var dur int
	switch {
	case completed == 0:
		if phase == journal.PhaseFocus {
			dur = bounds.MinSeconds
		} else {
			dur = bounds.MaxSeconds
		}
	case ratio >= pc.HighThreshold:
		if phase == journal.PhaseFocus {
			dur = base + pc.FocusStepSeconds
		} else {
			dur = base - pc.BreakStepSeconds
		}
	case ratio <= pc.LowThreshold:
		if phase == journal.PhaseFocus {
			dur = base - pc.FocusStepSeconds
		} else {
			dur = base + pc.BreakStepSeconds
		}
	default:
		dur = base
	}

	return p.clamp(phase, dur, bounds)
}

func (p *Planner) clamp(phase journal.Phase, d int, b config.PhaseDurations) int {
	if d < b.MinSeconds {
		d = b.MinSeconds
	}
	if d > b.MaxSeconds {
		d = b.MaxSeconds
	}
	if phase.IsBreak() && d < breakFloorSeconds && breakFloorSeconds <= b.MaxSeconds {
		d = breakFloorSeconds
	}
	return d
}
