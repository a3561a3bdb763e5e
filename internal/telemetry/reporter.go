// Package telemetry provides frame-stats sinks: fan-out, publishing,
// persistence of run summaries and a SQLite frame log.
package telemetry

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/comalice/fixedloop"
)

// Tee forwards every frame to each reporter in order.
type Tee []fixedloop.FrameReporter

func (t Tee) OnFrameComplete(stats fixedloop.FrameStats) {
	for _, r := range t {
		r.OnFrameComplete(stats)
	}
}

// reportingHooks pairs hooks with the reporters that observe them.
type reportingHooks struct {
	fixedloop.Hooks
	sinks Tee
}

func (h reportingHooks) OnFrameComplete(stats fixedloop.FrameStats) {
	if r, ok := h.Hooks.(fixedloop.FrameReporter); ok {
		r.OnFrameComplete(stats)
	}
	h.sinks.OnFrameComplete(stats)
}

// Attach returns hooks that behave like hooks and also report every frame
// to sinks. A FrameReporter already implemented by hooks is called first.
func Attach(hooks fixedloop.Hooks, sinks ...fixedloop.FrameReporter) fixedloop.Hooks {
	if hooks == nil {
		hooks = fixedloop.NopHooks{}
	}
	return reportingHooks{Hooks: hooks, sinks: sinks}
}

// Latest holds the most recent frame for readers on other goroutines.
type Latest struct {
	stats atomic.Pointer[fixedloop.FrameStats]
}

func (l *Latest) OnFrameComplete(stats fixedloop.FrameStats) {
	l.stats.Store(&stats)
}

// Load returns the last reported frame, or false before the first one.
func (l *Latest) Load() (fixedloop.FrameStats, bool) {
	p := l.stats.Load()
	if p == nil {
		return fixedloop.FrameStats{}, false
	}
	return *p, true
}

// RunSummary aggregates the frames of one Run call, restarts included.
type RunSummary struct {
	RunID       string        `json:"runID" yaml:"runID"`
	StartedAt   time.Time     `json:"startedAt" yaml:"startedAt"`
	Runs        uint32        `json:"runs" yaml:"runs"`
	Frames      uint64        `json:"frames" yaml:"frames"`
	TargetFPS   uint32        `json:"targetFPS" yaml:"targetFPS"`
	AverageFPS  uint32        `json:"averageFPS" yaml:"averageFPS"`
	MinFrameDur time.Duration `json:"minFrameDur" yaml:"minFrameDur"`
	MaxFrameDur time.Duration `json:"maxFrameDur" yaml:"maxFrameDur"`
	TotalDur    time.Duration `json:"totalDur" yaml:"totalDur"`
}

// Summarizer builds a RunSummary from reported frames.
type Summarizer struct {
	mu      sync.Mutex
	summary RunSummary

	// TotalDur of finished runs and of the current one.
	doneDur time.Duration
	runDur  time.Duration
}

// NewSummarizer starts a summary for runID.
func NewSummarizer(runID string, startedAt time.Time) *Summarizer {
	return &Summarizer{summary: RunSummary{RunID: runID, StartedAt: startedAt}}
}

func (s *Summarizer) OnFrameComplete(stats fixedloop.FrameStats) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := &s.summary
	if stats.Run != sum.Runs {
		sum.Runs = stats.Run
		s.doneDur += s.runDur
	}
	s.runDur = stats.TotalDur

	sum.Frames++
	sum.TargetFPS = stats.TargetFPS
	if sum.Frames == 1 || stats.ActualDur < sum.MinFrameDur {
		sum.MinFrameDur = stats.ActualDur
	}
	if stats.ActualDur > sum.MaxFrameDur {
		sum.MaxFrameDur = stats.ActualDur
	}
	sum.TotalDur = s.doneDur + s.runDur
	sum.AverageFPS = averageFPS(sum.Frames, sum.TotalDur)
}

// Summary returns a copy of the summary so far.
func (s *Summarizer) Summary() RunSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

// averageFPS is frames per second over d, rounded to nearest.
func averageFPS(frames uint64, d time.Duration) uint32 {
	if d <= 0 {
		return 0
	}
	return uint32((uint64(time.Second)*frames + uint64(d)/2) / uint64(d))
}
