package telemetry

import (
	"context"
	"sync/atomic"

	"github.com/comalice/fixedloop"
)

// PublishedFrame bundles frame stats with the ID of the Run call that
// produced them.
type PublishedFrame struct {
	RunID string               `json:"runID"`
	Stats fixedloop.FrameStats `json:"stats"`
}

// ChannelPublisher forwards frames to a Go channel.
// Non-blocking publish with drop on backpressure, so a slow consumer never
// stretches a frame.
type ChannelPublisher struct {
	runID   string
	ch      chan<- PublishedFrame
	dropped atomic.Uint64
}

// NewChannelPublisher creates a ChannelPublisher tagging frames with runID.
func NewChannelPublisher(runID string, ch chan<- PublishedFrame) *ChannelPublisher {
	return &ChannelPublisher{runID: runID, ch: ch}
}

func (p *ChannelPublisher) OnFrameComplete(stats fixedloop.FrameStats) {
	_ = p.Publish(context.Background(), stats)
}

// Publish sends stats unless the channel is full or ctx is done.
func (p *ChannelPublisher) Publish(ctx context.Context, stats fixedloop.FrameStats) error {
	select {
	case p.ch <- PublishedFrame{RunID: p.runID, Stats: stats}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		p.dropped.Add(1)
		return nil
	}
}

// Dropped returns how many frames were discarded on backpressure.
func (p *ChannelPublisher) Dropped() uint64 {
	return p.dropped.Load()
}

// Close closes the output channel. No frames may be published afterwards.
func (p *ChannelPublisher) Close() error {
	close(p.ch)
	return nil
}
