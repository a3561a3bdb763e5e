// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"time"

	"gopkg.in/yaml.v3"

	"github.com/comalice/fixedloop"
	"github.com/comalice/fixedloop/testutil"
)

// FrameLimit returns hooks that shut loop down after n frames and the
// counter of fixed updates they observed. loop is read lazily so it may be
// assigned after the hooks are passed to fixedloop.New.
func FrameLimit(loop **fixedloop.Loop, n int) (fixedloop.Hooks, *int) {
	var frames, fixed int
	return fixedloop.HookFuncs{
		OnUpdateStart: func(float64) {
			frames++
			if frames >= n {
				(*loop).RequestShutDown()
			}
		},
		OnUpdateFixed: func(float64) { fixed++ },
	}, &fixed
}

// SteppedOptions make a loop uncapped on a simulated clock so that
// benchmarks measure loop overhead rather than waiting.
func SteppedOptions(step time.Duration) []fixedloop.Option {
	return []fixedloop.Option{
		fixedloop.WithClock(testutil.NewStepClock(step)),
		fixedloop.WithCappedFPS(false),
	}
}

// NewSteppedLoop creates a loop with SteppedOptions followed by opts.
func NewSteppedLoop(hooks fixedloop.Hooks, step time.Duration, opts ...fixedloop.Option) *fixedloop.Loop {
	return fixedloop.New(hooks, append(SteppedOptions(step), opts...)...)
}

// GenFrames creates n frames of one run at fps as the loop would report them.
func GenFrames(n int, fps uint32) []fixedloop.FrameStats {
	target := time.Second / time.Duration(fps)
	frames := make([]fixedloop.FrameStats, n)
	for i := range frames {
		frames[i] = fixedloop.FrameStats{
			Run:         1,
			Frame:       uint64(i + 1),
			TotalFrames: uint64(i + 1),
			ActualFPS:   fps,
			AverageFPS:  fps,
			TargetFPS:   fps,
			ActualDur:   target,
			TargetDur:   target,
			ExcessDur:   target,
			TotalDur:    target * time.Duration(i+1),
		}
	}
	return frames
}

// GenFramesYAML generates YAML bytes for n frames.
func GenFramesYAML(n int) []byte {
	data, err := yaml.Marshal(GenFrames(n, 60))
	if err != nil {
		panic(err)
	}
	return data
}
