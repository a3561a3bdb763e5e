// Package benchmarks provides performance benchmarks for frame throughput.
package benchmarks

import (
	"testing"
	"time"

	"github.com/comalice/fixedloop"
	"github.com/comalice/fixedloop/internal/logging"
	"github.com/comalice/fixedloop/internal/telemetry"
)

// BenchmarkFrameThroughput measures uncapped frames per second on a
// simulated clock.
func BenchmarkFrameThroughput(b *testing.B) {
	tests := []struct {
		name string
		step time.Duration
	}{
		{"FixedEveryFrame", time.Millisecond},
		{"FixedEveryTenth", 100 * time.Microsecond},
	}
	for _, tt := range tests {
		b.Run(tt.name, func(b *testing.B) {
			var loop *fixedloop.Loop
			hooks, fixed := FrameLimit(&loop, b.N)
			loop = NewSteppedLoop(hooks, tt.step)

			b.ResetTimer()
			start := time.Now()
			if err := loop.Run(1000); err != nil {
				b.Fatal(err)
			}
			elapsed := time.Since(start)
			b.ReportMetric(float64(b.N)/elapsed.Seconds(), "frames/sec")
			b.ReportMetric(float64(*fixed)/float64(b.N), "fixed/frame")
		})
	}
}

// BenchmarkRealClockUncapped measures frame overhead including clock reads.
func BenchmarkRealClockUncapped(b *testing.B) {
	var loop *fixedloop.Loop
	hooks, _ := FrameLimit(&loop, b.N)
	loop = fixedloop.New(hooks, fixedloop.WithCappedFPS(false))

	b.ResetTimer()
	if err := loop.Run(1000); err != nil {
		b.Fatal(err)
	}
}

// BenchmarkRestart measures a full Stopping -> Starting cycle per frame.
func BenchmarkRestart(b *testing.B) {
	var loop *fixedloop.Loop
	var frames int
	hooks := fixedloop.HookFuncs{
		OnUpdateStart: func(float64) {
			frames++
			if frames >= b.N {
				loop.RequestShutDown()
			} else {
				loop.RequestRestart()
			}
		},
	}
	loop = NewSteppedLoop(hooks, time.Millisecond, fixedloop.WithLogger(logging.Discard()))

	b.ReportAllocs()
	b.ResetTimer()
	if err := loop.Run(1000); err != nil {
		b.Fatal(err)
	}
}

// BenchmarkTelemetryFanOut measures the per-frame cost of the reporting
// sinks the CLI attaches.
func BenchmarkTelemetryFanOut(b *testing.B) {
	ch := make(chan telemetry.PublishedFrame, 1024)
	go func() {
		for range ch {
		}
	}()
	publisher := telemetry.NewChannelPublisher("bench", ch)
	defer publisher.Close()

	var latest telemetry.Latest
	sinks := telemetry.Tee{&latest, telemetry.NewSummarizer("bench", time.Now()), publisher}
	frames := GenFrames(1000, 60)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sinks.OnFrameComplete(frames[i%len(frames)])
	}
	b.StopTimer()
	b.ReportMetric(float64(publisher.Dropped()), "dropped")
}

// BenchmarkPacingContention measures pacing reads and writes from many
// goroutines, as a control surface would do against a running loop.
func BenchmarkPacingContention(b *testing.B) {
	p := fixedloop.New(nil).Pacing()
	b.RunParallel(func(pb *testing.PB) {
		i := uint32(0)
		for pb.Next() {
			i++
			if i%8 == 0 {
				p.SetTargetFPS(i)
			} else {
				_ = p.TargetFPS()
				_ = p.Capped()
			}
		}
	})
}
