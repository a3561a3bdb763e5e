package fixedloop

import "time"

// FrameStats describes one completed frame. It is produced fresh for every
// frame and is purely observational.
type FrameStats struct {
	Run         uint32        `json:"run" yaml:"run"`                 // 1-based run ordinal, increments on restart
	Frame       uint64        `json:"frame" yaml:"frame"`             // frame number within the current run
	TotalFrames uint64        `json:"totalFrames" yaml:"totalFrames"` // frames over the loop's lifetime, never reset
	ActualFPS   uint32        `json:"actualFPS" yaml:"actualFPS"`
	AverageFPS  uint32        `json:"averageFPS" yaml:"averageFPS"`
	TargetFPS   uint32        `json:"targetFPS" yaml:"targetFPS"`
	ActualDur   time.Duration `json:"actualDur" yaml:"actualDur"`
	TargetDur   time.Duration `json:"targetDur" yaml:"targetDur"`
	ExcessDur   time.Duration `json:"excessDur" yaml:"excessDur"`
	TotalDur    time.Duration `json:"totalDur" yaml:"totalDur"`
}

// roundedRate returns frames per second for frames spanning d, rounded to
// the nearest integer rather than truncated. A zero span reports 0.
func roundedRate(frames uint64, d time.Duration) uint32 {
	if d <= 0 {
		return 0
	}
	num := uint64(time.Second)*frames + uint64(d)/2
	return uint32(num / uint64(d))
}
