package cli

import (
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/comalice/fixedloop"
	"github.com/comalice/fixedloop/internal/logging"
)

const (
	gravity     = -9.81
	restitution = 0.8
)

type particle struct {
	y, vy float64
}

// particleSim drops particles onto a floor. Physics advances only in
// UpdateFixed; UpdateEnded samples the state as a renderer would.
type particleSim struct {
	loop   *fixedloop.Loop
	logger *slog.Logger
	seed   uint64

	particles []particle
	simTime   float64
	bounces   uint64

	// Frame limit per run and restarts left; 0 frames runs until stopped.
	framesPerRun uint64
	restartsLeft uint32
	frames       uint64
}

func newParticleSim(n int, seed uint64, logger *slog.Logger) *particleSim {
	return &particleSim{
		logger:    logging.Component(logger, "sim"),
		seed:      seed,
		particles: make([]particle, n),
	}
}

func (s *particleSim) StartUp() {
	rng := rand.New(rand.NewPCG(s.seed, s.seed))
	for i := range s.particles {
		s.particles[i] = particle{y: 1 + 9*rng.Float64()}
	}
	s.simTime = 0
	s.bounces = 0
	s.frames = 0
	s.logger.Debug("particles placed", "count", len(s.particles))
}

func (s *particleSim) ShutDown() {
	s.logger.Info("simulation stopped",
		"sim_time", s.simTime,
		"bounces", s.bounces,
		"energy", s.energy(),
	)
}

func (s *particleSim) UpdateStart(float64) {
	s.frames++
	if s.framesPerRun == 0 || s.frames < s.framesPerRun {
		return
	}
	if s.restartsLeft > 0 {
		s.restartsLeft--
		s.loop.RequestRestart()
		return
	}
	s.loop.RequestShutDown()
}

func (s *particleSim) UpdateFixed(dt float64) {
	for i := range s.particles {
		p := &s.particles[i]
		p.vy += gravity * dt
		p.y += p.vy * dt
		if p.y < 0 {
			p.y = -p.y * restitution
			p.vy = -p.vy * restitution
			s.bounces++
		}
	}
	s.simTime += dt
}

func (s *particleSim) UpdateEnded(delta float64) {
	if s.frames%600 == 0 {
		s.logger.Debug("frame", "frame", s.frames, "delta", delta, "energy", s.energy())
	}
}

// energy is the total mechanical energy per unit mass.
func (s *particleSim) energy() float64 {
	var e float64
	for _, p := range s.particles {
		e += 0.5*p.vy*p.vy - gravity*math.Max(p.y, 0)
	}
	return e
}
