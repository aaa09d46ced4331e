package world

import (
	"fmt"
	"math/rand/v2"
)

// Stream names, used as snapshot keys. Append only.
const (
	streamMapgen = "mapgen"
	streamJobs   = "jobs"
	streamCombat = "combat"
	streamPath   = "path"
)

// Streams is the scheduler-owned RNG: one master seed, one independent PCG
// source per subsystem. Enabling or disabling draws on one stream can never
// perturb another stream's sequence, and no subsystem ever touches a
// wall-clock or the global rand source.
type Streams struct {
	MasterSeed int64

	sources map[string]*rand.PCG

	Mapgen *rand.Rand
	Jobs   *rand.Rand
	Combat *rand.Rand // reserved for future subsystems; seeded so adding draws later stays compatible
	Path   *rand.Rand // reserved
}

func NewStreams(seed int64) *Streams {
	s := &Streams{MasterSeed: seed, sources: map[string]*rand.PCG{}}
	mk := func(name string, i uint64) *rand.Rand {
		src := rand.NewPCG(uint64(seed)*0x9e3779b97f4a7c15+i, uint64(seed)^(0xda942042e4dd58b5*(i+1)))
		s.sources[name] = src
		return rand.New(src)
	}
	s.Mapgen = mk(streamMapgen, 0)
	s.Jobs = mk(streamJobs, 1)
	s.Combat = mk(streamCombat, 2)
	s.Path = mk(streamPath, 3)
	return s
}

// ExportState captures every source's PCG state for the snapshot.
func (s *Streams) ExportState() (map[string][]byte, error) {
	out := make(map[string][]byte, len(s.sources))
	for name, src := range s.sources {
		b, err := src.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("rng stream %s: %w", name, err)
		}
		out[name] = b
	}
	return out, nil
}

// ImportState restores sources captured by ExportState. Unknown names are
// rejected so a corrupted snapshot fails loudly instead of desyncing.
func (s *Streams) ImportState(state map[string][]byte) error {
	for name, b := range state {
		src, ok := s.sources[name]
		if !ok {
			return fmt.Errorf("rng stream %s: unknown", name)
		}
		if err := src.UnmarshalBinary(b); err != nil {
			return fmt.Errorf("rng stream %s: %w", name, err)
		}
	}
	return nil
}
