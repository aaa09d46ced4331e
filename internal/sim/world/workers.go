package world

import "fmt"

// Capability is a bitmask of job kinds a worker may take.
type Capability uint8

const (
	CapMine Capability = 1 << iota
	CapHaul
)

func CapabilitiesFromNames(names []string) Capability {
	var c Capability
	for _, n := range names {
		switch n {
		case "MINE":
			c |= CapMine
		case "HAUL":
			c |= CapHaul
		}
	}
	return c
}

func (c Capability) Names() []string {
	var out []string
	if c&CapMine != 0 {
		out = append(out, "MINE")
	}
	if c&CapHaul != 0 {
		out = append(out, "HAUL")
	}
	return out
}

func (c Capability) canRun(kind JobKind) bool {
	switch kind {
	case JobMine:
		return c&CapMine != 0
	case JobHaul:
		return c&CapHaul != 0
	default:
		return false
	}
}

type Worker struct {
	ID   string     `json:"id"`
	Seq  uint64     `json:"seq"`
	Name string     `json:"name"`
	Pos  Vec2       `json:"pos"`
	Caps Capability `json:"caps"`

	Job      string `json:"job,omitempty"`
	Carrying string `json:"carrying,omitempty"`

	// Cached route toward the current objective. Invalidated whenever the
	// tile map version moves past PathVersion.
	Path        []Vec2 `json:"-"`
	PathVersion uint64 `json:"-"`
}

func (w *World) spawnWorker(name string, pos Vec2, caps Capability) *Worker {
	seq := w.nextWorkerNum.Add(1)
	wk := &Worker{
		ID:   fmt.Sprintf("W%d", seq),
		Seq:  seq,
		Name: name,
		Pos:  pos,
		Caps: caps,
	}
	w.workers[wk.ID] = wk
	return wk
}
