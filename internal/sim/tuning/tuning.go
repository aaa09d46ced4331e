package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	TickRateHz int `yaml:"tick_rate_hz"`
	MapWidth   int `yaml:"map_width"`
	MapHeight  int `yaml:"map_height"`

	PathCacheCapacity  int  `yaml:"path_cache_capacity"`
	AutoJobs           bool `yaml:"auto_jobs"`
	JobPriorityJitter  bool `yaml:"job_priority_jitter"`
	SnapshotEveryTicks int  `yaml:"snapshot_every_ticks"`
	VisionRadius       int  `yaml:"vision_radius"`
}

func Load(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if t.TickRateHz <= 0 {
		return t, fmt.Errorf("tuning.yaml: tick_rate_hz must be positive, got %d", t.TickRateHz)
	}
	if t.MapWidth <= 0 || t.MapHeight <= 0 {
		return t, fmt.Errorf("tuning.yaml: map dimensions must be positive, got %dx%d", t.MapWidth, t.MapHeight)
	}
	return t, nil
}
