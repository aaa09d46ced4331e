package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string            `json:"type"`
	ProtocolVersion string            `json:"protocol_version"`
	ClientName      string            `json:"client_name"`
	Capabilities    HelloCapabilities `json:"capabilities"`
}

type HelloCapabilities struct {
	MaxQueue int `json:"max_queue,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	ClientID        string      `json:"client_id"`
	WorldParams     WorldParams `json:"world_params"`
}

type WorldParams struct {
	TickRateHz int   `json:"tick_rate_hz"`
	MapWidth   int   `json:"map_width"`
	MapHeight  int   `json:"map_height"`
	Seed       int64 `json:"seed"`
}

// CMD (client -> server): a batch of commands applied at the next tick boundary,
// in the order they were received.
type CmdMsg struct {
	Type            string       `json:"type"`
	ProtocolVersion string       `json:"protocol_version"`
	Tick            uint64       `json:"tick"`
	Commands        []CommandReq `json:"commands"`
}

type CommandReq struct {
	ID  string `json:"id"`
	Op  string `json:"op"`
	Pos [2]int `json:"pos,omitempty"`
	Max [2]int `json:"max,omitempty"` // ADD_STOCKPILE: Pos..Max bounds
	// SUBMIT_DESIGNATION kind ("MINE"/"HAUL"), SPAWN_WORKER capability list,
	// ADD_STOCKPILE accepted item kinds.
	Kind          string   `json:"kind,omitempty"`
	Name          string   `json:"name,omitempty"`
	Capabilities  []string `json:"capabilities,omitempty"`
	Accepts       []string `json:"accepts,omitempty"`
	DesignationID string   `json:"designation_id,omitempty"`
}

// OBS (server -> client): read-only view of the core after a tick.
type ObsMsg struct {
	Type             string         `json:"type"`
	ProtocolVersion  string         `json:"protocol_version"`
	Tick             uint64         `json:"tick"`
	JobCount         int            `json:"job_count"`
	DesignationCount int            `json:"designation_count"`
	Workers          []WorkerStatus `json:"workers"`
	CacheStats       CacheStats     `json:"cache_stats"`
	VisibleTiles     []VisibleTile  `json:"visible_tiles,omitempty"`
	Events           []Event        `json:"events,omitempty"`
}

type WorkerStatus struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Pos      [2]int `json:"pos"`
	Job      string `json:"job,omitempty"`
	Carrying string `json:"carrying,omitempty"`
}

type CacheStats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
}

type VisibleTile struct {
	Pos  [2]int `json:"pos"`
	Kind string `json:"kind"`
}

// Event is a loosely-typed per-tick notification (command results, job
// completions, executor failures). Keys always include "t" and "type".
type Event map[string]any
