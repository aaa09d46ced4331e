package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Command layer.
	ErrBadRequest    = "E_BAD_REQUEST"
	ErrInvalidTarget = "E_INVALID_TARGET"
	ErrConflict      = "E_CONFLICT"
	ErrStale         = "E_STALE"

	// Recoverable executor/scheduler conditions. These are state transitions,
	// never Go errors: the designation/job simply waits or is cancelled.
	ErrNoPath   = "E_NO_PATH"
	ErrNoWorker = "E_NO_WORKER"
	ErrBlocked  = "E_BLOCKED"

	ErrInternal = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrBadRequest:      {},
	ErrInvalidTarget:   {},
	ErrConflict:        {},
	ErrStale:           {},
	ErrNoPath:          {},
	ErrNoWorker:        {},
	ErrBlocked:         {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
