package confirm

import (
	"context"
	"sync"
	"time"

	"barkeep/internal/logger"
)

// DefaultTTL is how long a pending confirmation stays answerable.
const DefaultTTL = 300 * time.Second

// Outcome reports how a gate was closed.
type Outcome int

const (
	OutcomeConfirmed Outcome = iota
	OutcomeDeclined
	OutcomeExpired
)

func (o Outcome) String() string {
	switch o {
	case OutcomeConfirmed:
		return "confirmed"
	case OutcomeDeclined:
		return "declined"
	case OutcomeExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Gate describes one pending confirmation: who may answer it and what
// happens when they do. Acceptors may confirm, Decliners may decline;
// the two sets need not match. All callbacks are optional.
type Gate struct {
	Acceptors []string
	Decliners []string

	OnConfirm func(ctx context.Context) error
	OnDecline func(ctx context.Context) error
	OnExpire  func(messageID string)
}

func (g Gate) canAccept(userID string) bool {
	for _, id := range g.Acceptors {
		if id == userID {
			return true
		}
	}
	return false
}

func (g Gate) canDecline(userID string) bool {
	for _, id := range g.Decliners {
		if id == userID {
			return true
		}
	}
	return false
}

type pendingGate struct {
	gate  Gate
	timer *time.Timer
}

// Registry keeps pending confirmations keyed by the message that carries
// their buttons. Gates are in-memory and lost on restart; unanswered
// gates expire after the registry TTL.
type Registry struct {
	mu      sync.Mutex
	pending map[string]*pendingGate
	ttl     time.Duration
}

// NewRegistry creates a registry with the given TTL. A non-positive ttl
// falls back to DefaultTTL.
func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Registry{
		pending: make(map[string]*pendingGate),
		ttl:     ttl,
	}
}

// Attach arms a gate under the given message ID and starts its expiry
// timer. Attaching over an existing gate replaces it and cancels the
// old timer.
func (r *Registry) Attach(messageID string, gate Gate) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.pending[messageID]; ok {
		existing.timer.Stop()
	}

	timer := time.AfterFunc(r.ttl, func() {
		r.expire(messageID)
	})
	r.pending[messageID] = &pendingGate{gate: gate, timer: timer}
}

func (r *Registry) expire(messageID string) {
	r.mu.Lock()
	entry, ok := r.pending[messageID]
	if ok {
		delete(r.pending, messageID)
	}
	r.mu.Unlock()

	if !ok {
		return
	}
	if entry.gate.OnExpire != nil {
		entry.gate.OnExpire(messageID)
	}
}

// Resolve answers the gate attached to messageID. It reports whether the
// press was handled; presses on unknown messages or by unauthorized users
// return false with no error and leave the gate armed. A handled press
// fires exactly once: the gate is removed before its callback runs.
func (r *Registry) Resolve(ctx context.Context, messageID, userID string, accept bool) (bool, error) {
	log := logger.FromContext(ctx)

	r.mu.Lock()
	entry, ok := r.pending[messageID]
	if !ok {
		r.mu.Unlock()
		return false, nil
	}

	gate := entry.gate
	authorized := gate.canDecline(userID)
	if accept {
		authorized = gate.canAccept(userID)
	}
	if !authorized {
		r.mu.Unlock()
		log.Info("Ignoring unauthorized confirmation press", "messageID", messageID, "userID", userID)
		return false, nil
	}

	entry.timer.Stop()
	delete(r.pending, messageID)
	r.mu.Unlock()

	if accept {
		if gate.OnConfirm != nil {
			return true, gate.OnConfirm(ctx)
		}
		return true, nil
	}
	if gate.OnDecline != nil {
		return true, gate.OnDecline(ctx)
	}
	return true, nil
}

// Cancel removes a gate without firing any callback.
func (r *Registry) Cancel(messageID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.pending[messageID]; ok {
		entry.timer.Stop()
		delete(r.pending, messageID)
	}
}

// Pending returns the number of armed gates.
func (r *Registry) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
