package settings

import (
	"context"
	"log/slog"
	"math"
	"sync"
)

type Options struct {
	// Key overrides the store key. Empty means Key.
	Key    string
	Logger *slog.Logger
}

// Handle owns the live settings value for a process. All mutation goes
// through it so Save always writes a consistent snapshot.
type Handle struct {
	store  Store
	key    string
	logger *slog.Logger

	mu    sync.RWMutex
	value Settings
}

// Open loads the settings from store and returns a handle to them.
func Open(ctx context.Context, store Store, opts Options) (*Handle, error) {
	h := &Handle{
		store:  store,
		key:    opts.Key,
		logger: opts.Logger,
	}
	if h.key == "" {
		h.key = Key
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	h.logger = h.logger.With("component", "settings", "key", h.key)
	if err := h.Reload(ctx); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Handle) Key() string { return h.key }

// Get returns a copy of the current value.
func (h *Handle) Get() Settings {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.value
}

// Update applies fn to the live value. The change is not persisted until Save.
func (h *Handle) Update(fn func(*Settings)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn(&h.value)
}

func (h *Handle) SetIP(ip string) {
	h.Update(func(s *Settings) { s.IP = ip })
}

// RaiseMaxScore records score if it beats the current maximum. NaN and
// infinities are ignored since they cannot be stored as JSON.
func (h *Handle) RaiseMaxScore(score float64) bool {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return false
	}
	raised := false
	h.Update(func(s *Settings) {
		if score > s.MaxScore {
			s.MaxScore = score
			raised = true
		}
	})
	return raised
}

// Save writes the current value to the store. The lock is held for the write
// so no mutation lands between snapshot and persist.
func (h *Handle) Save(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := save(ctx, h.store, h.key, h.value); err != nil {
		h.logger.Error("save settings", "error", err)
		return err
	}
	h.logger.Debug("settings saved", "ip", h.value.IP, "max_score", h.value.MaxScore)
	return nil
}

// Reload replaces the live value with what the store holds.
func (h *Handle) Reload(ctx context.Context) error {
	s, err := load(ctx, h.store, h.key, h.logger)
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.value = s
	h.mu.Unlock()
	return nil
}
