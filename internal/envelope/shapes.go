package envelope

import (
	"fmt"
	"sync"
)

type requestTag struct {
	target string
	cmd    string
}

// Shapes records which payload kinds each message tag may carry. Tags with
// no rule accept any permitted kind. The zero value and a nil *Shapes hold no
// rules. Safe for concurrent use.
type Shapes struct {
	mu        sync.RWMutex
	requests  map[requestTag]Kind
	responses map[string]Kind
}

func NewShapes() *Shapes {
	return &Shapes{
		requests:  make(map[requestTag]Kind),
		responses: make(map[string]Kind),
	}
}

// Request registers the kinds allowed for param of (target, cmd).
func (s *Shapes) Request(target, cmd string, kinds Kind) *Shapes {
	s.mu.Lock()
	if s.requests == nil {
		s.requests = make(map[requestTag]Kind)
	}
	s.requests[requestTag{target, cmd}] = kinds
	s.mu.Unlock()
	return s
}

// Response registers the kinds allowed for data of typ.
func (s *Shapes) Response(typ string, kinds Kind) *Shapes {
	s.mu.Lock()
	if s.responses == nil {
		s.responses = make(map[string]Kind)
	}
	s.responses[typ] = kinds
	s.mu.Unlock()
	return s
}

// CheckRequest rejects req if a rule for its (target, cmd) excludes the
// kind of its param.
func (s *Shapes) CheckRequest(req Request) error {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	allowed, ok := s.requests[requestTag{req.Target, req.Cmd}]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	k, err := KindOf(req.Param)
	if err != nil {
		return fmt.Errorf("%s/%s: %w", req.Target, req.Cmd, err)
	}
	if !allowed.Has(k) {
		return fmt.Errorf("%w: %s/%s wants %s, got %s", ErrInvalidDataShape, req.Target, req.Cmd, allowed, k)
	}
	return nil
}

// CheckResponse rejects resp if a rule for its type excludes the kind of
// its data.
func (s *Shapes) CheckResponse(resp Response) error {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	allowed, ok := s.responses[resp.Type]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	k, err := KindOf(resp.Data)
	if err != nil {
		return err
	}
	if !allowed.Has(k) {
		return fmt.Errorf("%w: %s wants %s, got %s", ErrInvalidDataShape, resp.Type, allowed, k)
	}
	return nil
}
