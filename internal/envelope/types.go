package envelope

import (
	"encoding/json"
	"fmt"
)

// Request targets. Any other non-empty target is still accepted on the wire.
const (
	TargetButton        = "button"
	TargetQuestionnaire = "questionnaire"
	TargetMessage       = "message"
)

// Response types.
const (
	ResponseQuestionnaire = "questionnaire"
	ResponseTarget        = "target"
)

var knownTargets = map[string]struct{}{
	TargetButton:        {},
	TargetQuestionnaire: {},
	TargetMessage:       {},
}

var knownResponseTypes = map[string]struct{}{
	ResponseQuestionnaire: {},
	ResponseTarget:        {},
}

// Request is a command sent by the client to its peer.
type Request struct {
	Target string `json:"target"`
	Cmd    string `json:"cmd"`
	Param  any    `json:"param"`
}

// Response is a message sent back by the peer.
type Response struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// IsKnownTarget reports whether target is one of the listed request targets.
func IsKnownTarget(target string) bool {
	_, ok := knownTargets[target]
	return ok
}

// IsKnownResponseType reports whether typ is one of the listed response types.
func IsKnownResponseType(typ string) bool {
	_, ok := knownResponseTypes[typ]
	return ok
}

// MakeRequest builds a request. The shape of param is not checked here; use
// Shapes.CheckRequest when per-command payload rules are registered.
func MakeRequest(target, cmd string, param any) (Request, error) {
	if target == "" {
		return Request{}, fmt.Errorf("%w: target is empty", ErrInvalidTarget)
	}
	if cmd == "" {
		return Request{}, fmt.Errorf("%w: cmd is empty", ErrInvalidCommand)
	}
	return Request{Target: target, Cmd: cmd, Param: param}, nil
}

// MakeResponse builds a response under the default closed policy.
func MakeResponse(typ string, data any) (Response, error) {
	return DefaultPolicy().MakeResponse(typ, data)
}

func (r Request) String() string {
	return fmt.Sprintf("%s/%s %s", r.Target, r.Cmd, compact(r.Param))
}

func (r Response) String() string {
	return fmt.Sprintf("%s %s", r.Type, compact(r.Data))
}

func compact(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
