package envelope

import "fmt"

// Policy controls how responses are validated.
type Policy struct {
	// AllowOpenResponseTypes accepts any non-empty response type, not only
	// the known ones.
	AllowOpenResponseTypes bool
	// Shapes, when set, restricts the payload kinds per response type.
	Shapes *Shapes
}

// DefaultPolicy accepts only known response types and has no shape rules.
func DefaultPolicy() Policy {
	return Policy{}
}

// MakeResponse builds a response, checking its type and data under p.
func (p Policy) MakeResponse(typ string, data any) (Response, error) {
	if err := p.checkType(typ); err != nil {
		return Response{}, err
	}
	if _, err := KindOf(data); err != nil {
		return Response{}, err
	}
	resp := Response{Type: typ, Data: data}
	if p.Shapes != nil {
		if err := p.Shapes.CheckResponse(resp); err != nil {
			return Response{}, err
		}
	}
	return resp, nil
}

func (p Policy) checkType(typ string) error {
	if typ == "" {
		return fmt.Errorf("%w: type is empty", ErrInvalidResponseType)
	}
	if !p.AllowOpenResponseTypes && !IsKnownResponseType(typ) {
		return fmt.Errorf("%w: %q", ErrInvalidResponseType, typ)
	}
	return nil
}
