package serializer

import (
	"fmt"

	"github.com/hyp3rd/ewrap"
)

// TextSerializer renders values through their String method.
type TextSerializer struct{}

// Marshal returns the String form of v, which must implement fmt.Stringer.
func (*TextSerializer) Marshal(v any) ([]byte, error) {
	s, ok := v.(fmt.Stringer)
	if !ok {
		return nil, ewrap.Newf("text serializer: %T does not implement fmt.Stringer", v)
	}

	return []byte(s.String()), nil
}
