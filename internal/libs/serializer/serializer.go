// Package serializer provides the encoders a summary can be written with.
//
// The default encoder renders the one-line text form. Structured encoders
// (JSON via goccy/go-json, msgpack via shamaton/msgpack and CBOR via
// ugorji/go/codec) emit the ordered list of entries instead.
package serializer

import (
	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/hyperagg/internal/constants"
	"github.com/hyp3rd/hyperagg/internal/sentinel"
)

// ISerializer is the interface that wraps the basic serializer method.
type ISerializer interface {
	// Marshal serializes the given value into a byte slice.
	Marshal(v any) ([]byte, error)
}

// Registry manages serializer constructors.
type Registry struct {
	serializers map[string]func() ISerializer
}

// getDefaultSerializers returns the default set of serializers.
func getDefaultSerializers() map[string]func() ISerializer {
	return map[string]func() ISerializer{
		constants.DefaultFormat: func() ISerializer {
			return &TextSerializer{}
		},
		constants.JSONFormat: func() ISerializer {
			return &JSONSerializer{}
		},
		constants.MsgpackFormat: func() ISerializer {
			return &MsgpackSerializer{}
		},
		constants.CBORFormat: func() ISerializer {
			return &CBORSerializer{}
		},
	}
}

// NewSerializerRegistry creates a new serializer registry with default serializers pre-registered.
func NewSerializerRegistry() *Registry {
	registry := &Registry{
		serializers: make(map[string]func() ISerializer),
	}

	for name, createFunc := range getDefaultSerializers() {
		registry.Register(name, createFunc)
	}

	return registry
}

// Register registers a new serializer with the given name.
func (r *Registry) Register(name string, createFunc func() ISerializer) {
	r.serializers[name] = createFunc
}

// New returns a new serializer based on its name.
func (r *Registry) New(name string) (ISerializer, error) {
	if name == "" {
		return nil, ewrap.Wrap(sentinel.ErrParamCannotBeEmpty, "serializer name")
	}

	createFunc, ok := r.serializers[name]
	if !ok {
		return nil, ewrap.Wrap(sentinel.ErrSerializerNotFound, name)
	}

	return createFunc(), nil
}

// New returns a serializer from the default registry.
func New(name string) (ISerializer, error) {
	return NewSerializerRegistry().New(name)
}
