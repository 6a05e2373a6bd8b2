package crate

import (
	"errors"
	"fmt"
)

// ErrSerialization indicates the graph cannot be expressed as RDF.
var ErrSerialization = errors.New("serialization failed")

// SerializationError names the node that could not be converted.
type SerializationError struct {
	Node string
	Err  error
}

func (e *SerializationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Node == "" {
		return fmt.Sprintf("%v: %v", ErrSerialization, e.Err)
	}
	return fmt.Sprintf("%v: node %s: %v", ErrSerialization, e.Node, e.Err)
}

// Is matches ErrSerialization.
func (e *SerializationError) Is(target error) bool {
	return target == ErrSerialization
}

func (e *SerializationError) Unwrap() error { return e.Err }
