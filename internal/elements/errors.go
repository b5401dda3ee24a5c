package elements

import (
	"errors"
	"fmt"
)

var (
	ErrSubItemNotFound    = errors.New("elements: sub-item not found")
	ErrMinimumCardinality = errors.New("elements: collection at minimum size")
	ErrElementNotFound    = errors.New("elements: element not found")
)

// NotFoundError reports a lookup miss for an element or sub-item.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("elements: %s %q not found", e.Resource, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	if e.Resource == "element" {
		return ErrElementNotFound
	}
	return ErrSubItemNotFound
}
