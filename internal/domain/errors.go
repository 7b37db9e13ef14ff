package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("not found")

// Fatal precondition violations: prediction was attempted before the
// one-time initialization phase finished. Deployment bugs, not request bugs.
var (
	ErrIndexNotBuilt   = errors.New("neighbor index not built")
	ErrModelNotTrained = errors.New("price model not trained")
)

// MalformedRecordError marks a corpus record whose geo-coordinates could not
// be parsed. Such records are skipped and counted, never fatal.
type MalformedRecordError struct {
	Field string
	Value string
}

func (e MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record: %s=%q is not numeric", e.Field, e.Value)
}

// InvalidListingError rejects a request that is missing required fields.
type InvalidListingError struct {
	Missing []string
}

func (e InvalidListingError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// UnseenCategoryError reports a categorical value that was never observed
// when the encoders were fit. Callers substitute the reserved unknown code.
type UnseenCategoryError struct {
	Column string
	Value  string
}

func (e UnseenCategoryError) Error() string {
	return fmt.Sprintf("category %q unseen at fit time for column %s", e.Value, e.Column)
}
