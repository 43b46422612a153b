package riskmodel

import (
	"errors"
	"fmt"
)

// DefaultCode is substituted for categories an encoder has never seen.
const DefaultCode = 0

// ErrUnknownCategory is wrapped by every UnknownCategoryError.
var ErrUnknownCategory = errors.New("unknown category")

// UnknownCategoryError reports a value absent from an encoding table.
type UnknownCategoryError struct {
	Feature string
	Value   string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("%s: %q is not in the %s table", ErrUnknownCategory, e.Value, e.Feature)
}

func (e *UnknownCategoryError) Unwrap() error {
	return ErrUnknownCategory
}

// Encoder maps the categories seen during training to their integer codes.
// A category's code is its position in the training class list.
type Encoder struct {
	feature string
	codes   map[string]int
}

// NewEncoder builds the table for feature from the ordered training classes.
func NewEncoder(feature string, classes []string) (*Encoder, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("encoder %s has no classes", feature)
	}
	codes := make(map[string]int, len(classes))
	for i, c := range classes {
		if _, dup := codes[c]; dup {
			return nil, fmt.Errorf("encoder %s lists %q twice", feature, c)
		}
		codes[c] = i
	}
	return &Encoder{feature: feature, codes: codes}, nil
}

// Encode returns the code of value, or an *UnknownCategoryError.
// Callers pick the fallback; ExtractFeatures uses DefaultCode.
func (e *Encoder) Encode(value string) (int, error) {
	code, ok := e.codes[value]
	if !ok {
		return DefaultCode, &UnknownCategoryError{Feature: e.feature, Value: value}
	}
	return code, nil
}
