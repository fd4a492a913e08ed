package challenges

import (
	"fmt"
	"math"
	"strings"
)

const maxUserIDLength = 128

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks an update before it is written; failures wrap
// ErrInvalidPayload.
func (v *Validator) Validate(payload UpdatePayload) error {
	userID := strings.TrimSpace(payload.UserID)
	switch {
	case userID == "":
		return fmt.Errorf("%w: empty user id", ErrInvalidPayload)
	case len(userID) > maxUserIDLength:
		return fmt.Errorf("%w: user id longer than %d", ErrInvalidPayload, maxUserIDLength)
	case math.IsNaN(payload.Current) || math.IsInf(payload.Current, 0):
		return fmt.Errorf("%w: current is not a finite number", ErrInvalidPayload)
	case payload.Current < 0:
		return fmt.Errorf("%w: negative current %v", ErrInvalidPayload, payload.Current)
	}
	return nil
}
