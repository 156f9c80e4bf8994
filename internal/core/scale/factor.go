// Package scale multiplies the spatial fields of scene documents by a uniform factor
// Fields are classified by key name through a KeyTable; everything else is copied as-is
package scale

import (
	"math"
	"strconv"
	"strings"

	perr "github.com/mr-bo-jangles/SqueezySceney/internal/platform/errors"
)

// Factor is a validated positive finite scale factor
type Factor float64

// Identity leaves every value unchanged
const Identity Factor = 1

// NewFactor validates f; max <= 0 means no upper bound
func NewFactor(f, max float64) (Factor, error) {
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		return 0, factorErr("scale must be a finite number, got %v", f)
	case f <= 0:
		return 0, factorErr("scale must be greater than zero, got %v", f)
	case max > 0 && f > max:
		return 0, factorErr("scale %v exceeds the maximum of %v", f, max)
	}
	return Factor(f), nil
}

// ParseFactor parses a decimal factor as typed by a user
func ParseFactor(s string, max float64) (Factor, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, factorErr("scale is required")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, perr.WithOp(perr.WithField(perr.Wrapf(err, perr.ErrorCodeInvalidScale, "scale %q is not a number", s), "scale"), "scale.parse")
	}
	return NewFactor(f, max)
}

// Float returns the factor as a float64
func (f Factor) Float() float64 { return float64(f) }

func (f Factor) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }

func factorErr(format string, a ...any) error {
	return perr.WithOp(perr.WithField(perr.InvalidScalef(format, a...), "scale"), "scale.factor")
}
