package scale

import (
	"math"
	"strings"

	perr "github.com/mr-bo-jangles/SqueezySceney/internal/platform/errors"
)

// Rounding decides whether scaled products are rounded to whole numbers
type Rounding uint8

const (
	// RoundNone keeps full float64 precision
	RoundNone Rounding = iota
	// RoundIntegers rounds products whose source literal was an integer
	RoundIntegers
	// RoundAll rounds every product
	RoundAll
)

var roundingNames = [...]string{"none", "integers", "all"}

// RoundingNames lists the accepted spellings in order
func RoundingNames() []string { return append([]string(nil), roundingNames[:]...) }

func (r Rounding) String() string {
	if int(r) < len(roundingNames) {
		return roundingNames[r]
	}
	return "unknown"
}

// ParseRounding accepts none, integers or all (case-insensitive); empty means none
func ParseRounding(s string) (Rounding, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RoundNone, nil
	}
	for i, n := range roundingNames {
		if s == n {
			return Rounding(i), nil
		}
	}
	return RoundNone, perr.WithField(perr.Validationf("rounding must be one of %s, got %q", strings.Join(roundingNames[:], "|"), s), "rounding")
}

// apply rounds half to even when the policy covers this value
func (r Rounding) apply(product float64, integerLiteral bool) float64 {
	switch r {
	case RoundAll:
		return math.RoundToEven(product)
	case RoundIntegers:
		if integerLiteral {
			return math.RoundToEven(product)
		}
	}
	return product
}
