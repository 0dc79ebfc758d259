package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse parses pool notation into a Pool.
// Supported forms: "d20", "2d6", "10D4".
//
// Precondition: expr must be a non-empty string.
// Postcondition: Returns a validated Pool or an error wrapping ErrInvalidParameter.
func Parse(expr string) (Pool, error) {
	s := strings.ToLower(strings.TrimSpace(expr))
	if s == "" {
		return Pool{}, fmt.Errorf("%w: empty dice expression", ErrInvalidParameter)
	}

	dIdx := strings.Index(s, "d")
	if dIdx < 0 {
		return Pool{}, fmt.Errorf("%w: missing 'd' in expression %q", ErrInvalidParameter, expr)
	}

	// Count defaults to 1 when omitted.
	count := 1
	if countStr := s[:dIdx]; countStr != "" {
		n, err := strconv.Atoi(countStr)
		if err != nil {
			return Pool{}, fmt.Errorf("%w: invalid die count in %q: %v", ErrInvalidParameter, expr, err)
		}
		count = n
	}

	sides, err := strconv.Atoi(s[dIdx+1:])
	if err != nil {
		return Pool{}, fmt.Errorf("%w: invalid die sides in %q: %v", ErrInvalidParameter, expr, err)
	}

	p := Pool{Sides: sides, Count: count}
	if err := p.Validate(); err != nil {
		return Pool{}, err
	}
	return p, nil
}

// MustParse parses expr and panics on error. Useful for test fixtures and constants.
//
// Precondition: expr must be valid pool notation.
func MustParse(expr string) Pool {
	p, err := Parse(expr)
	if err != nil {
		panic("dice: MustParse failed for expression " + expr + ": " + err.Error())
	}
	return p
}
