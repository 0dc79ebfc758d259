package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cory-johannsen/dicesim/internal/config"
)

// errBadInput reports a pool parameter that is not an integer. The message
// has already been shown to the user when it is returned.
var errBadInput = errors.New("invalid input")

const badInputMessage = "Invalid input. Use integers."

type poolField struct {
	prompt string
	dst    *int
}

func fieldsOf(s *config.SimulationConfig) []poolField {
	return []poolField{
		{prompt: "Sides (S): ", dst: &s.Sides},
		{prompt: "Dice (N): ", dst: &s.Dice},
		{prompt: "Rolls (R): ", dst: &s.Trials},
	}
}

// supplied marks the S, N, R fields given explicitly by --pool or positional
// arguments, in fieldsOf order. An explicit value is never prompted for, even
// when it is zero; validation rejects it instead.
type supplied [3]bool

// applyArgs copies positional S N R arguments over s, in order.
func applyArgs(s *config.SimulationConfig, args []string, set *supplied) error {
	for i, f := range fieldsOf(s) {
		if i >= len(args) {
			break
		}
		n, err := strconv.Atoi(strings.TrimSpace(args[i]))
		if err != nil {
			return fmt.Errorf("%w: %q", errBadInput, args[i])
		}
		*f.dst = n
		set[i] = true
	}
	return nil
}

// promptMissing asks for every pool parameter neither supplied explicitly nor
// set by configuration.
//
// Postcondition: Returns nil with all fields set, or an error wrapping
// errBadInput on a non-integer answer or end of input.
func promptMissing(s *config.SimulationConfig, set supplied, in *bufio.Reader, out io.Writer) error {
	for i, f := range fieldsOf(s) {
		if set[i] || *f.dst != 0 {
			continue
		}
		fmt.Fprint(out, f.prompt)
		line, err := in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return fmt.Errorf("%w: %v", errBadInput, err)
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			return fmt.Errorf("%w: %q", errBadInput, strings.TrimSpace(line))
		}
		*f.dst = n
	}
	return nil
}
