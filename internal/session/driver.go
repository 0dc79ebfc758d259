package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"go.uber.org/zap"
)

// ErrInvalidInput indicates an unrecognized command or a malformed boundary.
var ErrInvalidInput = errors.New("invalid input")

// Renderer turns session views into text. It must not mutate the session.
type Renderer interface {
	// Distribution draws the outcome distribution with the current boundaries.
	Distribution(req RenderRequest) string
	// Query reports a query result over the updated view.
	Query(req RenderRequest, res Result) string
	// Help lists the available commands.
	Help(cmds []*Command) string
	// Error formats a rejected input.
	Error(err error) string
	// Prompt returns the text shown while waiting for input.
	Prompt(req RenderRequest) string
}

// Driver runs the read / dispatch / render loop over a Session.
type Driver struct {
	sess     *Session
	registry *Registry
	render   Renderer
	logger   *zap.Logger
}

// NewDriver creates a Driver.
//
// Precondition: sess, registry, render and logger must be non-nil.
func NewDriver(sess *Session, registry *Registry, render Renderer, logger *zap.Logger) *Driver {
	return &Driver{sess: sess, registry: registry, render: render, logger: logger}
}

// Handle executes one input line against the session.
//
// Postcondition: Returns the text to display, or an error wrapping
// ErrInvalidInput, stats.ErrInvalidRange or ErrClosed. On error the session
// state is unchanged.
func (d *Driver) Handle(line string) (string, error) {
	parsed := Parse(line)
	if parsed.Command == "" {
		return "", nil
	}
	cmd, ok := d.registry.Resolve(parsed.Command)
	if !ok {
		d.sess.observer.QueryRejected("unknown_command")
		return "", fmt.Errorf("%w: unknown command %q (try \"help\")", ErrInvalidInput, parsed.Command)
	}
	if len(parsed.Args) != cmd.Args {
		d.sess.observer.QueryRejected("arity")
		return "", fmt.Errorf("%w: usage: %s", ErrInvalidInput, cmd.Usage)
	}
	bounds, err := parseBounds(parsed.Args)
	if err != nil {
		d.sess.observer.QueryRejected("not_a_number")
		return "", err
	}

	switch cmd.Handler {
	case HandlerAtMost:
		res, err := d.sess.AtMost(bounds[0])
		if err != nil {
			return "", err
		}
		return d.render.Query(d.sess.RenderRequest(), res), nil
	case HandlerAtLeast:
		res, err := d.sess.AtLeast(bounds[0])
		if err != nil {
			return "", err
		}
		return d.render.Query(d.sess.RenderRequest(), res), nil
	case HandlerBetween:
		res, err := d.sess.Between(bounds[0], bounds[1])
		if err != nil {
			return "", err
		}
		return d.render.Query(d.sess.RenderRequest(), res), nil
	case HandlerReset:
		if err := d.sess.Reset(); err != nil {
			return "", err
		}
		return d.render.Distribution(d.sess.RenderRequest()), nil
	case HandlerExit:
		return "", d.sess.Exit()
	case HandlerShow:
		if d.sess.Closed() {
			return "", ErrClosed
		}
		return d.render.Distribution(d.sess.RenderRequest()), nil
	case HandlerHelp:
		return d.render.Help(d.registry.Commands()), nil
	default:
		return "", fmt.Errorf("%w: command %q has no handler", ErrInvalidInput, cmd.Name)
	}
}

// Run reads lines from in until exit, end of input or ctx is done, writing
// all output to out. Rejected inputs are reported and the loop continues.
//
// Postcondition: the session is closed when Run returns.
func (d *Driver) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- sc.Err()
		close(lines)
	}()

	defer func() {
		if !d.sess.Closed() {
			_ = d.sess.Exit()
		}
	}()

	for {
		fmt.Fprint(out, d.render.Prompt(d.sess.RenderRequest()))
		select {
		case <-ctx.Done():
			d.logger.Info("session interrupted")
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-errc; err != nil {
					return fmt.Errorf("reading input: %w", err)
				}
				d.logger.Info("input closed, ending session")
				return nil
			}
			text, err := d.Handle(line)
			if err != nil {
				d.logger.Debug("input rejected", zap.String("line", line), zap.Error(err))
				fmt.Fprintln(out, d.render.Error(err))
				continue
			}
			if text != "" {
				fmt.Fprintln(out, text)
			}
			if d.sess.Closed() {
				d.logger.Info("session ended by user")
				return nil
			}
		}
	}
}

func parseBounds(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidInput, a)
		}
		out[i] = v
	}
	return out, nil
}
