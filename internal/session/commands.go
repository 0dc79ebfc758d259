package session

import (
	"fmt"
	"sort"
	"strings"
)

// Handler identifiers mapping commands to session transitions.
const (
	HandlerAtMost  = "le"
	HandlerBetween = "range"
	HandlerAtLeast = "ge"
	HandlerReset   = "reset"
	HandlerExit    = "exit"
	HandlerHelp    = "help"
	HandlerShow    = "show"
)

// Command defines a user-invocable query command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage shows the argument form, e.g. "le <x>".
	Usage string
	// Help is the short help text.
	Help string
	// Args is the number of numeric boundaries the command requires.
	Args int
	// Handler maps to the session transition.
	Handler string
}

// BuiltinCommands returns the closed command set of the query session.
// The numeric aliases follow the order of the interactive menu.
func BuiltinCommands() []Command {
	return []Command{
		{Name: "le", Aliases: []string{"<=", "1"}, Usage: "le <x>", Help: "Probability of rolling at most x", Args: 1, Handler: HandlerAtMost},
		{Name: "range", Aliases: []string{"between", "2"}, Usage: "range <x> <y>", Help: "Probability of rolling between x and y inclusive", Args: 2, Handler: HandlerBetween},
		{Name: "ge", Aliases: []string{">=", "3"}, Usage: "ge <x>", Help: "Probability of rolling at least x", Args: 1, Handler: HandlerAtLeast},
		{Name: "reset", Aliases: []string{"clear", "4"}, Usage: "reset", Help: "Clear the highlighted boundaries", Handler: HandlerReset},
		{Name: "exit", Aliases: []string{"quit", "q", "5"}, Usage: "exit", Help: "End the session", Handler: HandlerExit},
		{Name: "show", Aliases: []string{"dist"}, Usage: "show", Help: "Redraw the distribution", Handler: HandlerShow},
		{Name: "help", Aliases: []string{"?"}, Usage: "help", Help: "Show available commands", Handler: HandlerHelp},
	}
}

// Registry maps command names and aliases to Command definitions.
type Registry struct {
	commands map[string]*Command // canonical name → command
	aliases  map[string]string   // alias → canonical name
}

// NewRegistry creates a Registry populated with the given commands.
//
// Precondition: No two commands may share a canonical name or alias.
// Postcondition: Returns a Registry or an error on name/alias collisions.
func NewRegistry(cmds []Command) (*Registry, error) {
	r := &Registry{
		commands: make(map[string]*Command, len(cmds)),
		aliases:  make(map[string]string),
	}

	for i := range cmds {
		cmd := &cmds[i]
		if _, exists := r.commands[cmd.Name]; exists {
			return nil, fmt.Errorf("duplicate command name: %q", cmd.Name)
		}
		if _, exists := r.aliases[cmd.Name]; exists {
			return nil, fmt.Errorf("command name %q conflicts with an existing alias", cmd.Name)
		}
		r.commands[cmd.Name] = cmd

		for _, alias := range cmd.Aliases {
			if _, exists := r.commands[alias]; exists {
				return nil, fmt.Errorf("alias %q conflicts with command name %q", alias, alias)
			}
			if existing, exists := r.aliases[alias]; exists {
				return nil, fmt.Errorf("duplicate alias %q: used by %q and %q", alias, existing, cmd.Name)
			}
			r.aliases[alias] = cmd.Name
		}
	}

	return r, nil
}

// DefaultRegistry creates a Registry with all built-in commands.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinCommands())
	if err != nil {
		panic(fmt.Sprintf("building default registry: %v", err))
	}
	return r
}

// Resolve looks up a command by name or alias.
//
// Postcondition: Returns (command, true) if found, or (nil, false).
func (r *Registry) Resolve(input string) (*Command, bool) {
	if cmd, ok := r.commands[input]; ok {
		return cmd, true
	}
	if canonical, ok := r.aliases[input]; ok {
		return r.commands[canonical], true
	}
	return nil, false
}

// Commands returns all registered commands sorted by name.
func (r *Registry) Commands() []*Command {
	result := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		result = append(result, cmd)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// ParseResult holds the parsed command word and arguments from an input line.
type ParseResult struct {
	// Command is the first word of the input, lowercased.
	Command string
	// Args are the remaining words after the command.
	Args []string
}

// Parse splits an input line into a command and arguments.
//
// Postcondition: Returns a ParseResult. If line is blank, Command is empty.
func Parse(line string) ParseResult {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ParseResult{}
	}
	res := ParseResult{Command: strings.ToLower(fields[0])}
	if len(fields) > 1 {
		res.Args = fields[1:]
	}
	return res
}
