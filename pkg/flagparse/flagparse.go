package flagparse

import (
	"errors"
	"fmt"
	"strings"
)

// ErrHelp is returned when the user asks for usage output. The cmd layer
// prints the help text and exits cleanly instead of treating it as a failure.
var ErrHelp = errors.New("help requested")

type flagKind int

const (
	boolFlag flagKind = iota
	stringFlag
)

// flagSpec declares one flag of a tool's vocabulary.
type flagSpec struct {
	name string
	kind flagKind
	help string
}

// parsed holds the raw parse results before validation.
type parsed struct {
	bools       map[string]bool
	strs        map[string]string
	positionals []string
}

// resolve matches name against the vocabulary. An exact match always wins;
// otherwise any unambiguous prefix of a flag name is accepted, so -dry
// resolves to -dry-run while -no is rejected as ambiguous.
func resolve(specs []flagSpec, name string) (flagSpec, error) {
	var matches []flagSpec
	for _, s := range specs {
		if s.name == name {
			return s, nil
		}
		if strings.HasPrefix(s.name, name) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return flagSpec{}, fmt.Errorf("unknown option: -%s", name)
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = "-" + m.name
		}
		return flagSpec{}, fmt.Errorf("ambiguous option: -%s (could be %s)", name, strings.Join(names, ", "))
	}
}

// parseArgs splits args into flags and positionals according to specs.
// Both single- and double-dash forms are accepted, with an optional
// =value suffix for string flags.
func parseArgs(args []string, specs []flagSpec) (*parsed, error) {
	p := &parsed{
		bools: make(map[string]bool),
		strs:  make(map[string]string),
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			p.positionals = append(p.positionals, arg)
			continue
		}

		name := strings.TrimLeft(arg, "-")
		var inlineValue string
		var hasInline bool
		if eq := strings.Index(name, "="); eq >= 0 {
			inlineValue, hasInline = name[eq+1:], true
			name = name[:eq]
		}

		if name == "h" || name == "help" {
			return nil, ErrHelp
		}

		spec, err := resolve(specs, name)
		if err != nil {
			return nil, err
		}

		switch spec.kind {
		case boolFlag:
			if hasInline {
				return nil, fmt.Errorf("option -%s takes no value", spec.name)
			}
			p.bools[spec.name] = true
		case stringFlag:
			if hasInline {
				p.strs[spec.name] = inlineValue
				continue
			}
			i++
			if i >= len(args) {
				return nil, fmt.Errorf("option -%s requires a value", spec.name)
			}
			p.strs[spec.name] = args[i]
		}
	}
	return p, nil
}
