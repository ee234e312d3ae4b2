// pre_processor.go implements the WGSL include pre-processor. It scans shader source for single-line
// //@blocky: directives and replaces each include with a registered WGSL snippet, so struct definitions
// shared between Go and WGSL (the uniform block, the vertex inputs) have exactly one source.
package shader

import (
	"fmt"
	"strings"
)

// directivePrefix marks a pre-processor directive inside a WGSL line comment.
const directivePrefix = "@blocky:"

// directiveInclude injects a registered snippet at the directive site.
//
// Syntax: //@blocky:include <name>
const directiveInclude = "include"

type preProcessor struct {
	includes map[string]string
	included []string
}

// PreProcessor expands //@blocky: directives in WGSL source.
type PreProcessor interface {
	// Process replaces every include directive with its registered snippet. Lines without a directive
	// are kept verbatim.
	//
	// Parameters:
	//   - source: the raw WGSL source
	//
	// Returns:
	//   - string: the expanded source
	//   - error: an error naming the line of a malformed, unknown or repeated directive
	Process(source string) (string, error)

	// Included returns the snippet names injected by the most recent Process call, in source order.
	Included() []string
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a pre-processor that resolves includes from the given registry.
//
// Parameters:
//   - includes: snippet sources keyed by include name
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor
func NewPreProcessor(includes map[string]string) PreProcessor {
	reg := make(map[string]string, len(includes))
	for k, v := range includes {
		reg[k] = v
	}
	return &preProcessor{includes: reg}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.included = p.included[:0]
	seen := make(map[string]bool)

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		directive, args, ok := parseDirective(line)
		if !ok {
			out = append(out, line)
			continue
		}

		switch directive {
		case directiveInclude:
			if len(args) != 1 {
				return "", fmt.Errorf("line %d: include takes exactly one name, got %d", i+1, len(args))
			}
			name := args[0]
			snippet, found := p.includes[name]
			if !found {
				return "", fmt.Errorf("line %d: unknown include %q", i+1, name)
			}
			if seen[name] {
				return "", fmt.Errorf("line %d: %q included twice", i+1, name)
			}
			seen[name] = true
			p.included = append(p.included, name)
			out = append(out, snippet)
		default:
			return "", fmt.Errorf("line %d: unknown directive %q", i+1, directive)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Included() []string {
	return p.included
}

// parseDirective splits a "//@blocky:<directive> <args...>" line.
func parseDirective(line string) (string, []string, bool) {
	trimmed := strings.TrimSpace(line)
	rest, ok := strings.CutPrefix(trimmed, "//")
	if !ok {
		return "", nil, false
	}
	rest, ok = strings.CutPrefix(strings.TrimSpace(rest), directivePrefix)
	if !ok {
		return "", nil, false
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return "", nil, true
	}
	return fields[0], fields[1:], true
}
