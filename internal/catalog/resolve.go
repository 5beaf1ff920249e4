package catalog

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/borgspace/internal/errors"
	"github.com/rileyhilliard/borgspace/internal/spec"
)

// frame is one in-progress group on the expansion stack.
type frame struct {
	group   string
	entries []string
	next    int
}

// Resolve expands a request into concrete repository identities.
//
// An empty request substitutes the configured default. A request naming
// a group expands it depth-first in declaration order; entries that name
// groups expand in place, other entries are parsed as specs. A request
// that names no group is parsed as an ad-hoc spec. Results are
// deduplicated by resolved identity, first occurrence wins.
//
// Resolution is pure: the catalog is never modified, and a failure for
// one request never poisons another.
func (c *Catalog) Resolve(request string, env spec.Env) ([]Resolution, error) {
	req := request
	if req == "" {
		req = c.defaultRequest
		if req == "" {
			return nil, errors.New(errors.ErrDefault,
				"No repository requested and no default configured",
				"Name a repository on the command line, or set 'default repository' in your settings")
		}
	}

	entries, isGroup := c.groups[req]
	if !isGroup || len(entries) == 0 {
		// Not a group, or a group declared with no entries, which stands
		// for the spec of the same name.
		s, err := spec.Parse(req)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrGroup,
				fmt.Sprintf("'%s' is not a configured group and not a valid spec", req),
				"Check the name against 'borgspace list', or fix the spec syntax")
		}
		resolution, err := resolveLeaf(s, env)
		if err != nil {
			return nil, err
		}
		return []Resolution{resolution}, nil
	}

	// Iterative depth-first expansion with an explicit chain of
	// in-progress groups for cycle detection.
	var (
		results []Resolution
		seen    = make(map[string]bool)
		stack   = []frame{{group: req, entries: entries}}
		inChain = map[string]bool{req: true}
	)

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next >= len(top.entries) {
			delete(inChain, top.group)
			stack = stack[:len(stack)-1]
			continue
		}

		entry := top.entries[top.next]
		top.next++

		// Group names shadow identically spelled ad-hoc specs.
		if children, ok := c.groups[entry]; ok && len(children) > 0 {
			if inChain[entry] {
				return nil, cycleError(stack, entry)
			}
			inChain[entry] = true
			stack = append(stack, frame{group: entry, entries: children})
			continue
		}

		s, err := spec.Parse(entry)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrSpec,
				fmt.Sprintf("Group '%s' contains an invalid entry '%s'", top.group, entry),
				"Fix the entry in your settings file")
		}
		resolution, err := resolveLeaf(s, env)
		if err != nil {
			return nil, err
		}
		if !seen[resolution.Name] {
			seen[resolution.Name] = true
			results = append(results, resolution)
		}
	}

	return results, nil
}

// resolveLeaf turns a parsed spec into a Resolution with env defaults filled.
func resolveLeaf(s spec.Spec, env spec.Env) (Resolution, error) {
	resolved, err := s.Resolve(env)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{Name: resolved.Name(), Spec: s, Resolved: resolved}, nil
}

// cycleError reports a self-referential group expansion, naming the full
// chain from the first group to the one that closed the loop.
func cycleError(stack []frame, closing string) error {
	chain := make([]string, 0, len(stack)+1)
	for _, f := range stack {
		chain = append(chain, f.group)
	}
	chain = append(chain, closing)
	return errors.New(errors.ErrCycle,
		fmt.Sprintf("Repository group '%s' references itself: %s", closing, strings.Join(chain, " -> ")),
		"Break the loop by removing one of the references in your settings")
}
