package macro

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Definition binds a macro name to its expander.
type Definition struct {
	Name     string
	Expander Expander
	Doc      string
}

// Builtins returns the macros shipped with underware.
func Builtins() []Definition {
	return []Definition{
		{
			Name:     "name",
			Expander: NameOf{},
			Doc:      "source-accurate name of a type: #name(of: T.self)",
		},
	}
}

// Registry maps macro names (and aliases) to definitions. It is immutable
// once built and safe for concurrent lookups.
type Registry struct {
	defs    map[string]Definition
	aliases map[string]string // alias -> canonical name
}

// NewRegistry builds a registry from defs. Names must be unique and non-empty.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{
		defs:    make(map[string]Definition, len(defs)),
		aliases: make(map[string]string),
	}
	for _, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("macro registry: empty macro name")
		}
		if d.Expander == nil {
			return nil, fmt.Errorf("macro registry: #%s has no expander", d.Name)
		}
		if _, dup := r.defs[d.Name]; dup {
			return nil, fmt.Errorf("macro registry: #%s registered twice", d.Name)
		}
		r.defs[d.Name] = d
	}
	return r, nil
}

// WithAliases returns a copy of r where each alias resolves to its target.
// Targets must be registered names; aliases must not shadow them.
func (r *Registry) WithAliases(aliases map[string]string) (*Registry, error) {
	out := &Registry{
		defs:    maps.Clone(r.defs),
		aliases: maps.Clone(r.aliases),
	}
	for _, alias := range slices.Sorted(maps.Keys(aliases)) {
		target := aliases[alias]
		if canonical, ok := out.aliases[target]; ok {
			target = canonical
		}
		if _, ok := out.defs[target]; !ok {
			return nil, fmt.Errorf("macro registry: alias #%s points to unknown macro #%s", alias, target)
		}
		if _, clash := out.defs[alias]; clash {
			return nil, fmt.Errorf("macro registry: alias #%s shadows a registered macro", alias)
		}
		out.aliases[alias] = target
	}
	return out, nil
}

// Lookup resolves name or alias.
func (r *Registry) Lookup(name string) (Definition, bool) {
	if r == nil {
		return Definition{}, false
	}
	if target, ok := r.aliases[name]; ok {
		name = target
	}
	d, ok := r.defs[name]
	return d, ok
}

// Definitions returns all definitions sorted by name.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, 0, len(r.defs))
	for _, name := range slices.Sorted(maps.Keys(r.defs)) {
		out = append(out, r.defs[name])
	}
	return out
}

// AliasesOf returns the sorted aliases that resolve to name.
func (r *Registry) AliasesOf(name string) []string {
	var out []string
	for alias, target := range r.aliases {
		if target == name {
			out = append(out, alias)
		}
	}
	slices.Sort(out)
	return out
}

// Fingerprint identifies the name-to-expander mapping; cached expansions
// are invalid once it changes.
func (r *Registry) Fingerprint() string {
	var sb strings.Builder
	for _, d := range r.Definitions() {
		fmt.Fprintf(&sb, "%s=%T\n", d.Name, d.Expander)
	}
	for _, alias := range slices.Sorted(maps.Keys(r.aliases)) {
		fmt.Fprintf(&sb, "%s->%s\n", alias, r.aliases[alias])
	}
	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:8])
}
