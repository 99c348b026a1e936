package alps

import (
	"fmt"
	"strings"
)

// isTransition reports whether a descriptor represents a state transition.
func isTransition(d *Descriptor) bool {
	switch d.Type {
	case "safe", "unsafe", "idempotent":
		return true
	}
	return false
}

// edge is a single application-state transition in the rendered graph.
type edge struct {
	from  string
	to    string
	label string
}

// RenderDot renders the profile's application state diagram as a Graphviz
// DOT document. States are semantic descriptors that contain transitions;
// each safe/unsafe/idempotent child with an rt becomes an edge to the
// referenced state. When useTitle is set, node and edge labels prefer the
// descriptor's title over its id.
func RenderDot(content string, useTitle bool) (string, error) {
	profile, err := Parse(content)
	if err != nil {
		return "", err
	}

	index := profile.byID()
	var edges []edge
	nodes := []string{}
	seen := map[string]bool{}
	addNode := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			nodes = append(nodes, id)
		}
	}

	profile.walk(func(state *Descriptor) {
		if isTransition(state) || state.ID == "" {
			return
		}
		for i := range state.Descriptors {
			child := &state.Descriptors[i]
			// An href child is a reference to a transition declared elsewhere.
			if child.Href != "" && child.ID == "" {
				if resolved, ok := index[fragment(child.Href)]; ok {
					child = resolved
				}
			}
			if !isTransition(child) {
				continue
			}
			target := fragment(child.RT)
			if target == "" {
				continue
			}
			addNode(state.ID)
			addNode(target)
			edges = append(edges, edge{
				from:  state.ID,
				to:    target,
				label: descriptorLabel(child, useTitle),
			})
		}
	})

	var b strings.Builder
	b.WriteString("digraph alps {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, style=rounded];\n")
	for _, id := range nodes {
		label := id
		if useTitle {
			if d, ok := index[id]; ok && d.Title != "" {
				label = d.Title
			}
		}
		fmt.Fprintf(&b, "  %q [label=%q];\n", id, label)
	}
	for _, e := range edges {
		fmt.Fprintf(&b, "  %q -> %q [label=%q];\n", e.from, e.to, e.label)
	}
	b.WriteString("}\n")
	return b.String(), nil
}

func descriptorLabel(d *Descriptor, useTitle bool) string {
	if useTitle && d.Title != "" {
		return d.Title
	}
	return d.ID
}
