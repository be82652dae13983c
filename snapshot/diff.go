package snapshot

import (
	"fmt"
	"slices"
)

// maxDiffs caps the report so a diverged run stays readable
const maxDiffs = 16

// Diff lists differences between two frames, ignoring container identity
// An empty result means the frames describe the same state
func Diff(a, b Frame) []string {
	var out []string
	add := func(format string, args ...any) bool {
		if len(out) < maxDiffs {
			out = append(out, fmt.Sprintf(format, args...))
		}
		return len(out) < maxDiffs
	}

	if a.Step != b.Step {
		add("step %d != %d", a.Step, b.Step)
	}

	if len(a.Nodes) != len(b.Nodes) {
		add("node count %d != %d", len(a.Nodes), len(b.Nodes))
	}
	for i := range min(len(a.Nodes), len(b.Nodes)) {
		if a.Nodes[i] != b.Nodes[i] && !add("node %+v != %+v", a.Nodes[i], b.Nodes[i]) {
			return out
		}
	}

	if len(a.Members) != len(b.Members) {
		add("member count %d != %d", len(a.Members), len(b.Members))
	}
	for i := range min(len(a.Members), len(b.Members)) {
		if a.Members[i] != b.Members[i] && !add("member %+v != %+v", a.Members[i], b.Members[i]) {
			return out
		}
	}

	if len(a.Chunks) != len(b.Chunks) {
		add("chunk count %d != %d", len(a.Chunks), len(b.Chunks))
	}
	for i := range min(len(a.Chunks), len(b.Chunks)) {
		ca, cb := a.Chunks[i], b.Chunks[i]
		if ca.Col != cb.Col || ca.Row != cb.Row || !slices.Equal(ca.Locators, cb.Locators) {
			if !add("chunk (%d,%d) %v != (%d,%d) %v", ca.Col, ca.Row, ca.Locators, cb.Col, cb.Row, cb.Locators) {
				return out
			}
		}
	}
	return out
}
