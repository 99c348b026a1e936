package alps

import (
	"fmt"
	"strings"
)

// descriptor types permitted by the ALPS spec; empty means semantic.
var validTypes = map[string]bool{
	"":           true,
	"semantic":   true,
	"safe":       true,
	"unsafe":     true,
	"idempotent": true,
}

// Result is the outcome of validating a profile. Validation never fails with
// an error value: problems are folded into Message.
type Result struct {
	Valid       bool
	Message     string
	Descriptors int
	Links       int
}

// Validate parses the profile and checks its structural rules: every
// descriptor carries an id or an href, descriptor types are drawn from the
// ALPS vocabulary, and local rt references resolve to a declared id.
func Validate(content string) Result {
	profile, err := Parse(content)
	if err != nil {
		return Result{Message: err.Error()}
	}

	ids := profile.byID()
	var problems []string
	descriptors := 0
	links := len(profile.Links)

	profile.walk(func(d *Descriptor) {
		descriptors++
		links += len(d.Links)

		name := d.ID
		if name == "" {
			name = d.Href
		}
		if d.ID == "" && d.Href == "" {
			problems = append(problems, "descriptor missing both id and href")
		}
		if !validTypes[d.Type] {
			problems = append(problems, fmt.Sprintf("descriptor %q has invalid type %q", name, d.Type))
		}
		if frag := fragment(d.RT); d.RT != "" && frag != "" {
			if _, ok := ids[frag]; !ok {
				problems = append(problems, fmt.Sprintf("descriptor %q rt %q does not resolve to a declared id", name, d.RT))
			}
		}
		if frag := fragment(d.Href); d.Href != "" && frag != "" {
			if _, ok := ids[frag]; !ok {
				problems = append(problems, fmt.Sprintf("descriptor href %q does not resolve to a declared id", d.Href))
			}
		}
	})

	if len(problems) > 0 {
		return Result{
			Message:     "invalid ALPS profile: " + strings.Join(problems, "; "),
			Descriptors: descriptors,
			Links:       links,
		}
	}
	return Result{
		Valid:       true,
		Message:     "ALPS profile is valid",
		Descriptors: descriptors,
		Links:       links,
	}
}
