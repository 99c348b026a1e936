// Package alps implements parsing, validation, and rendering of ALPS
// (Application-Level Profile Semantics) profile documents. The MCP server
// layers treat this package as an opaque collaborator: every operation
// returns either a textual payload or an error value, never panics.
package alps

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
)

// Doc holds a human-readable documentation node. In JSON form it may appear
// either as a bare string or as {"format": ..., "value": ...}.
type Doc struct {
	Format string `json:"format,omitempty" xml:"format,attr,omitempty"`
	Value  string `json:"value,omitempty" xml:",chardata"`
}

// UnmarshalJSON accepts both the string and object encodings of a doc node.
func (d *Doc) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		d.Value = s
		return nil
	}
	type alias Doc
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*d = Doc(a)
	return nil
}

// Link is a hypermedia link attached to a profile or descriptor.
type Link struct {
	Rel  string `json:"rel" xml:"rel,attr"`
	Href string `json:"href" xml:"href,attr"`
}

// Descriptor is the core ALPS building block: a semantic element, or a
// safe/unsafe/idempotent state transition. Descriptors nest.
type Descriptor struct {
	ID          string       `json:"id,omitempty" xml:"id,attr,omitempty"`
	Href        string       `json:"href,omitempty" xml:"href,attr,omitempty"`
	Type        string       `json:"type,omitempty" xml:"type,attr,omitempty"`
	RT          string       `json:"rt,omitempty" xml:"rt,attr,omitempty"`
	Title       string       `json:"title,omitempty" xml:"title,attr,omitempty"`
	Doc         *Doc         `json:"doc,omitempty" xml:"doc,omitempty"`
	Descriptors []Descriptor `json:"descriptor,omitempty" xml:"descriptor"`
	Links       []Link       `json:"link,omitempty" xml:"link"`
}

// Profile is a parsed ALPS profile document.
type Profile struct {
	Version     string       `json:"version,omitempty" xml:"version,attr,omitempty"`
	Title       string       `json:"title,omitempty" xml:"title,attr,omitempty"`
	Doc         *Doc         `json:"doc,omitempty" xml:"doc,omitempty"`
	Descriptors []Descriptor `json:"descriptor,omitempty" xml:"descriptor"`
	Links       []Link       `json:"link,omitempty" xml:"link"`
}

// jsonDocument is the JSON wrapper: {"alps": {...}}.
type jsonDocument struct {
	ALPS *Profile `json:"alps"`
}

// xmlDocument is the XML root: <alps ...>...</alps>.
type xmlDocument struct {
	XMLName xml.Name `xml:"alps"`
	Profile
}

// Parse decodes an ALPS profile from its JSON or XML representation,
// auto-detected from the first non-whitespace byte.
func Parse(content string) (*Profile, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, errors.New("profile content is empty")
	}
	if strings.HasPrefix(trimmed, "<") {
		return parseXML(trimmed)
	}
	return parseJSON(trimmed)
}

func parseJSON(content string) (*Profile, error) {
	var doc jsonDocument
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if doc.ALPS == nil {
		return nil, errors.New(`missing root "alps" element`)
	}
	return doc.ALPS, nil
}

func parseXML(content string) (*Profile, error) {
	var doc xmlDocument
	if err := xml.Unmarshal([]byte(content), &doc); err != nil {
		return nil, fmt.Errorf("invalid XML: %w", err)
	}
	return &doc.Profile, nil
}

// walk visits every descriptor in the profile depth-first, parents before
// children.
func (p *Profile) walk(fn func(d *Descriptor)) {
	var visit func(ds []Descriptor)
	visit = func(ds []Descriptor) {
		for i := range ds {
			fn(&ds[i])
			visit(ds[i].Descriptors)
		}
	}
	visit(p.Descriptors)
}

// byID indexes every descriptor that declares an id.
func (p *Profile) byID() map[string]*Descriptor {
	index := make(map[string]*Descriptor)
	p.walk(func(d *Descriptor) {
		if d.ID != "" {
			index[d.ID] = d
		}
	})
	return index
}

// fragment strips a leading '#' from a local reference. Returns "" for
// non-local (absolute) references.
func fragment(ref string) string {
	if strings.HasPrefix(ref, "#") {
		return ref[1:]
	}
	return ""
}
