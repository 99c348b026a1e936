package alps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const todoProfileJSON = `{
  "alps": {
    "version": "1.0",
    "doc": {"value": "A todo list profile"},
    "link": [{"rel": "self", "href": "https://example.com/alps/todo"}],
    "descriptor": [
      {"id": "TodoList", "type": "semantic", "title": "Todo List", "descriptor": [
        {"href": "#goItem"},
        {"id": "doCreate", "type": "unsafe", "rt": "#TodoList", "title": "Create Todo"}
      ]},
      {"id": "TodoItem", "type": "semantic", "title": "Todo Item", "descriptor": [
        {"id": "goList", "type": "safe", "rt": "#TodoList"}
      ]},
      {"id": "goItem", "type": "safe", "rt": "#TodoItem", "title": "View Item"},
      {"id": "title", "type": "semantic"}
    ]
  }
}`

const todoProfileXML = `<alps version="1.0">
  <doc>A todo list profile</doc>
  <descriptor id="Home" type="semantic">
    <descriptor id="goAbout" type="safe" rt="#About"/>
  </descriptor>
  <descriptor id="About" type="semantic"/>
</alps>`

func TestParseJSON(t *testing.T) {
	p, err := Parse(todoProfileJSON)
	require.NoError(t, err)

	assert.Equal(t, "1.0", p.Version)
	require.NotNil(t, p.Doc)
	assert.Equal(t, "A todo list profile", p.Doc.Value)
	require.Len(t, p.Descriptors, 4)
	assert.Equal(t, "TodoList", p.Descriptors[0].ID)
	require.Len(t, p.Descriptors[0].Descriptors, 2)
	assert.Equal(t, "#goItem", p.Descriptors[0].Descriptors[0].Href)
	require.Len(t, p.Links, 1)
	assert.Equal(t, "self", p.Links[0].Rel)
}

func TestParseJSONStringDoc(t *testing.T) {
	p, err := Parse(`{"alps": {"doc": "plain string doc", "descriptor": [{"id": "x"}]}}`)
	require.NoError(t, err)
	require.NotNil(t, p.Doc)
	assert.Equal(t, "plain string doc", p.Doc.Value)
}

func TestParseXML(t *testing.T) {
	p, err := Parse(todoProfileXML)
	require.NoError(t, err)

	assert.Equal(t, "1.0", p.Version)
	require.Len(t, p.Descriptors, 2)
	assert.Equal(t, "Home", p.Descriptors[0].ID)
	require.Len(t, p.Descriptors[0].Descriptors, 1)
	assert.Equal(t, "#About", p.Descriptors[0].Descriptors[0].RT)
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"empty", "   \n "},
		{"broken json", `{"alps": `},
		{"missing alps root", `{"descriptor": []}`},
		{"broken xml", `<alps><descriptor`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.content)
			assert.Error(t, err)
		})
	}
}

func TestByIDAndFragment(t *testing.T) {
	p, err := Parse(todoProfileJSON)
	require.NoError(t, err)

	index := p.byID()
	assert.Contains(t, index, "TodoList")
	assert.Contains(t, index, "goList") // nested ids are indexed too

	assert.Equal(t, "TodoItem", fragment("#TodoItem"))
	assert.Equal(t, "", fragment("https://example.com/alps#x"))
}
