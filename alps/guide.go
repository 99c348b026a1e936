package alps

// Guide returns the static ALPS best-practices document served by the
// alps_guide tool.
func Guide() string {
	return guideText
}

const guideText = `# ALPS Profile Best Practices

## Structure

- Wrap the profile in a single root element: {"alps": {...}} in JSON or
  <alps>...</alps> in XML. Declare "version": "1.0".
- Give every descriptor an "id", or an "href" that points at one. Local
  references use fragment syntax: "#descriptorId".
- Add a "doc" to the profile and to any descriptor whose meaning is not
  obvious from its id.

## Semantic descriptors

- Use semantic descriptors (type "semantic", or no type) for application
  state and for data elements. Prefer lowerCamelCase ids for data
  (e.g. "title", "dueDate") and UpperCamelCase ids for states
  (e.g. "TodoList", "TodoItem").
- Reuse shared vocabularies (Schema.org and friends) by linking to them in
  the descriptor doc rather than inventing new terms.

## Transitions

- Model reads as "safe", creates as "unsafe", and updates/deletes as
  "idempotent". Prefix transition ids by convention: "goX" for safe
  navigation, "doX" for state-changing operations.
- Every transition should declare "rt" (return type) pointing at the state
  it lands on: "rt": "#TodoList".
- Nest transitions (or href references to them) inside the state descriptor
  they depart from. That nesting is what makes the application state diagram
  renderable.

## Hygiene

- Keep ids unique across the whole profile; rt and href resolution depends
  on it.
- Validate profiles before publishing and regenerate diagrams whenever the
  profile changes.
`
