package snippet

// Interaction attributes recognized on links. A link carrying AttrModal
// opens its target inside the modal overlay; AttrModalHistory selects
// the history strategy for that modal session.
const (
	AttrModal         = "data-modal"
	AttrModalHistory  = "data-modal-history"
	AttrModalSuppress = "data-modal-suppress"
	AttrHistory       = "data-history"
)

// Element is an interactive element harvested from page or snippet
// content: its link target, display text, and declared attributes.
// InModal marks elements harvested from the modal overlay's content.
type Element struct {
	Index   int
	Text    string
	Href    string
	Attrs   map[string]string
	InModal bool
}

// Attr returns the value of a declared attribute.
func (el *Element) Attr(name string) (string, bool) {
	if el.Attrs == nil {
		return "", false
	}
	v, ok := el.Attrs[name]
	return v, ok
}

// Has reports whether the attribute is declared, regardless of value.
func (el *Element) Has(name string) bool {
	_, ok := el.Attr(name)
	return ok
}

// SetAttr declares an attribute on the element.
func (el *Element) SetAttr(name, value string) {
	if el.Attrs == nil {
		el.Attrs = make(map[string]string)
	}
	el.Attrs[name] = value
}
