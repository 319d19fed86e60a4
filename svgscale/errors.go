package svgscale

import (
	"fmt"

	"github.com/benoitkugler/svgscale/svgdom"
)

// NumericParseError locates a value the scaler could not rewrite.
type NumericParseError struct {
	Key     string // attribute or property name
	Element string // tag, with id when present
	Value   string
	err     error
}

func (e *NumericParseError) Error() string {
	return fmt.Sprintf("invalid %s %q on <%s>: %s", e.Key, e.Value, e.Element, e.err)
}

func (e *NumericParseError) Unwrap() error { return e.err }

func elementLabel(n *svgdom.Node) string {
	if id, ok := n.Attr("id"); ok {
		return n.Name + " id=" + id
	}
	return n.Name
}

func numErr(n *svgdom.Node, key, value string, err error) error {
	return &NumericParseError{Key: key, Element: elementLabel(n), Value: value, err: err}
}
