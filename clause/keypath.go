package clause

import (
	"fmt"

	"github.com/tangram-data/mql/ir"
)

// Keypath is an ordered sequence of mapping keys locating a position within
// a query document. The empty Keypath addresses the document root.
type Keypath []string

// Path builds a Keypath.
func Path(keys ...string) Keypath {
	return Keypath(keys)
}

// GetAt resolves a keypath against a document, descending through nested
// mappings. Returns false when any key along the path is absent or when a
// non-mapping value is reached before the path is exhausted.
func GetAt(root ir.Node, path Keypath) (ir.Node, bool) {
	node := root
	for _, key := range path {
		m, ok := node.(ir.Map)
		if !ok {
			return nil, false
		}
		node, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

// WithAt returns a new document with value placed at keypath. Mappings
// along the path are copied, untouched siblings are shared structurally,
// and the input document is never modified.
//
// Every intermediate key must already resolve to a mapping; the final key
// may be absent (it is created). A path through a missing or non-mapping
// intermediate is an error; intermediate structure is never fabricated.
func WithAt(root ir.Node, path Keypath, value ir.Node) (ir.Node, error) {
	if len(path) == 0 {
		return value, nil
	}

	m, ok := root.(ir.Map)
	if !ok {
		return nil, fmt.Errorf("keypath %v: expected mapping, got %T", path, root)
	}

	key := path[0]
	var child ir.Node
	if len(path) > 1 {
		inner, present := m[key]
		if !present {
			return nil, fmt.Errorf("keypath %v: key %q not found", path, key)
		}
		rebuilt, err := WithAt(inner, path[1:], value)
		if err != nil {
			return nil, err
		}
		child = rebuilt
	} else {
		child = value
	}

	out := make(ir.Map, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out[key] = child
	return out, nil
}
