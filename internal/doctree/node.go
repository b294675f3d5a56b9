// Package doctree models the theme document as a tree of typed nodes and
// implements the fragment merge used to layer partial documents onto a base.
package doctree

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// AttributesKey is the reserved mapping key whose value becomes the
// attributes of the enclosing element.
const AttributesKey = "@attributes"

// Kind identifies the shape of a Node.
type Kind int

const (
	KindNull Kind = iota
	KindScalar
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "null"
	}
}

// Attributes is an insertion-ordered set of attribute name/value pairs.
type Attributes = orderedmap.OrderedMap[string, string]

// Children is an insertion-ordered set of named child nodes.
type Children = orderedmap.OrderedMap[string, *Node]

// Node is one value in a theme document.
//
// Only the fields matching Kind are meaningful. For mappings, Attrs is nil
// when the node carries no attributes bag at all, which is distinct from an
// empty bag.
type Node struct {
	Kind     Kind
	Value    string
	Items    []*Node
	Attrs    *Attributes
	Children *Children
}

// NewMapping returns an empty mapping node without an attributes bag.
func NewMapping() *Node {
	return &Node{Kind: KindMapping, Children: orderedmap.New[string, *Node]()}
}

// NewScalar returns a scalar leaf holding value.
func NewScalar(value string) *Node {
	return &Node{Kind: KindScalar, Value: value}
}

// NewSequence returns a sequence node holding items.
func NewSequence(items ...*Node) *Node {
	return &Node{Kind: KindSequence, Items: items}
}

// NewNull returns a null node.
func NewNull() *Node {
	return &Node{Kind: KindNull}
}

// IsMapping reports whether n is a non-nil mapping node.
func (n *Node) IsMapping() bool {
	return n != nil && n.Kind == KindMapping
}

// HasAttrs reports whether n carries an attributes bag, even an empty one.
func (n *Node) HasAttrs() bool {
	return n.IsMapping() && n.Attrs != nil
}

func (n *Node) ensureAttrs() {
	if n.Attrs == nil {
		n.Attrs = orderedmap.New[string, string]()
	}
}

// SetAttr sets an attribute, creating the bag if needed. Existing names keep
// their position.
func (n *Node) SetAttr(name, value string) {
	n.ensureAttrs()
	n.Attrs.Set(name, value)
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	if !n.HasAttrs() {
		return "", false
	}
	return n.Attrs.Get(name)
}

// AttrNames returns attribute names in order.
func (n *Node) AttrNames() []string {
	if !n.HasAttrs() {
		return nil
	}
	names := make([]string, 0, n.Attrs.Len())
	for pair := n.Attrs.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Set stores child under key. Replacing an existing key keeps its position.
func (n *Node) Set(key string, child *Node) {
	if n.Children == nil {
		n.Children = orderedmap.New[string, *Node]()
	}
	n.Children.Set(key, child)
}

// Get returns the child stored under key.
func (n *Node) Get(key string) (*Node, bool) {
	if !n.IsMapping() || n.Children == nil {
		return nil, false
	}
	return n.Children.Get(key)
}

// Keys returns child keys in order.
func (n *Node) Keys() []string {
	if !n.IsMapping() || n.Children == nil {
		return nil
	}
	keys := make([]string, 0, n.Children.Len())
	for pair := n.Children.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Len returns the number of children of a mapping or items of a sequence.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	switch n.Kind {
	case KindMapping:
		if n.Children == nil {
			return 0
		}
		return n.Children.Len()
	case KindSequence:
		return len(n.Items)
	default:
		return 0
	}
}

// RootKey returns the first child key of a mapping node.
func (n *Node) RootKey() (string, bool) {
	if !n.IsMapping() || n.Children == nil {
		return "", false
	}
	first := n.Children.Oldest()
	if first == nil {
		return "", false
	}
	return first.Key, true
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{Kind: n.Kind, Value: n.Value}
	if n.Items != nil {
		out.Items = make([]*Node, len(n.Items))
		for i, item := range n.Items {
			out.Items[i] = item.Clone()
		}
	}
	if n.Attrs != nil {
		out.Attrs = orderedmap.New[string, string]()
		for pair := n.Attrs.Oldest(); pair != nil; pair = pair.Next() {
			out.Attrs.Set(pair.Key, pair.Value)
		}
	}
	if n.Children != nil {
		out.Children = orderedmap.New[string, *Node]()
		for pair := n.Children.Oldest(); pair != nil; pair = pair.Next() {
			out.Children.Set(pair.Key, pair.Value.Clone())
		}
	}
	return out
}

// Equal reports whether a and b are structurally identical, including the
// order of attributes and children.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindScalar:
		return a.Value == b.Value
	case KindSequence:
		if len(a.Items) != len(b.Items) {
			return false
		}
		for i := range a.Items {
			if !Equal(a.Items[i], b.Items[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if a.HasAttrs() != b.HasAttrs() {
			return false
		}
		if a.HasAttrs() {
			if a.Attrs.Len() != b.Attrs.Len() {
				return false
			}
			pb := b.Attrs.Oldest()
			for pa := a.Attrs.Oldest(); pa != nil; pa = pa.Next() {
				if pa.Key != pb.Key || pa.Value != pb.Value {
					return false
				}
				pb = pb.Next()
			}
		}
		if a.Len() != b.Len() {
			return false
		}
		if a.Len() == 0 {
			return true
		}
		pb := b.Children.Oldest()
		for pa := a.Children.Oldest(); pa != nil; pa = pa.Next() {
			if pa.Key != pb.Key || !Equal(pa.Value, pb.Value) {
				return false
			}
			pb = pb.Next()
		}
		return true
	default:
		return true
	}
}
