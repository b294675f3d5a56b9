package doctree

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	// ErrEmptyDocument is returned when a YAML document holds no content.
	ErrEmptyDocument = errors.New("empty document")
	// ErrNotMapping is returned when a document's top level is not a mapping.
	ErrNotMapping = errors.New("document top level is not a mapping")
	// ErrTooLarge is returned when alias expansion would produce more nodes
	// than a document may hold.
	ErrTooLarge = errors.New("document too large after alias expansion")
)

const (
	maxAliasDepth = 64
	// MaxNodes caps the number of nodes a decoded document may contain,
	// counting every copy produced by an alias.
	MaxNodes = 1 << 20
)

// decoder converts yaml.Node trees and counts produced nodes so repeated
// aliases cannot expand without bound.
type decoder struct {
	nodes int
}

func (d *decoder) count(n *yaml.Node) error {
	d.nodes++
	if d.nodes > MaxNodes {
		return fmt.Errorf("line %d: %w (limit %d nodes)", n.Line, ErrTooLarge, MaxNodes)
	}
	return nil
}

// Decode parses a YAML document into a Node tree. The top level must be a
// mapping; the "@attributes" key of every mapping is split into the node's
// attributes bag.
func Decode(data []byte) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, ErrEmptyDocument
	}

	d := &decoder{}
	root, err := d.convert(doc.Content[0], 0)
	if err != nil {
		return nil, err
	}
	switch root.Kind {
	case KindNull:
		return nil, ErrEmptyDocument
	case KindMapping:
		if root.Len() == 0 && !root.HasAttrs() {
			return nil, ErrEmptyDocument
		}
		return root, nil
	default:
		return nil, fmt.Errorf("%w (got %s)", ErrNotMapping, root.Kind)
	}
}

func (d *decoder) convert(n *yaml.Node, depth int) (*Node, error) {
	if depth > maxAliasDepth {
		return nil, fmt.Errorf("line %d: alias nesting too deep", n.Line)
	}
	if err := d.count(n); err != nil {
		return nil, err
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return NewNull(), nil
		}
		return d.convert(n.Content[0], depth)
	case yaml.AliasNode:
		return d.convert(n.Alias, depth+1)
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			return NewNull(), nil
		}
		return NewScalar(n.Value), nil
	case yaml.SequenceNode:
		seq := NewSequence()
		for _, item := range n.Content {
			child, err := d.convert(item, depth)
			if err != nil {
				return nil, err
			}
			seq.Items = append(seq.Items, child)
		}
		return seq, nil
	case yaml.MappingNode:
		return d.convertMapping(n, depth)
	default:
		return nil, fmt.Errorf("line %d: unsupported yaml node kind %d", n.Line, n.Kind)
	}
}

func (d *decoder) convertMapping(n *yaml.Node, depth int) (*Node, error) {
	out := NewMapping()
	var inherited []*yaml.Node

	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valNode := n.Content[i], n.Content[i+1]

		if keyNode.ShortTag() == "!!merge" {
			inherited = append(inherited, valNode)
			continue
		}

		key := keyNode.Value
		if key == AttributesKey {
			if err := d.convertAttributes(out, valNode, depth); err != nil {
				return nil, err
			}
			continue
		}

		child, err := d.convert(valNode, depth)
		if err != nil {
			return nil, err
		}
		out.Set(key, child)
	}

	// Explicit keys take precedence over "<<" merges.
	for _, src := range inherited {
		if err := d.applyInherited(out, src, depth); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (d *decoder) convertAttributes(out *Node, n *yaml.Node, depth int) error {
	for n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null" {
		return nil
	}
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: %s must be a mapping", n.Line, AttributesKey)
	}

	attrs, err := d.convert(n, depth)
	if err != nil {
		return err
	}
	out.ensureAttrs()
	for pair := attrs.Children.Oldest(); pair != nil; pair = pair.Next() {
		switch pair.Value.Kind {
		case KindScalar:
			out.SetAttr(pair.Key, pair.Value.Value)
		case KindNull:
			out.SetAttr(pair.Key, "")
		default:
			return fmt.Errorf("line %d: attribute %q must be a scalar, got %s", n.Line, pair.Key, pair.Value.Kind)
		}
	}
	return nil
}

func (d *decoder) applyInherited(out *Node, src *yaml.Node, depth int) error {
	var sources []*yaml.Node
	if src.Kind == yaml.SequenceNode {
		sources = src.Content
	} else {
		sources = []*yaml.Node{src}
	}

	for _, s := range sources {
		base, err := d.convert(s, depth+1)
		if err != nil {
			return err
		}
		if !base.IsMapping() {
			return fmt.Errorf("line %d: merge key value must be a mapping", s.Line)
		}
		for pair := base.Children.Oldest(); pair != nil; pair = pair.Next() {
			if _, exists := out.Get(pair.Key); !exists {
				out.Set(pair.Key, pair.Value)
			}
		}
		for _, name := range base.AttrNames() {
			if _, exists := out.Attr(name); !exists {
				v, _ := base.Attr(name)
				out.SetAttr(name, v)
			}
		}
	}
	return nil
}
