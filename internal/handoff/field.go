package handoff

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// fieldState classifies a decoded value for required-field checks.
type fieldState int

const (
	fieldAbsent fieldState = iota
	fieldBlank
	fieldEmptyList
	fieldPresent
)

// shaped is implemented by every decoded field and section.
type shaped interface {
	fieldState() fieldState
}

// resolve follows document and alias nodes to the node holding the value.
func resolve(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch n.Kind {
		case yaml.DocumentNode:
			if len(n.Content) == 0 {
				return nil
			}
			n = n.Content[0]
		case yaml.AliasNode:
			n = n.Alias
		default:
			return n
		}
	}
	return nil
}

func stateOf(n *yaml.Node) fieldState {
	n = resolve(n)
	if n == nil {
		return fieldAbsent
	}
	switch n.Kind {
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return fieldAbsent
		case "!!str":
			if strings.TrimSpace(n.Value) == "" {
				return fieldBlank
			}
		}
		return fieldPresent
	case yaml.SequenceNode:
		if len(n.Content) == 0 {
			return fieldEmptyList
		}
		return fieldPresent
	case yaml.MappingNode:
		return fieldPresent
	}
	return fieldAbsent
}

// decodeSection decodes n into out when n is a mapping. Any other shape
// leaves out untouched. It returns the state of n and whether it was a mapping.
func decodeSection(n *yaml.Node, out any) (fieldState, bool) {
	st := stateOf(n)
	r := resolve(n)
	if r == nil || r.Kind != yaml.MappingNode {
		return st, false
	}
	// Fields are tolerant decoders, so a failure here can only come from
	// yaml internals; treat it as a shapeless section.
	if err := r.Decode(out); err != nil {
		return st, false
	}
	return st, true
}

// Text is a scalar field. Non-scalar values count as present with an empty Value.
type Text struct {
	Value string
	st    fieldState
}

// NewText returns a Text as if decoded from the scalar s.
func NewText(s string) Text {
	t := Text{Value: s, st: fieldPresent}
	if strings.TrimSpace(s) == "" {
		t.st = fieldBlank
	}
	return t
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *Text) UnmarshalYAML(n *yaml.Node) error {
	t.st = stateOf(n)
	if r := resolve(n); r != nil && r.Kind == yaml.ScalarNode {
		t.Value = r.Value
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (t Text) MarshalYAML() (any, error) {
	return t.Value, nil
}

// IsZero reports whether the field was absent.
func (t Text) IsZero() bool { return t.st == fieldAbsent }

// Set reports whether the field holds a non-blank value.
func (t Text) Set() bool { return t.st == fieldPresent }

// String returns the trimmed value.
func (t Text) String() string { return strings.TrimSpace(t.Value) }

func (t Text) fieldState() fieldState { return t.st }

// Seq is a list field. A single non-list value is treated as a one-item list.
type Seq[T any] struct {
	Items []T
	st    fieldState
}

// NewSeq returns a Seq holding items.
func NewSeq[T any](items ...T) Seq[T] {
	s := Seq[T]{Items: items, st: fieldPresent}
	if len(items) == 0 {
		s.st = fieldEmptyList
	}
	return s
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Seq[T]) UnmarshalYAML(n *yaml.Node) error {
	s.st = stateOf(n)
	if s.st != fieldPresent {
		return nil
	}
	r := resolve(n)
	nodes := []*yaml.Node{r}
	if r.Kind == yaml.SequenceNode {
		nodes = r.Content
	}
	s.Items = make([]T, 0, len(nodes))
	for _, child := range nodes {
		var item T
		if err := child.Decode(&item); err != nil {
			continue
		}
		s.Items = append(s.Items, item)
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (s Seq[T]) MarshalYAML() (any, error) {
	return s.Items, nil
}

// IsZero reports whether the field was absent.
func (s Seq[T]) IsZero() bool { return s.st == fieldAbsent }

// Set reports whether the list holds at least one item.
func (s Seq[T]) Set() bool { return s.st == fieldPresent }

func (s Seq[T]) fieldState() fieldState { return s.st }

// Block is a free-form field whose content is kept as a raw node.
type Block struct {
	node *yaml.Node
	st   fieldState
}

// NewBlock encodes v into a Block.
func NewBlock(v any) Block {
	var n yaml.Node
	if err := n.Encode(v); err != nil {
		return Block{}
	}
	return Block{node: &n, st: stateOf(&n)}
}

// BlockFromNode wraps an existing node without copying its content.
func BlockFromNode(n *yaml.Node) Block {
	if n == nil {
		return Block{}
	}
	return Block{node: n, st: stateOf(n)}
}

// Node returns the block content, or nil when absent.
func (b Block) Node() *yaml.Node { return b.node }

// UnmarshalYAML implements yaml.Unmarshaler.
func (b *Block) UnmarshalYAML(n *yaml.Node) error {
	b.st = stateOf(n)
	c := *n
	b.node = &c
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (b Block) MarshalYAML() (any, error) {
	if b.node == nil {
		return nil, nil
	}
	return b.node, nil
}

// IsZero reports whether the field was absent.
func (b Block) IsZero() bool { return b.st == fieldAbsent }

// Set reports whether the block holds a non-empty value.
func (b Block) Set() bool { return b.st == fieldPresent }

// Decode decodes the block content into out.
func (b Block) Decode(out any) error {
	if b.node == nil {
		return nil
	}
	return b.node.Decode(out)
}

func (b Block) fieldState() fieldState { return b.st }
