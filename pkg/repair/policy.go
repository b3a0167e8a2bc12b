// Package repair converts designated data properties on a realm's
// primordial objects into accessor pairs, so that a later deep freeze
// does not break assignments through inheriting objects (the override
// mistake). The policy saying which properties to convert is a tree of
// nodes decoded from a plan document or built programmatically.
package repair

// Kind discriminates policy tree nodes.
type Kind uint8

const (
	// KindSkip does nothing at this path.
	KindSkip Kind = iota
	// KindRepair converts the property at this path to an accessor pair.
	KindRepair
	// KindWildcard converts every own property of the object at this path.
	KindWildcard
	// KindSubtree recurses into named children.
	KindSubtree
)

func (k Kind) String() string {
	switch k {
	case KindSkip:
		return "skip"
	case KindRepair:
		return "repair"
	case KindWildcard:
		return "wildcard"
	case KindSubtree:
		return "subtree"
	default:
		return "unknown"
	}
}

// Node is one policy tree node. Subtree children keep the order they
// were added in; decoded documents keep the author's order.
type Node struct {
	kind     Kind
	names    []string
	children map[string]*Node
}

// Skip returns a node that does nothing at its path.
func Skip() *Node { return &Node{kind: KindSkip} }

// RepairLeaf returns a node converting the property at its path.
func RepairLeaf() *Node { return &Node{kind: KindRepair} }

// WildcardLeaf returns a node converting every own property of the
// object at its path.
func WildcardLeaf() *Node { return &Node{kind: KindWildcard} }

// Subtree returns an empty subtree node; populate it with AddChild.
func Subtree() *Node {
	return &Node{kind: KindSubtree, children: make(map[string]*Node)}
}

// AddChild inserts (or replaces) a named child and returns the node for
// chaining. Replacing keeps the child's original position in the order.
// Only subtree nodes carry children.
func (n *Node) AddChild(name string, child *Node) *Node {
	if n.kind != KindSubtree {
		panic("repair: AddChild on " + n.kind.String() + " node")
	}
	if child == nil {
		child = Skip()
	}
	if _, exists := n.children[name]; !exists {
		n.names = append(n.names, name)
	}
	n.children[name] = child
	return n
}

// Kind returns the node's discriminator.
func (n *Node) Kind() Kind { return n.kind }

// ChildNames returns the subtree's child names in order. The slice is
// shared; callers must not mutate it.
func (n *Node) ChildNames() []string { return n.names }

// Child returns the named child of a subtree node.
func (n *Node) Child(name string) (*Node, bool) {
	if n.kind != KindSubtree {
		return nil, false
	}
	c, ok := n.children[name]
	return c, ok
}

// Len returns the number of children of a subtree node.
func (n *Node) Len() int { return len(n.names) }
