package repair

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"vetro/pkg/errors"
)

// DecodeYAML parses a plan document into a policy tree. YAML is a JSON
// superset, so .json plans decode through the same path. Mapping key
// order is preserved.
//
// A malformed document returns a nil node plus the errors. Leaf values
// with no policy meaning are not fatal: they decode to Skip and come
// back as position-tagged diagnostics alongside a usable tree.
func DecodeYAML(data []byte) (*Node, []errors.VetroError) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, []errors.VetroError{
			errors.NewPolicyError(0, 0, fmt.Sprintf("invalid plan document: %v", err)).CausedBy(err),
		}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, []errors.VetroError{
			errors.NewPolicyError(0, 0, "empty plan document"),
		}
	}
	top := doc.Content[0]
	if resolved := resolveAlias(top, nil); resolved != nil {
		top = resolved
	}
	if top.Kind != yaml.MappingNode {
		return nil, []errors.VetroError{
			errors.NewPolicyError(top.Line, top.Column, "plan document must be a mapping"),
		}
	}
	d := &decoder{visiting: make(map[*yaml.Node]bool)}
	node := d.decode(top)
	return node, d.errs
}

type decoder struct {
	errs     []errors.VetroError
	visiting map[*yaml.Node]bool
}

func (d *decoder) warnf(y *yaml.Node, format string, args ...interface{}) {
	d.errs = append(d.errs, errors.NewPolicyError(y.Line, y.Column, fmt.Sprintf(format, args...)))
}

// resolveAlias follows alias nodes to their anchors. Returns nil on a
// cycle so the caller can fall back to Skip.
func resolveAlias(y *yaml.Node, seen map[*yaml.Node]bool) *yaml.Node {
	for y.Kind == yaml.AliasNode {
		if y.Alias == nil {
			return nil
		}
		if seen == nil {
			seen = make(map[*yaml.Node]bool)
		}
		if seen[y] {
			return nil
		}
		seen[y] = true
		y = y.Alias
	}
	return y
}

func (d *decoder) decode(y *yaml.Node) *Node {
	resolved := resolveAlias(y, nil)
	if resolved == nil {
		d.warnf(y, "cyclic alias in plan, treating as skip")
		return Skip()
	}
	y = resolved

	switch y.Kind {
	case yaml.MappingNode:
		if d.visiting[y] {
			d.warnf(y, "cyclic mapping in plan, treating as skip")
			return Skip()
		}
		d.visiting[y] = true
		defer delete(d.visiting, y)

		sub := Subtree()
		for i := 0; i+1 < len(y.Content); i += 2 {
			keyNode := y.Content[i]
			valNode := y.Content[i+1]
			key := resolveAlias(keyNode, nil)
			if key == nil || key.Kind != yaml.ScalarNode {
				d.warnf(keyNode, "plan keys must be property names")
				continue
			}
			sub.AddChild(key.Value, d.decode(valNode))
		}
		return sub
	case yaml.ScalarNode:
		return d.decodeScalar(y)
	case yaml.SequenceNode:
		d.warnf(y, "sequences have no meaning in a plan, treating as skip")
		return Skip()
	default:
		d.warnf(y, "unsupported node in plan, treating as skip")
		return Skip()
	}
}

func (d *decoder) decodeScalar(y *yaml.Node) *Node {
	switch y.Tag {
	case "!!bool":
		var b bool
		if err := y.Decode(&b); err == nil && b {
			return RepairLeaf()
		}
		return Skip()
	case "!!null":
		return Skip()
	case "!!str":
		switch y.Value {
		case "*":
			return WildcardLeaf()
		case "":
			return Skip()
		default:
			d.warnf(y, "string %q has no policy meaning (expected \"*\"), treating as skip", y.Value)
			return Skip()
		}
	case "!!int", "!!float":
		if y.Value == "0" || y.Value == "0.0" {
			return Skip()
		}
		d.warnf(y, "number %s has no policy meaning, treating as skip", y.Value)
		return Skip()
	default:
		d.warnf(y, "value %q has no policy meaning, treating as skip", y.Value)
		return Skip()
	}
}

// maxGenericDepth caps FromGeneric recursion so self-containing maps
// terminate.
const maxGenericDepth = 128

// FromGeneric builds a policy tree from plain Go values: nested
// map[string]any with leaves true (repair), "*" (wildcard), and
// false/nil/anything-else (skip). Go maps are unordered, so children
// come out in sorted key order.
func FromGeneric(v interface{}) *Node {
	return fromGeneric(v, 0)
}

func fromGeneric(v interface{}, depth int) *Node {
	if depth > maxGenericDepth {
		return Skip()
	}
	switch val := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sub := Subtree()
		for _, k := range keys {
			sub.AddChild(k, fromGeneric(val[k], depth+1))
		}
		return sub
	case bool:
		if val {
			return RepairLeaf()
		}
		return Skip()
	case string:
		if val == "*" {
			return WildcardLeaf()
		}
		return Skip()
	case nil:
		return Skip()
	default:
		return Skip()
	}
}
