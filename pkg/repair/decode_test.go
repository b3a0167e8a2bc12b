package repair

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// flattenTree renders a policy tree as dotted-path -> kind for cheap
// structural comparison.
func flattenTree(n *Node) map[string]string {
	out := make(map[string]string)
	var walk func(prefix string, n *Node)
	walk = func(prefix string, n *Node) {
		out[prefix] = n.Kind().String()
		for _, name := range n.ChildNames() {
			c, _ := n.Child(name)
			walk(joinPath(prefix, name), c)
		}
	}
	walk("", n)
	return out
}

func TestDecodeYAMLBasic(t *testing.T) {
	doc := []byte(`
namedIntrinsics:
  Object:
    prototype: "*"
  Error:
    prototype:
      message: true
      name: true
      stack: false
anonIntrinsics:
  IteratorPrototype: "*"
`)
	plan, errs := DecodeYAML(doc)
	if plan == nil {
		t.Fatalf("expected a usable tree, got nil (errs=%v)", errs)
	}
	if len(errs) != 0 {
		t.Fatalf("expected no diagnostics, got %v", errs)
	}

	want := map[string]string{
		"":                                        "subtree",
		"namedIntrinsics":                         "subtree",
		"namedIntrinsics.Object":                  "subtree",
		"namedIntrinsics.Object.prototype":        "wildcard",
		"namedIntrinsics.Error":                   "subtree",
		"namedIntrinsics.Error.prototype":         "subtree",
		"namedIntrinsics.Error.prototype.message": "repair",
		"namedIntrinsics.Error.prototype.name":    "repair",
		"namedIntrinsics.Error.prototype.stack":   "skip",
		"anonIntrinsics":                          "subtree",
		"anonIntrinsics.IteratorPrototype":        "wildcard",
	}
	if diff := cmp.Diff(want, flattenTree(plan)); diff != "" {
		t.Errorf("decoded tree mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeYAMLPreservesAuthorOrder(t *testing.T) {
	doc := []byte("z: true\na: true\nm: true\n")
	plan, errs := DecodeYAML(doc)
	if plan == nil || len(errs) != 0 {
		t.Fatalf("unexpected decode failure: %v", errs)
	}
	names := plan.ChildNames()
	want := []string{"z", "a", "m"}
	for i, w := range want {
		if names[i] != w {
			t.Errorf("child %d: expected %q, got %q (document order must win)", i, w, names[i])
		}
	}
}

func TestDecodeYAMLLeafForms(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		want     Kind
		diagnose bool
	}{
		{"true", "p: true", KindRepair, false},
		{"false", "p: false", KindSkip, false},
		{"null", "p: null", KindSkip, false},
		{"tilde", "p: ~", KindSkip, false},
		{"star", `p: "*"`, KindWildcard, false},
		{"bare star", "p: '*'", KindWildcard, false},
		{"empty string", `p: ""`, KindSkip, false},
		{"zero", "p: 0", KindSkip, false},
		{"other number", "p: 7", KindSkip, true},
		{"random string", "p: enable", KindSkip, true},
		{"sequence", "p: [1, 2]", KindSkip, true},
	}
	for _, tt := range tests {
		plan, errs := DecodeYAML([]byte(tt.doc))
		if plan == nil {
			t.Errorf("%s: expected usable tree, got nil (%v)", tt.name, errs)
			continue
		}
		c, ok := plan.Child("p")
		if !ok {
			t.Errorf("%s: child missing", tt.name)
			continue
		}
		if c.Kind() != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, c.Kind())
		}
		if tt.diagnose && len(errs) == 0 {
			t.Errorf("%s: expected a diagnostic", tt.name)
		}
		if !tt.diagnose && len(errs) != 0 {
			t.Errorf("%s: unexpected diagnostics %v", tt.name, errs)
		}
	}
}

func TestDecodeYAMLDiagnosticPositions(t *testing.T) {
	doc := []byte("Error:\n  prototype:\n    message: maybe\n")
	plan, errs := DecodeYAML(doc)
	if plan == nil {
		t.Fatalf("diagnostics must not discard the tree")
	}
	if len(errs) != 1 {
		t.Fatalf("expected one diagnostic, got %v", errs)
	}
	if errs[0].Pos().Line != 3 {
		t.Errorf("expected diagnostic on line 3, got line %d", errs[0].Pos().Line)
	}
	if errs[0].Kind() != "Policy" {
		t.Errorf("expected Policy diagnostic, got %q", errs[0].Kind())
	}
}

func TestDecodeYAMLMalformed(t *testing.T) {
	plan, errs := DecodeYAML([]byte("a: [1, 2\n"))
	if plan != nil {
		t.Errorf("malformed document should yield a nil tree")
	}
	if len(errs) == 0 {
		t.Fatalf("malformed document should report an error")
	}
	if errs[0].Unwrap() == nil {
		t.Errorf("parse failure should carry the underlying yaml error")
	}
}

func TestDecodeYAMLEmptyAndNonMapping(t *testing.T) {
	for _, doc := range []string{"", "# only a comment\n"} {
		if plan, errs := DecodeYAML([]byte(doc)); plan != nil || len(errs) == 0 {
			t.Errorf("empty document %q should be fatal, got plan=%v errs=%v", doc, plan, errs)
		}
	}
	if plan, errs := DecodeYAML([]byte("- a\n- b\n")); plan != nil || len(errs) == 0 {
		t.Errorf("sequence document should be fatal, got plan=%v errs=%v", plan, errs)
	}
}

func TestDecodeYAMLAliases(t *testing.T) {
	doc := []byte(`
defaults: &leafset
  constructor: true
  toString: true
Error: *leafset
TypeError: *leafset
`)
	plan, errs := DecodeYAML(doc)
	if plan == nil || len(errs) != 0 {
		t.Fatalf("alias decode failed: %v", errs)
	}
	for _, root := range []string{"defaults", "Error", "TypeError"} {
		sub, ok := plan.Child(root)
		if !ok || sub.Kind() != KindSubtree {
			t.Fatalf("%s: expected subtree via alias", root)
		}
		if c, _ := sub.Child("constructor"); c == nil || c.Kind() != KindRepair {
			t.Errorf("%s.constructor: expected repair leaf through alias", root)
		}
	}
}

func TestDecodeJSONDocument(t *testing.T) {
	doc := []byte(`{"namedIntrinsics": {"Object": {"prototype": "*"}}}`)
	plan, errs := DecodeYAML(doc)
	if plan == nil || len(errs) != 0 {
		t.Fatalf("JSON plan should decode through the YAML path: %v", errs)
	}
	sub, _ := plan.Child("namedIntrinsics")
	obj, _ := sub.Child("Object")
	if c, _ := obj.Child("prototype"); c == nil || c.Kind() != KindWildcard {
		t.Errorf("expected wildcard at namedIntrinsics.Object.prototype")
	}
}

func TestFromGeneric(t *testing.T) {
	plan := FromGeneric(map[string]interface{}{
		"z": true,
		"a": "*",
		"m": map[string]interface{}{
			"inner": true,
			"off":   false,
			"null":  nil,
			"num":   3,
		},
	})

	names := plan.ChildNames()
	want := []string{"a", "m", "z"}
	for i, w := range want {
		if names[i] != w {
			t.Errorf("child %d: expected %q (sorted), got %q", i, w, names[i])
		}
	}

	wantFlat := map[string]string{
		"":        "subtree",
		"a":       "wildcard",
		"m":       "subtree",
		"m.inner": "repair",
		"m.null":  "skip",
		"m.num":   "skip",
		"m.off":   "skip",
		"z":       "repair",
	}
	if diff := cmp.Diff(wantFlat, flattenTree(plan)); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestFromGenericSelfReferenceTerminates(t *testing.T) {
	m := map[string]interface{}{}
	m["self"] = m
	plan := FromGeneric(m)
	if plan == nil || plan.Kind() != KindSubtree {
		t.Fatalf("self-referential input should still produce a tree")
	}
	// The recursion caps out; walking down must eventually hit a skip.
	n := plan
	for i := 0; i < maxGenericDepth+2; i++ {
		c, ok := n.Child("self")
		if !ok {
			t.Fatalf("depth %d: child chain broke early", i)
		}
		if c.Kind() == KindSkip {
			return
		}
		n = c
	}
	t.Errorf("expected the self chain to bottom out in a skip")
}
