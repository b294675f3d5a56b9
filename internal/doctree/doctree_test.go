package doctree

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func mustDecode(t *testing.T, src string) *Node {
	t.Helper()
	n, err := Decode([]byte(src))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	return n
}

func TestDecodeSplitsAttributes(t *testing.T) {
	doc := mustDecode(t, `
opus_theme_nc:
  "@attributes":
    name: Base
    version: 2
  colors:
    "@attributes":
      "7x": "v"
    window: "#000000"
`)

	root, ok := doc.Get("opus_theme_nc")
	if !ok {
		t.Fatal("root key missing")
	}
	if got := root.AttrNames(); !reflect.DeepEqual(got, []string{"name", "version"}) {
		t.Errorf("root attrs = %v, want [name version]", got)
	}
	if v, _ := root.Attr("version"); v != "2" {
		t.Errorf("version attr = %q, want %q", v, "2")
	}
	if _, ok := root.Get(AttributesKey); ok {
		t.Errorf("%s should not be a child", AttributesKey)
	}

	colors, _ := root.Get("colors")
	if v, _ := colors.Attr("7x"); v != "v" {
		t.Errorf("7x attr = %q, want %q", v, "v")
	}
	window, _ := colors.Get("window")
	if window.Kind != KindScalar || window.Value != "#000000" {
		t.Errorf("window = %+v, want scalar #000000", window)
	}
}

func TestDecodeKeepsKeyOrder(t *testing.T) {
	doc := mustDecode(t, "root:\n  zeta: 1\n  alpha: 2\n  mid: 3\n")
	root, _ := doc.Get("root")
	want := []string{"zeta", "alpha", "mid"}
	if got := root.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestDecodeNullsAndSequences(t *testing.T) {
	doc := mustDecode(t, "root:\n  empty:\n  items: [1, 2, 3]\n")
	root, _ := doc.Get("root")

	empty, _ := root.Get("empty")
	if empty.Kind != KindNull {
		t.Errorf("empty kind = %s, want null", empty.Kind)
	}
	items, _ := root.Get("items")
	if items.Kind != KindSequence || len(items.Items) != 3 {
		t.Fatalf("items = %+v, want 3-item sequence", items)
	}
	if items.Items[2].Value != "3" {
		t.Errorf("items[2] = %q, want 3", items.Items[2].Value)
	}
}

func TestDecodeAliasesAndMergeKeys(t *testing.T) {
	doc := mustDecode(t, `
defaults: &defaults
  "@attributes":
    font: Segoe
  size: 9
root:
  <<: *defaults
  size: 11
  copy: *defaults
`)
	root, _ := doc.Get("root")
	size, _ := root.Get("size")
	if size.Value != "11" {
		t.Errorf("explicit key should win over merge key, got %q", size.Value)
	}
	if v, _ := root.Attr("font"); v != "Segoe" {
		t.Errorf("merged attr font = %q, want Segoe", v)
	}
	copied, _ := root.Get("copy")
	if !copied.IsMapping() || copied.Len() != 1 {
		t.Errorf("alias copy = %+v, want mapping with one child", copied)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"empty", "", ErrEmptyDocument},
		{"whitespace", "   \n\n", ErrEmptyDocument},
		{"explicit null", "~\n", ErrEmptyDocument},
		{"empty mapping", "{}\n", ErrEmptyDocument},
		{"scalar top level", "just text\n", ErrNotMapping},
		{"sequence top level", "- a\n- b\n", ErrNotMapping},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.src))
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode(%q) error = %v, want %v", tt.src, err, tt.want)
			}
		})
	}
}

// aliasBomb nests levels lists of ten references to the previous level.
func aliasBomb(levels int) string {
	var b strings.Builder
	b.WriteString("root:\n  l0: &l0 [x, x, x, x, x, x, x, x, x, x]\n")
	for i := 1; i < levels; i++ {
		refs := strings.TrimSuffix(strings.Repeat(fmt.Sprintf("*l%d, ", i-1), 10), ", ")
		fmt.Fprintf(&b, "  l%d: &l%d [%s]\n", i, i, refs)
	}
	return b.String()
}

func TestDecodeLimitsAliasExpansion(t *testing.T) {
	tests := []struct {
		name   string
		levels int
		want   error
	}{
		{"small expansion", 3, nil},
		{"exponential expansion", 8, ErrTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(aliasBomb(tt.levels)))
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecodeRejectsBadAttributes(t *testing.T) {
	bad := []string{
		"root:\n  \"@attributes\": [a, b]\n",
		"root:\n  \"@attributes\":\n    nested:\n      x: 1\n",
		"root: [unterminated\n",
	}
	for _, src := range bad {
		if _, err := Decode([]byte(src)); err == nil {
			t.Errorf("Decode(%q) expected error", src)
		}
	}
}

func TestMergeAttributesUnion(t *testing.T) {
	base := mustDecode(t, "r:\n  \"@attributes\": {a: \"1\", b: \"2\"}\n")
	frag := mustDecode(t, "r:\n  \"@attributes\": {b: \"20\", c: \"3\"}\n")

	merged := Merge(base, frag)
	r, _ := merged.Get("r")

	if got := r.AttrNames(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("attr order = %v, want [a b c]", got)
	}
	if v, _ := r.Attr("b"); v != "20" {
		t.Errorf("b = %q, want source value 20", v)
	}
}

func TestMergeAttributesOneSided(t *testing.T) {
	withAttrs := mustDecode(t, "r:\n  \"@attributes\": {a: \"1\"}\n  x: 1\n")
	withoutAttrs := mustDecode(t, "r:\n  y: 2\n")

	r1, _ := Merge(withAttrs, withoutAttrs).Get("r")
	if v, _ := r1.Attr("a"); v != "1" {
		t.Errorf("target-only attrs lost: %q", v)
	}

	r2, _ := Merge(withoutAttrs, withAttrs).Get("r")
	if v, _ := r2.Attr("a"); v != "1" {
		t.Errorf("source-only attrs not adopted: %q", v)
	}
}

func TestMergeAttributeCollisionPrecedence(t *testing.T) {
	base := mustDecode(t, "r:\n  \"@attributes\": {k: base}\n")
	f1 := mustDecode(t, "r:\n  \"@attributes\": {k: one, only1: x}\n")
	f2 := mustDecode(t, "r:\n  \"@attributes\": {k: two, only2: y}\n")

	r12, _ := MergeAll(base, f1, f2).Get("r")
	r21, _ := MergeAll(base, f2, f1).Get("r")

	if v, _ := r12.Attr("k"); v != "two" {
		t.Errorf("F1 then F2: k = %q, want two", v)
	}
	if v, _ := r21.Attr("k"); v != "one" {
		t.Errorf("F2 then F1: k = %q, want one", v)
	}

	for _, name := range []string{"only1", "only2"} {
		a, _ := r12.Attr(name)
		b, _ := r21.Attr(name)
		if a != b {
			t.Errorf("disjoint attr %s differs by order: %q vs %q", name, a, b)
		}
	}
}

func TestMergeRecursesIntoMappings(t *testing.T) {
	base := mustDecode(t, `
r:
  colors:
    bg: black
    fg: white
  keep: me
`)
	frag := mustDecode(t, `
r:
  colors:
    fg: grey
    accent: peach
`)
	r, _ := Merge(base, frag).Get("r")
	colors, _ := r.Get("colors")

	want := map[string]string{"bg": "black", "fg": "grey", "accent": "peach"}
	for k, v := range want {
		n, ok := colors.Get(k)
		if !ok || n.Value != v {
			t.Errorf("colors.%s = %+v, want %q", k, n, v)
		}
	}
	if keep, _ := r.Get("keep"); keep.Value != "me" {
		t.Errorf("target-only key lost")
	}
	if got := colors.Keys(); !reflect.DeepEqual(got, []string{"bg", "fg", "accent"}) {
		t.Errorf("merged order = %v", got)
	}
}

func TestMergeReplacesNonMappings(t *testing.T) {
	base := mustDecode(t, `
r:
  list: [1, 2, 3]
  scalar: old
  shape:
    a: 1
  flat: text
`)
	frag := mustDecode(t, `
r:
  list: [9]
  scalar: new
  shape: replaced
  flat:
    now: mapping
`)
	r, _ := Merge(base, frag).Get("r")

	list, _ := r.Get("list")
	if list.Kind != KindSequence || len(list.Items) != 1 || list.Items[0].Value != "9" {
		t.Errorf("sequence should be replaced wholesale, got %+v", list)
	}
	if s, _ := r.Get("scalar"); s.Value != "new" {
		t.Errorf("scalar = %q, want new", s.Value)
	}
	if s, _ := r.Get("shape"); s.Kind != KindScalar {
		t.Errorf("mapping replaced by scalar should be scalar, got %s", s.Kind)
	}
	if s, _ := r.Get("flat"); !s.IsMapping() {
		t.Errorf("scalar replaced by mapping should be mapping, got %s", s.Kind)
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	base := mustDecode(t, `
r:
  "@attributes": {a: "1"}
  nested:
    "@attributes": {n: "1"}
    leaf: x
  list: [1]
`)
	frag := mustDecode(t, `
r:
  "@attributes": {a: "2", b: "3"}
  nested:
    "@attributes": {n: "2"}
    leaf: y
    extra: z
  list: [2, 3]
`)
	baseSnap := base.Clone()
	fragSnap := frag.Clone()

	merged := Merge(base, frag)

	if !Equal(base, baseSnap) {
		t.Error("Merge mutated target")
	}
	if !Equal(frag, fragSnap) {
		t.Error("Merge mutated source")
	}

	// Mutating the result must not reach back into the inputs.
	r, _ := merged.Get("r")
	nested, _ := r.Get("nested")
	nested.SetAttr("n", "changed")
	extra, _ := nested.Get("extra")
	extra.Value = "changed"

	if !Equal(frag, fragSnap) {
		t.Error("result shares nodes with source")
	}
	if !Equal(base, baseSnap) {
		t.Error("result shares nodes with target")
	}
}

func TestMergeNilSides(t *testing.T) {
	n := mustDecode(t, "r: 1\n")
	if got := Merge(nil, n); !Equal(got, n) {
		t.Error("Merge(nil, n) should equal n")
	}
	if got := Merge(n, nil); !Equal(got, n) {
		t.Error("Merge(n, nil) should equal n")
	}
	if Merge(nil, nil) != nil {
		t.Error("Merge(nil, nil) should be nil")
	}
}

func TestEqual(t *testing.T) {
	a := mustDecode(t, "r:\n  a: 1\n  b: 2\n")
	b := mustDecode(t, "r:\n  b: 2\n  a: 1\n")
	if Equal(a, b) {
		t.Error("Equal should be order sensitive")
	}
	if !Equal(a, a.Clone()) {
		t.Error("clone should be equal")
	}
}
