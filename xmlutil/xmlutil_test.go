package xmlutil

import (
	"testing"

	"github.com/beevik/etree"
)

func parse(t *testing.T, s string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromString(s); err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc.Root()
}

func TestChild_PrefersBareOverPrefixed(t *testing.T) {
	root := parse(t, `<root xmlns:e="urn:test">
		<e:name>prefixed</e:name>
		<name>bare</name>
	</root>`)

	c := Child(root, "name")
	if c == nil {
		t.Fatal("Child returned nil")
	}
	if c.Text() != "bare" {
		t.Errorf("Child picked %q; want the bare element", c.Text())
	}
}

func TestChild_FallsBackToPrefixed(t *testing.T) {
	root := parse(t, `<root xmlns:e="urn:test"><e:name>prefixed</e:name></root>`)

	c := Child(root, "name")
	if c == nil {
		t.Fatal("Child should match a prefixed element by local name")
	}
	if c.Text() != "prefixed" {
		t.Errorf("Child = %q; want prefixed", c.Text())
	}
}

func TestChild_Missing(t *testing.T) {
	root := parse(t, `<root><a/></root>`)
	if Child(root, "b") != nil {
		t.Error("Child should return nil for a missing tag")
	}
	if Child(nil, "a") != nil {
		t.Error("Child of nil parent should return nil")
	}
}

func TestChildren_MixedPrefixes(t *testing.T) {
	root := parse(t, `<root xmlns:e="urn:test">
		<value>1</value>
		<e:value>2</e:value>
		<value>3</value>
	</root>`)

	got := Children(root, "value")
	if len(got) != 3 {
		t.Fatalf("Children = %d elements; want 3", len(got))
	}
	// Document order, not bare-first.
	for i, want := range []string{"1", "2", "3"} {
		if got[i].Text() != want {
			t.Errorf("Children[%d] = %q; want %q", i, got[i].Text(), want)
		}
	}
}

func TestChildOf_CandidateOrder(t *testing.T) {
	root := parse(t, `<root><newName>n</newName><oldName>o</oldName></root>`)

	if c := ChildOf(root, "newName", "oldName"); c == nil || c.Text() != "n" {
		t.Error("ChildOf should try candidates in order")
	}
	if c := ChildOf(root, "missing", "oldName"); c == nil || c.Text() != "o" {
		t.Error("ChildOf should fall through to later candidates")
	}
	if ChildOf(root, "missing", "alsoMissing") != nil {
		t.Error("ChildOf with no matches should return nil")
	}
}

func TestAttrOf(t *testing.T) {
	root := parse(t, `<root xmlns:e="urn:test" e:id="pfx" id="bare" guid="g"/>`)

	if v, ok := AttrOf(root, "id"); !ok || v != "bare" {
		t.Errorf("AttrOf(id) = %q, %v; want bare, true", v, ok)
	}
	if v, ok := AttrOf(root, "missing", "guid"); !ok || v != "g" {
		t.Errorf("AttrOf(missing, guid) = %q, %v; want g, true", v, ok)
	}
	if _, ok := AttrOf(root, "missing"); ok {
		t.Error("AttrOf should report absence")
	}
}

func TestAttrOf_PrefixedOnly(t *testing.T) {
	root := parse(t, `<root xmlns:e="urn:test" e:id="pfx"/>`)

	if v, ok := AttrOf(root, "id"); !ok || v != "pfx" {
		t.Errorf("AttrOf(id) = %q, %v; want pfx, true", v, ok)
	}
}

func TestTextHelpers(t *testing.T) {
	root := parse(t, `<root><a>  hello  </a><flag>true</flag><legacy>1</legacy><off>false</off></root>`)

	if got := Text(root, "a"); got != "hello" {
		t.Errorf("Text(a) = %q; want hello", got)
	}
	if got := Text(root, "missing"); got != "" {
		t.Errorf("Text(missing) = %q; want empty", got)
	}
	if got := TextOf(root, "missing", "a"); got != "hello" {
		t.Errorf("TextOf = %q; want hello", got)
	}
	if !BoolText(root, "flag") || !BoolText(root, "legacy") {
		t.Error("BoolText should accept true and 1")
	}
	if BoolText(root, "off") || BoolText(root, "missing") {
		t.Error("BoolText should be false for false and missing")
	}
}

func TestDedupeByIdentity(t *testing.T) {
	root := parse(t, `<root><a>same</a><a>same</a></root>`)
	els := root.ChildElements()
	if len(els) != 2 {
		t.Fatal("fixture should have two children")
	}

	// Structurally identical but distinct nodes: both survive.
	got := DedupeByIdentity([]*etree.Element{els[0], els[1]})
	if len(got) != 2 {
		t.Errorf("distinct nodes deduped: got %d; want 2", len(got))
	}

	// The same node twice collapses, order preserved.
	got = DedupeByIdentity([]*etree.Element{els[1], els[0], els[1], nil})
	if len(got) != 2 {
		t.Fatalf("DedupeByIdentity = %d elements; want 2", len(got))
	}
	if got[0] != els[1] || got[1] != els[0] {
		t.Error("first-occurrence order not preserved")
	}
}
