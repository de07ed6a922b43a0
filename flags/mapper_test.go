package flags

import (
	"testing"

	"github.com/beevik/etree"

	"github.com/clinsearch/enquiry/pattern"
)

func elementFromXML(t *testing.T, xml string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xml); err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc.Root()
}

func TestMapElementFlagsMergeOrder(t *testing.T) {
	m := NewMapper(NewRegistry())
	el := elementFromXML(t, `<criterion/>`)

	defaults := map[string]any{
		"negation":       false,
		"group_operator": "AND",
	}
	results := []*pattern.Result{
		{PatternID: "a", Flags: map[string]any{"negation": true}},
		nil,
		{PatternID: "b", Flags: map[string]any{"group_operator": "OR", "date_filter": true}},
	}

	got := m.MapElementFlags(el, defaults, results)

	if got["negation"] != true {
		t.Errorf("negation = %v, detector should override default", got["negation"])
	}
	if got["group_operator"] != "OR" {
		t.Errorf("group_operator = %v, later detector should win", got["group_operator"])
	}
	if got["date_filter"] != true {
		t.Errorf("date_filter = %v, want true", got["date_filter"])
	}
	if got[FlagXMLTagName] != "criterion" {
		t.Errorf("xml_tag_name = %v", got[FlagXMLTagName])
	}
}

func TestMapElementFlagsValidates(t *testing.T) {
	m := NewMapper(NewRegistry())

	got := m.MapElementFlags(nil, map[string]any{"made_up": 1}, []*pattern.Result{
		{PatternID: "a", Flags: map[string]any{"sort_direction": "UP", "negation": true}},
	})

	if _, ok := got["made_up"]; ok {
		t.Errorf("unknown default survived validation")
	}
	if _, ok := got["sort_direction"]; ok {
		t.Errorf("out-of-domain detector flag survived validation")
	}
	if got["negation"] != true {
		t.Errorf("valid detector flag dropped")
	}
}

func TestMapElementFlagsTagKeepsPrefix(t *testing.T) {
	m := NewMapper(NewRegistry())
	el := elementFromXML(t, `<eq:criterion xmlns:eq="urn:x"/>`)

	got := m.MapElementFlags(el, nil, nil)
	if got[FlagXMLTagName] != "eq:criterion" {
		t.Errorf("xml_tag_name = %v, want raw prefixed tag", got[FlagXMLTagName])
	}
}
