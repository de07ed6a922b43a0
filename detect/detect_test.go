package detect

import (
	"testing"

	"github.com/beevik/etree"

	"github.com/clinsearch/enquiry/pattern"
)

func element(t *testing.T, xml string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xml); err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc.Root()
}

func ctxFor(el *etree.Element) pattern.Context {
	return pattern.Context{Element: el}
}

func TestRegisterAllOrder(t *testing.T) {
	reg := pattern.NewRegistry()
	RegisterAll(reg)

	want := []string{
		IDRefset, IDPseudoRefset, IDPseudoRefsetMember, IDEMISInternal,
		IDLibraryItem, IDNestedWrapper, IDRestrictionOrdered,
		IDConditionalRestriction, IDLinkedCriterion, IDMemberSearch,
		IDDateFilter, IDMultiPopulation,
	}
	got := reg.IDs()
	if len(got) != len(want) {
		t.Fatalf("registered %d detectors, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("registration order differs at %d: %s != %s", i, got[i], want[i])
		}
	}
}

func TestRefset(t *testing.T) {
	el := element(t, `<valueSet><id>vs1</id><codeSystem>SNOMED_CONCEPT</codeSystem>
		<values><value><value>999</value><isRefset>true</isRefset></value></values></valueSet>`)
	res := detectRefset(ctxFor(el))
	if res == nil || res.Flags["is_refset"] != true {
		t.Fatalf("refset entry not detected: %+v", res)
	}

	plain := element(t, `<valueSet><values><value><value>999</value></value></values></valueSet>`)
	if detectRefset(ctxFor(plain)) != nil {
		t.Fatalf("plain value set reported as refset")
	}
}

func TestPseudoRefset(t *testing.T) {
	el := element(t, `<valueSet><id>vs2</id><codeSystem>EMISINTERNAL</codeSystem>
		<values><value><value>^ESCT123</value></value></values></valueSet>`)
	res := detectPseudoRefset(ctxFor(el))
	if res == nil {
		t.Fatal("pseudo-refset not detected")
	}
	if res.Flags["is_pseudo_refset"] != true || res.Flags["pseudo_refset_guid"] != "vs2" {
		t.Fatalf("flags = %v", res.Flags)
	}

	// A true refset entry disqualifies the container.
	real := element(t, `<valueSet><codeSystem>EMISINTERNAL</codeSystem>
		<values><value><value>^ESCT123</value><isRefset>true</isRefset></value></values></valueSet>`)
	if detectPseudoRefset(ctxFor(real)) != nil {
		t.Fatalf("true refset reported as pseudo")
	}

	// SNOMED containers never qualify.
	snomed := element(t, `<valueSet><codeSystem>SNOMED_CONCEPT</codeSystem>
		<values><value><value>^X</value></value></values></valueSet>`)
	if detectPseudoRefset(ctxFor(snomed)) != nil {
		t.Fatalf("non-internal scheme reported as pseudo")
	}
}

// Membership comes from the inherited container context, not from the entry.
func TestPseudoRefsetMemberContainerDriven(t *testing.T) {
	entry := element(t, `<value><value>123</value></value>`)

	bare := detectPseudoRefsetMember(ctxFor(entry))
	if bare != nil {
		t.Fatalf("member detected without container context")
	}

	res := detectPseudoRefsetMember(pattern.Context{
		Element: entry,
		Container: &pattern.ContainerInfo{
			Kind:         ContainerPseudoRefset,
			ValueSetGUID: "vs2",
		},
	})
	if res == nil || res.Flags["is_pseudo_member"] != true {
		t.Fatalf("member not detected: %+v", res)
	}
	if res.Flags["pseudo_refset_guid"] != "vs2" {
		t.Fatalf("container guid not carried: %v", res.Flags)
	}
}

func TestEMISInternal(t *testing.T) {
	el := element(t, `<valueSet><codeSystem>EMISINTERNAL</codeSystem></valueSet>`)
	res := detectEMISInternal(ctxFor(el))
	if res == nil || res.Flags["is_emis_internal"] != true {
		t.Fatalf("internal scheme not detected: %+v", res)
	}
}

func TestLibraryItem(t *testing.T) {
	el := element(t, `<valueSet><values><libraryItem>lib-guid-1</libraryItem></values></valueSet>`)
	res := detectLibraryItem(ctxFor(el))
	if res == nil || res.Flags["library_item_guid"] != "lib-guid-1" {
		t.Fatalf("library item not detected: %+v", res)
	}
}

func TestNestedWrapper(t *testing.T) {
	el := element(t, `<criterion><baseCriteriaGroup/><baseCriteriaGroup/></criterion>`)
	res := detectNestedWrapper(ctxFor(el))
	if res == nil || res.Flags["base_group_count"] != 2 {
		t.Fatalf("wrapper not detected: %+v", res)
	}
}

// The restriction is recognized in both of its legal positions.
func TestRestrictionOrderedBothPositions(t *testing.T) {
	sibling := element(t, `<criterion>
		<filterAttribute><columnValue><column>CODE</column></columnValue></filterAttribute>
		<restriction><columnOrder><columns>DATE</columns><direction>DESC</direction></columnOrder><recordCount>1</recordCount></restriction>
	</criterion>`)
	nested := element(t, `<criterion>
		<filterAttribute>
			<columnValue><column>CODE</column></columnValue>
			<restriction><columnOrder><columns>DATE</columns><direction>DESC</direction></columnOrder><recordCount>1</recordCount></restriction>
		</filterAttribute>
	</criterion>`)

	a := detectRestrictionOrdered(ctxFor(sibling))
	b := detectRestrictionOrdered(ctxFor(nested))
	if a == nil || b == nil {
		t.Fatalf("restriction missed: sibling=%v nested=%v", a, b)
	}
	for _, name := range []string{"has_restriction", "restriction_direction", "restriction_columns", "restriction_count"} {
		if a.Flags[name] != b.Flags[name] {
			t.Errorf("%s differs across positions: %v vs %v", name, a.Flags[name], b.Flags[name])
		}
	}
	if a.Flags["restriction_count"] != 1 || a.Flags["restriction_direction"] != "DESC" {
		t.Errorf("flags = %v", a.Flags)
	}
}

func TestConditionalRestriction(t *testing.T) {
	el := element(t, `<criterion><restriction><testAttribute><columnValue/></testAttribute></restriction></criterion>`)
	res := detectConditionalRestriction(ctxFor(el))
	if res == nil || res.Flags["conditional_restriction"] != true {
		t.Fatalf("conditional restriction not detected: %+v", res)
	}
}

func TestLinkedCriterion(t *testing.T) {
	el := element(t, `<criterion><linkedCriterion>
		<relationship><parentColumn>DATE</parentColumn><childColumn>DATE</childColumn></relationship>
		<criterion><table>MEDICATION_ISSUES</table></criterion>
	</linkedCriterion></criterion>`)
	res := detectLinkedCriterion(ctxFor(el))
	if res == nil || res.Flags["linked_table"] != "MEDICATION_ISSUES" {
		t.Fatalf("linked criterion not detected: %+v", res)
	}
}

func TestMemberSearch(t *testing.T) {
	el := element(t, `<criterion><memberSearchIdentifier><reportGuid>search-9</reportGuid></memberSearchIdentifier></criterion>`)
	res := detectMemberSearch(ctxFor(el))
	if res == nil || res.Flags["member_search_ref"] != "search-9" {
		t.Fatalf("member search not detected: %+v", res)
	}

	attr := element(t, `<criterion><memberSearchIdentifier reportGuid="search-7"/></criterion>`)
	res = detectMemberSearch(ctxFor(attr))
	if res == nil || res.Flags["member_search_ref"] != "search-7" {
		t.Fatalf("attribute form not detected: %+v", res)
	}
}

func TestDateFilter(t *testing.T) {
	byColumn := element(t, `<criterion><filterAttribute><columnValue><column>EFFECTIVE_DATE</column></columnValue></filterAttribute></criterion>`)
	res := detectDateFilter(ctxFor(byColumn))
	if res == nil || res.Flags["date_column"] != "EFFECTIVE_DATE" {
		t.Fatalf("date column not detected: %+v", res)
	}

	relative := element(t, `<criterion><filterAttribute><columnValue>
		<column>CODE</column>
		<rangeValue><rangeFrom><value>-6</value><operator>GTEQ</operator><unit>MONTH</unit></rangeFrom></rangeValue>
	</columnValue></filterAttribute></criterion>`)
	res = detectDateFilter(ctxFor(relative))
	if res == nil || res.Flags["relative_date"] != true || res.Flags["date_unit"] != "MONTH" {
		t.Fatalf("relative date not detected: %+v", res)
	}
}

func TestMultiPopulation(t *testing.T) {
	multi := element(t, `<report><auditReport>
		<population><searchIdentifier reportGuid="a"/></population>
		<population><searchIdentifier reportGuid="b"/></population>
	</auditReport></report>`)
	res := detectMultiPopulation(ctxFor(multi))
	if res == nil || res.Flags["population_count"] != 2 {
		t.Fatalf("multi population not detected: %+v", res)
	}

	single := element(t, `<report><auditReport><population/></auditReport></report>`)
	if detectMultiPopulation(ctxFor(single)) != nil {
		t.Fatalf("single population reported as multi")
	}
}
