package nodes

import (
	"testing"

	eq "github.com/clinsearch/enquiry"
)

func TestParseValueSetInsertsCodes(t *testing.T) {
	st := newState(t)
	owner := &eq.Entity{ID: "c1", Type: eq.EntityCriterion}
	el := element(t, `<valueSet><id>vs1</id><codeSystem>SNOMED_CONCEPT</codeSystem>
		<description>Asthma codes</description>
		<values>
			<value><value>195967001</value><displayName>Asthma</displayName><includeChildren>true</includeChildren></value>
			<value><value>304527002</value><displayName>Acute asthma</displayName></value>
		</values>
	</valueSet>`)

	vs := ParseValueSet(st, el, owner, "criterion filter")

	if vs.Type != eq.EntityValueSet || vs.ID != "vs1" {
		t.Fatalf("entity = %+v", vs)
	}
	if vs.Flags["code_count"] != 2 || vs.Flags["code_system"] != "SNOMED_CONCEPT" {
		t.Errorf("flags = %v", vs.Flags)
	}
	if st.Codes.Len() != 2 {
		t.Fatalf("store holds %d codes", st.Codes.Len())
	}

	entry, ok := st.Codes.Get(eq.CodeKey{
		CodeValue:    "195967001",
		ValueSetGUID: "vs1",
		CodeSystem:   "SNOMED_CONCEPT",
	})
	if !ok {
		t.Fatal("code not stored")
	}
	if entry.Data.DisplayName != "Asthma" || !entry.Data.IncludeChildren {
		t.Errorf("code data = %+v", entry.Data)
	}
	if len(entry.Sources) != 1 || entry.Sources[0].EntityID != "c1" {
		t.Fatalf("sources = %+v", entry.Sources)
	}
	if entry.Sources[0].ContainerContext != "criterion filter" ||
		entry.Sources[0].ContainerType != string(eq.EntityCriterion) {
		t.Errorf("source attribution = %+v", entry.Sources[0])
	}
}

// The same code sighted from a pseudo-refset container and from a plain
// value set must carry the membership flag only on the pseudo-refset
// reference, never on the shared entry or the other reference.
func TestMembershipFlagsPerReference(t *testing.T) {
	st := newState(t)

	pseudo := element(t, `<valueSet><id>vsP</id><codeSystem>EMISINTERNAL</codeSystem>
		<values>
			<value><value>^ESCT123</value><displayName>Container</displayName></value>
			<value><value>12345</value><displayName>Member</displayName></value>
		</values>
	</valueSet>`)
	plain := element(t, `<valueSet><id>vsQ</id><codeSystem>EMISINTERNAL</codeSystem>
		<values><value><value>12345</value><displayName>Member</displayName></value></values>
	</valueSet>`)

	ownerA := &eq.Entity{ID: "critA", Type: eq.EntityCriterion}
	ownerB := &eq.Entity{ID: "critB", Type: eq.EntityCriterion}
	ParseValueSet(st, pseudo, ownerA, "criterion filter")
	ParseValueSet(st, plain, ownerB, "criterion filter")

	inPseudo, ok := st.Codes.Get(eq.CodeKey{CodeValue: "12345", ValueSetGUID: "vsP", CodeSystem: "EMISINTERNAL"})
	if !ok {
		t.Fatal("pseudo-container member not stored")
	}
	if len(inPseudo.Sources) != 1 {
		t.Fatalf("sources = %+v", inPseudo.Sources)
	}
	if inPseudo.Sources[0].MembershipFlags["is_pseudo_member"] != true {
		t.Errorf("pseudo membership not computed at reference time: %+v", inPseudo.Sources[0])
	}
	if inPseudo.Sources[0].MembershipFlags["pseudo_refset_guid"] != "vsP" {
		t.Errorf("container guid missing: %+v", inPseudo.Sources[0].MembershipFlags)
	}

	inPlain, ok := st.Codes.Get(eq.CodeKey{CodeValue: "12345", ValueSetGUID: "vsQ", CodeSystem: "EMISINTERNAL"})
	if !ok {
		t.Fatal("plain member not stored")
	}
	if flags := inPlain.Sources[0].MembershipFlags; flags["is_pseudo_member"] == true {
		t.Errorf("membership leaked onto plain reference: %v", flags)
	}
}

func TestParseValueSetWarnings(t *testing.T) {
	st := newState(t)

	vs := ParseValueSet(st, element(t, `<valueSet><id>vs1</id>
		<values><value><displayName>No code</displayName></value></values>
	</valueSet>`), nil, "criterion filter")

	// One warning for the missing scheme, one for the code-less entry.
	if got := st.Result.WarningsFor(vs.ID); len(got) != 2 {
		t.Fatalf("warnings = %v", got)
	}
	if st.Codes.Len() != 0 {
		t.Fatalf("code-less entry was stored")
	}
}

func TestParseValueSetLibraryItem(t *testing.T) {
	st := newState(t)
	vs := ParseValueSet(st, element(t, `<valueSet><id>vs1</id><codeSystem>SNOMED_CONCEPT</codeSystem>
		<values><libraryItem>lib-1</libraryItem></values>
	</valueSet>`), nil, "criterion filter")

	if vs.Flags["is_library_item"] != true || vs.Flags["library_item_guid"] != "lib-1" {
		t.Errorf("library flags = %v", vs.Flags)
	}
	if vs.Flags["code_count"] != 0 {
		t.Errorf("code_count = %v", vs.Flags["code_count"])
	}
}
