package nodes

import (
	"github.com/beevik/etree"

	eq "github.com/clinsearch/enquiry"
	"github.com/clinsearch/enquiry/xmlutil"
)

// ParseFolder parses a reportFolder element into a folder entity. Folder
// nesting is expressed through parent identifiers and resolved after all
// folders exist.
func ParseFolder(st *State, el *etree.Element) *eq.Entity {
	entity := &eq.Entity{
		ID:   elementID(el),
		Type: eq.EntityFolder,
		Name: xmlutil.TextOf(el, "name", "displayName"),
	}

	defaults := map[string]any{
		"entity_type": string(eq.EntityFolder),
	}
	if entity.Name == "" {
		st.warn(eq.WarnTypeMissingValue, entity.ID, "reportFolder",
			"folder has no name")
	} else {
		defaults["folder_name"] = entity.Name
	}

	parentGUID := ""
	if parent := xmlutil.Child(el, "parentFolder"); parent != nil {
		parentGUID = xmlutil.Text(parent, "id")
		if parentGUID == "" {
			parentGUID, _ = xmlutil.AttrOf(parent, "id")
		}
	}
	if parentGUID != "" {
		entity.ParentID = parentGUID
		defaults["parent_folder_guid"] = parentGUID
	} else {
		defaults["is_root_folder"] = true
	}

	results := st.detect(el, "folder", nil)
	entity.Flags = st.mapFlags(el, defaults, results)
	st.Result.AddFolder(entity)
	st.keepResults(entity.ID, results)
	return entity
}
