package loader

import "reflect"

// fieldTags is the injection information of a struct field tag.
type fieldTags struct {
	Inject bool   // inject:"" present and not "-"
	Name   string // name:"qualifier"
}

// parseFieldTags reads the inject and name keys of a struct tag.
func parseFieldTags(tag string) fieldTags {
	st := reflect.StructTag(tag)
	var info fieldTags

	if val, ok := st.Lookup("inject"); ok && val != "-" {
		info.Inject = true
	}
	if val, ok := st.Lookup("name"); ok {
		info.Name = val
	}
	return info
}
