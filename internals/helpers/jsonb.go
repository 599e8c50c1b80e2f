// file: internals/helpers/jsonb.go
package helper

import (
	"encoding/json"
	"strings"

	"gorm.io/datatypes"
)

// StringsToJSON packs a native slice into a JSONB column value.
// nil stays an empty array so the column never holds SQL NULL.
func StringsToJSON(items []string) datatypes.JSON {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(b)
}

// JSONToStrings unpacks a JSONB column into a native slice.
func JSONToStrings(j datatypes.JSON) []string {
	if len(j) == 0 {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal(j, &out); err != nil {
		return []string{}
	}
	if out == nil {
		out = []string{}
	}
	return out
}

// ParseStringList accepts either a JSON array or a CSV string.
func ParseStringList(v string) []string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	if strings.HasPrefix(v, "[") {
		var arr []string
		_ = json.Unmarshal([]byte(v), &arr)
		return arr
	}
	var arr []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			arr = append(arr, p)
		}
	}
	return arr
}
