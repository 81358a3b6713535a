// Package tags converts between "key:value" tag lists and key/value dictionaries.
//
// A tag is split on its first colon: everything before is the key, everything after
// (colons included) is the value. A single pair of surrounding double quotes is stripped
// from the value. When a key occurs more than once, the last occurrence wins.
package tags

import (
	"sort"
	"strings"
)

// Dict is a decoded tag list.
type Dict map[string]string

// Get returns the value for key and whether it was present.
func (d Dict) Get(key string) (string, bool) {
	v, ok := d[key]
	return v, ok
}

// Decode never returns nil.
func Decode(list []string) Dict {
	dict := make(Dict, len(list))
	for _, tag := range list {
		key, value, _ := strings.Cut(tag, ":")
		dict[key] = unquote(value)
	}
	return dict
}

// Encode renders d with keys in sorted order. Values that would not survive a Decode
// unchanged are quoted.
func Encode(d Dict) []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	list := make([]string, 0, len(keys))
	for _, k := range keys {
		v := d[k]
		if unquote(v) != v {
			v = `"` + v + `"`
		}
		list = append(list, k+":"+v)
	}
	return list
}

// Set returns the tags as a set, for membership checks on raw tag strings.
func Set(list []string) map[string]struct{} {
	set := make(map[string]struct{}, len(list))
	for _, tag := range list {
		set[tag] = struct{}{}
	}
	return set
}

func unquote(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return v[1 : len(v)-1]
	}
	return v
}
