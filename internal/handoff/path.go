package handoff

import "strings"

// Lookup returns the value at a dotted path in a generic document such as the
// one returned by Document.Fields. Any segment that is not a mapping resolves
// to absent. It is meant for audit and log output; validation reads typed
// fields instead.
func Lookup(doc map[string]any, path string) (any, bool) {
	var cur any = doc
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, cur != nil
}

// LookupString returns the value at path when it is a string.
func LookupString(doc map[string]any, path string) string {
	v, ok := Lookup(doc, path)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
