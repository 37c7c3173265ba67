package products

import "strings"

// SplitTags turns the comma-separated tag field into a trimmed list without
// empty entries. A tag that itself contains a comma cannot survive this.
func SplitTags(s string) []string {
	out := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// JoinTags is the inverse used to prefill the edit form.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}
