package util

import "strings"

// ListDelimiter separates list-valued profile fields (skills,
// interests, schools) at the card and tab boundary. The representation
// is lossy when an entry itself contains the delimiter; this is the
// established wire contract with the web tab and is kept as-is.
const ListDelimiter = ";"

// SplitList splits a delimiter-joined field into its entries, dropping
// empty segments. An empty input yields an empty, non-nil list.
func SplitList(value string) []string {
	entries := []string{}
	for _, segment := range strings.Split(value, ListDelimiter) {
		if segment != "" {
			entries = append(entries, segment)
		}
	}
	return entries
}

// JoinList renders a list field for display, falling back to the given
// placeholder when the list is empty.
func JoinList(entries []string, placeholder string) string {
	if len(entries) == 0 {
		return placeholder
	}
	return strings.Join(entries, ListDelimiter)
}
