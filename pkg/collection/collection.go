package collection

import (
	"html"
	"regexp"
	"strings"
)

var (
	keyPattern = regexp.MustCompile("[^a-z0-9_]")

	danishReplacer = strings.NewReplacer(
		"æ", "ae",
		"ø", "oe",
		"å", "aa",
	)
)

// UniqueNames returns a slice of unique elements of in
func UniqueNames(in []string) []string {
	var out []string
	uniqueMap := make(map[string]struct{})
	for i := range in {
		if in[i] == "" {
			continue
		}

		_, exist := uniqueMap[in[i]]
		if exist == true {
			continue
		}
		uniqueMap[in[i]] = struct{}{}
	}

	out = make([]string, len(uniqueMap))
	var i int
	for k := range uniqueMap {
		out[i] = k
		i++
	}

	return out
}

// StringInList returns true if a given string is in a list of strings
func StringInList(str string, list []string) bool {
	for i := range list {
		if str == list[i] {
			return true
		}
	}
	return false
}

// AnyEmpty checks for any empty string in slice
func AnyEmpty(s []*string) bool {
	for i := range s {
		if *s[i] == "" {
			return true
		}
	}
	return false
}

// Sanitize strips markup leftovers and line breaks out of feed text
func Sanitize(s string) (str string) {
	str = html.UnescapeString(strings.TrimSpace(s))
	var replacements = [...]string{
		"\"",
		"#",
		"*",
		"_",
		"\n",
		"\r",
	}

	for i := range replacements {
		str = strings.Replace(str, replacements[i], "", -1)
	}

	return strings.TrimSpace(str)
}

// SanitizeKey converts a display label into a safe field identifier:
// lowercased, Danish characters transliterated, everything else outside
// [a-z0-9_] replaced with an underscore. The result always starts with
// a letter or an underscore.
func SanitizeKey(s string) string {
	s = strings.ToLower(s)
	s = danishReplacer.Replace(s)
	s = keyPattern.ReplaceAllString(s, "_")
	if s == "" || !(s[0] == '_' || (s[0] >= 'a' && s[0] <= 'z')) {
		return "opt_" + s
	}
	return s
}
