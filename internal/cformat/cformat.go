// Package cformat handles printf directives of c-format gettext strings.
package cformat

import (
	"regexp"
	"strings"
)

var regexpDirective = regexp.MustCompile(
	`%(?:[1-9]\d*\$)?[#0\- +']*(?:\d+|\*)?(?:\.(?:\d+|\*)?)?` +
		`(?:hh|h|ll|l|j|z|t|L|q)?[diouxXeEfFgGaAcspn%]`,
)

// Extract returns all directives of s like %d, %1$s, %.2f and %%.
func Extract(s string) []string {
	return regexpDirective.FindAllString(s, -1)
}

const integerConversions = "diouxX"

// Integer reports whether directive d formats an integer.
func Integer(d string) bool {
	return len(d) > 1 && strings.IndexByte(integerConversions, d[len(d)-1]) != -1
}

// ReplaceInteger replaces every integer directive of s with repl
// and unescapes %%. Other directives are kept.
func ReplaceInteger(s, repl string) string {
	return regexpDirective.ReplaceAllStringFunc(s, func(d string) string {
		switch {
		case d == "%%":
			return "%"
		case Integer(d):
			return repl
		}
		return d
	})
}
