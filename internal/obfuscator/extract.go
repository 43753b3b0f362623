package obfuscator

import (
	"regexp"
	"strings"
)

// Textual extraction of the HTML constructs the rewriter cares about. No HTML
// parser is involved; everything else in a document passes through untouched.
var (
	styleBlockPattern     = regexp.MustCompile(`(?s)<style([^>]*)>(.*?)</style>`)
	classAttrPattern      = regexp.MustCompile(`(?s)\sclass=["']([^"']+)["']`)
	attrSelectorPattern   = regexp.MustCompile(`(?s)\[class[\^$*~|=]=["']?([^\]"']+)`)
	classSelectorPattern  = regexp.MustCompile(`\.([\w-]+)`)
	vendorPropertyPattern = regexp.MustCompile(`(?s)-(?:moz|ms)-[\w\s-]+:[^;]+;?`)
	vendorValuePattern    = regexp.MustCompile(`(?s)[^;:]+:\s*-(?:moz|ms)-[^;]+;?`)
)

// replaceSubmatches replaces every match of re in s with the result of fn,
// which receives the capture groups (index 0 is the whole match).
func replaceSubmatches(re *regexp.Regexp, s string, fn func(groups []string) string) string {
	matches := re.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, loc := range matches {
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = s[loc[2*i]:loc[2*i+1]]
			}
		}
		b.WriteString(s[last:loc[0]])
		b.WriteString(fn(groups))
		last = loc[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

// replaceStyleBlocks calls fn with the attribute section and the inner text
// of every <style> block and substitutes the returned sheet.
func replaceStyleBlocks(html string, fn func(attrs, sheet string) string) string {
	return replaceSubmatches(styleBlockPattern, html, func(g []string) string {
		return "<style" + g[1] + ">" + fn(g[1], g[2]) + "</style>"
	})
}

// replaceClassAttributes calls fn with the value of every class attribute
// and rebuilds the attribute around the returned value.
func replaceClassAttributes(html string, fn func(value string) string) string {
	return replaceSubmatches(classAttrPattern, html, func(g []string) string {
		return ` class="` + fn(g[1]) + `"`
	})
}

// styleSheets returns the inner text of every <style> block in order
func styleSheets(html string) []string {
	var sheets []string
	for _, m := range styleBlockPattern.FindAllStringSubmatch(html, -1) {
		sheets = append(sheets, m[2])
	}
	return sheets
}

// attributeSelectorValues returns the distinct values referenced by class
// attribute selectors, in order of first appearance.
func attributeSelectorValues(content string) []string {
	var values []string
	seen := make(map[string]bool)
	for _, m := range attrSelectorPattern.FindAllStringSubmatch(content, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			values = append(values, m[1])
		}
	}
	return values
}
