package obfuscator

import (
	"strings"

	"go.uber.org/zap"
)

// boilerplateAttrs is the exact attribute section of the AMP boilerplate
// style tag. The validator requires its -moz-/-ms- declarations.
const boilerplateAttrs = " amp-boilerplate"

type scanState int

const (
	outsideRule scanState = iota
	inSelector
	inBody
)

func (s scanState) String() string {
	switch s {
	case outsideRule:
		return "outside-rule"
	case inSelector:
		return "in-selector"
	case inBody:
		return "in-body"
	}
	return "unknown"
}

// rule is a top-level block: the selector list before the opening brace and
// everything between it and the matching closing brace.
type rule struct {
	Selector string
	Body     string
}

// scanner splits a stylesheet into top-level rules by tracking brace depth.
// Only transitions to and from depth zero matter; nested braces are kept as
// body text and a stray closing brace at depth zero is kept as selector text.
type scanner struct {
	state    scanState
	depth    int
	buf      strings.Builder
	selector string
	rules    []rule
}

func (s *scanner) feed(c byte) {
	switch c {
	case '{':
		opens := s.depth == 0
		s.depth++
		if opens {
			s.selector = s.buf.String()
			s.buf.Reset()
			s.state = inBody
			return
		}
	case '}':
		s.depth--
		if s.depth == 0 {
			s.rules = append(s.rules, rule{Selector: s.selector, Body: s.buf.String()})
			s.selector = ""
			s.buf.Reset()
			s.state = outsideRule
			return
		}
	}

	s.buf.WriteByte(c)
	if s.state == outsideRule {
		s.state = inSelector
	}
}

// scanRules returns the top-level rules of sheet in order. Text after the
// last closed rule, such as an unterminated block, is dropped.
func scanRules(sheet string) []rule {
	var s scanner
	for i := 0; i < len(sheet); i++ {
		s.feed(sheet[i])
	}
	return s.rules
}

// rewriteSelector renames the class selectors in one comma-separated member
// of a selector list. It reports false when the selector references a class
// that is neither known, whitelisted nor the argument of :not(.
func (m *Minifier) rewriteSelector(sel string) (string, bool) {
	matches := classSelectorPattern.FindAllStringSubmatchIndex(sel, -1)
	if len(matches) == 0 {
		return sel, true
	}

	ok := true
	var b strings.Builder
	last := 0
	for _, loc := range matches {
		b.WriteString(sel[last:loc[0]])
		last = loc[1]

		name := sel[loc[2]:loc[3]]
		if alias, found := m.aliases.lookup(name); found {
			b.WriteString("." + alias)
		} else if m.whitelist.Contains(name) {
			b.WriteString("." + name)
		} else if loc[0] >= 5 && sel[loc[0]-5:loc[0]] == ":not(" {
			b.WriteString(sel[loc[0]:loc[1]])
		} else {
			ok = false
		}
	}
	b.WriteString(sel[last:])
	return b.String(), ok
}

// rewriteRule renders a rule against the alias table, or reports false
// when the rule must be omitted.
func (m *Minifier) rewriteRule(r rule, attrs string) (string, bool) {
	if strings.TrimSpace(r.Selector) == "" {
		m.log.Debug("Dropping rule without selector", zap.String("body", r.Body))
		return "", false
	}

	var valid []string
	for _, candidate := range strings.Split(r.Selector, ",") {
		sel, ok := m.rewriteSelector(candidate)
		if !ok {
			m.log.Debug("Dropping selector", zap.String("selector", strings.TrimSpace(candidate)))
			continue
		}
		valid = append(valid, sel)
	}
	if len(valid) == 0 {
		return "", false
	}

	body := r.Body
	if attrs != boilerplateAttrs {
		body = StripVendorPrefixes(body)
	}
	if body == "" {
		m.log.Debug("Dropping rule with empty body", zap.Strings("selectors", valid))
		return "", false
	}
	return strings.Join(valid, ",") + "{" + body + "}", true
}

// rewriteSheet rebuilds one stylesheet and accumulates its sizes
func (m *Minifier) rewriteSheet(attrs, sheet string) string {
	var out strings.Builder
	for _, r := range scanRules(sheet) {
		if rendered, ok := m.rewriteRule(r, attrs); ok {
			out.WriteString(rendered)
		}
	}

	result := out.String()
	if m.compact {
		result = MinifyCSS(result)
	}

	m.originalBytes += len(sheet)
	m.minifiedBytes += len(result)
	return result
}

// StripVendorPrefixes removes -moz- and -ms- declarations from a declaration
// block, both prefixed properties and prefixed values, and trims the rest.
func StripVendorPrefixes(body string) string {
	body = vendorPropertyPattern.ReplaceAllString(body, "")
	body = vendorValuePattern.ReplaceAllString(body, "")
	return strings.TrimSpace(body)
}
