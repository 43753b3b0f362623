package obfuscator

import (
	"errors"
	"io"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// maxAuditProblems bounds the problems recorded per sheet
const maxAuditProblems = 32

// AuditProblem is a parse error found in a rebuilt stylesheet
type AuditProblem struct {
	Message string `json:"message" yaml:"message"`
	Offset  int    `json:"offset" yaml:"offset"`
}

// AuditReport summarizes the grammar of one or more stylesheets
type AuditReport struct {
	Sheets       int            `json:"sheets" yaml:"sheets"`
	Rules        int            `json:"rules" yaml:"rules"`
	Declarations int            `json:"declarations" yaml:"declarations"`
	AtRules      int            `json:"at_rules" yaml:"at_rules"`
	Problems     []AuditProblem `json:"problems,omitempty" yaml:"problems,omitempty"`
}

// OK reports whether no parse problems were found
func (a *AuditReport) OK() bool {
	return len(a.Problems) == 0
}

// Merge adds the counts and problems of other to a
func (a *AuditReport) Merge(other AuditReport) {
	a.Sheets += other.Sheets
	a.Rules += other.Rules
	a.Declarations += other.Declarations
	a.AtRules += other.AtRules
	a.Problems = append(a.Problems, other.Problems...)
}

// AuditStylesheet parses a stylesheet with a real CSS grammar and reports
// what it found. The rewriter only tracks braces, so this is how a caller
// learns that an input was malformed enough to lose content.
func AuditStylesheet(sheet string) AuditReport {
	report := AuditReport{Sheets: 1}
	p := css.NewParser(parse.NewInputString(sheet), false)

	for {
		gt, _, _ := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if !p.HasParseError() {
				if err := p.Err(); err != nil && !errors.Is(err, io.EOF) {
					report.Problems = append(report.Problems, AuditProblem{Message: err.Error(), Offset: p.Offset()})
				}
				return report
			}
			if len(report.Problems) >= maxAuditProblems {
				return report
			}
			report.Problems = append(report.Problems, AuditProblem{Message: p.Err().Error(), Offset: p.Offset()})
		case css.BeginRulesetGrammar, css.QualifiedRuleGrammar:
			report.Rules++
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			report.Declarations++
		case css.AtRuleGrammar, css.BeginAtRuleGrammar:
			report.AtRules++
		}
	}
}

// AuditDocument audits every <style> block of html and logs any problems
func (m *Minifier) AuditDocument(html string) AuditReport {
	var report AuditReport
	for _, sheet := range styleSheets(html) {
		report.Merge(AuditStylesheet(sheet))
	}
	for _, problem := range report.Problems {
		m.log.Warn("Stylesheet problem", zap.String("message", problem.Message), zap.Int("offset", problem.Offset))
	}
	return report
}
