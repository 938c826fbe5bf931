package formatter

// ConditionalIssueFormatter renders the conditional rewrites. Besides the
// general layout it tells how many lines the rewrite collapses.
type ConditionalIssueFormatter struct{}

func (f *ConditionalIssueFormatter) IssueTemplate() string {
	return `{{header .Rule .Severity .MaxLineNumWidth .Filename .StartLine .StartColumn -}}
{{snippet .SnippetLines .StartLine .EndLine .MaxLineNumWidth .CommonIndent .Padding -}}
{{underlineAndMessage .Message .Padding .StartLine .EndLine .StartColumn .EndColumn .SnippetLines .CommonIndent}}

{{- if .Suggestion }}
{{suggestion .Suggestion .Padding .MaxLineNumWidth .StartLine}}
{{- end }}

{{- if .Note }}{{note .Note}}{{- end }}
{{- replaces .StartLine .EndLine}}
`
}
