package parser

import (
	"regexp"
	"strings"
)

var (
	blockComment       = regexp.MustCompile(`(?s)/\*.*?\*/`)
	leadingLineComment = regexp.MustCompile(`(?m)^(\s*)//.*$`)
	trailingComma      = regexp.MustCompile(`,(\s*[}\]])`)
)

// Sanitize repairs the usual defects of hand or model written JSON: block
// comments, line comments and trailing commas.
//
// Line comments are found with a quote-counting heuristic rather than a
// tokenizer: a "//" is a comment when the line already contains a closing
// quote before it. A "//" inside a string value that follows a quoted key,
// such as "url": "http://host", is therefore cut as well.
func Sanitize(input string) string {
	s := strings.TrimSpace(input)
	s = blockComment.ReplaceAllString(s, "")
	s = stripQuotedLineComments(s)
	s = leadingLineComment.ReplaceAllString(s, "$1")
	s = trailingComma.ReplaceAllString(s, "$1")
	return s
}

// stripQuotedLineComments removes "//" to end of line wherever the text
// before it holds at least two quotes and the last of them is on the same
// line. Quote counts are taken from the unmodified input.
func stripQuotedLineComments(s string) string {
	lines := strings.Split(s, "\n")
	quotesBefore := 0
	for i, line := range lines {
		total := strings.Count(line, `"`)
		if cut := quotedCommentStart(line, quotesBefore); cut >= 0 {
			end := ""
			if strings.HasSuffix(line, "\r") {
				end = "\r"
			}
			lines[i] = line[:cut] + end
		}
		quotesBefore += total
	}
	return strings.Join(lines, "\n")
}

func quotedCommentStart(line string, quotesBefore int) int {
	onLine := 0
	for p := 0; p < len(line); p++ {
		if line[p] == '"' {
			onLine++
			continue
		}
		if onLine == 0 || quotesBefore+onLine < 2 {
			continue
		}
		if strings.HasPrefix(line[p:], "//") {
			return p
		}
	}
	return -1
}
