package policy

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Anchors look like [SND-501]. The appendix index also uses the range
// shorthand [SND-501..503], which expands to one clause per code.
var anchorPattern = regexp.MustCompile(`\[([A-Z]{2,4})-([A-Z0-9]+)(?:\.\.([A-Z0-9]+))?\]`)

// parseDocument walks a policy document paragraph by paragraph and returns
// every clause it declares. The first declaration of an anchor wins, so the
// appendix index never overrides the clause body.
func parseDocument(lang Language, doc string) ([]Clause, error) {
	var clauses []Clause
	seen := make(map[string]bool)

	for _, paragraph := range splitParagraphs(doc) {
		matches := anchorPattern.FindAllStringSubmatch(paragraph, -1)
		if len(matches) == 0 {
			continue
		}
		text := clauseText(paragraph)
		for _, m := range matches {
			prefix, from, to := m[1], m[2], m[3]
			category, ok := categoryByPrefix[prefix]
			if !ok {
				return nil, fmt.Errorf("%w: %s-%s", ErrUnknownCategory, prefix, from)
			}
			codes, err := expandRange(from, to)
			if err != nil {
				return nil, fmt.Errorf("anchor %s-%s: %w", prefix, from, err)
			}
			for _, code := range codes {
				anchor := prefix + "-" + code
				if seen[anchor] {
					continue
				}
				seen[anchor] = true
				clauses = append(clauses, Clause{
					Anchor:   anchor,
					Category: category,
					Text:     text,
					Language: lang,
				})
			}
		}
	}
	return clauses, nil
}

func splitParagraphs(doc string) []string {
	doc = strings.ReplaceAll(doc, "\r\n", "\n")
	return strings.Split(doc, "\n\n")
}

// clauseText strips markdown decoration and the anchor markers themselves,
// leaving the human-readable clause body.
func clauseText(paragraph string) string {
	text := anchorPattern.ReplaceAllString(paragraph, "")
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "`", "")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "*-# "))
	}
	return strings.TrimSpace(strings.Join(lines, " "))
}

// expandRange yields the codes covered by a shorthand like 501..503 or A..C.
// A bare code yields itself.
func expandRange(from, to string) ([]string, error) {
	if to == "" {
		return []string{from}, nil
	}

	lo, loErr := strconv.Atoi(from)
	hi, hiErr := strconv.Atoi(to)
	if loErr == nil && hiErr == nil {
		if hi < lo {
			return nil, fmt.Errorf("inverted range %d..%d", lo, hi)
		}
		codes := make([]string, 0, hi-lo+1)
		for n := lo; n <= hi; n++ {
			codes = append(codes, strconv.Itoa(n))
		}
		return codes, nil
	}

	if len(from) == 1 && len(to) == 1 && from[0] <= to[0] {
		codes := make([]string, 0, to[0]-from[0]+1)
		for ch := from[0]; ch <= to[0]; ch++ {
			codes = append(codes, string(ch))
		}
		return codes, nil
	}

	return nil, fmt.Errorf("unsupported range %s..%s", from, to)
}
