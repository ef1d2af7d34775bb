package ingest

import (
	"regexp"
	"strings"
)

type categoryRule struct {
	pattern  *regexp.Regexp
	category string
}

// categoryRules is an ordered first-match-wins rule list. The order is a
// tie-break policy: text matching both a sports and a politics keyword
// classifies as sports because sports is tested first.
var categoryRules = []categoryRule{
	{regexp.MustCompile(`football|soccer|sport|league|match|goal|player|team|ghana black|kotoko|hearts`), CategorySports},
	{regexp.MustCompile(`business|economy|finance|gdp|investment|bank|market|trade|economic`), CategoryBusiness},
	{regexp.MustCompile(`entertainment|music|movie|celebrity|actor|actress|nollywood|kumawood`), CategoryEntertainment},
	{regexp.MustCompile(`health|hospital|doctor|disease|medical|covid|ministry of health`), CategoryHealth},
	{regexp.MustCompile(`technology|tech|app|software|startup|digital|cyber`), CategoryTechnology},
	{regexp.MustCompile(`politics|parliament|president|government|minister|election|npp|ndc|opposition`), CategoryPolitics},
}

// Classify assigns a category to free text using the ordered keyword rules,
// falling back to general when nothing matches.
func Classify(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range categoryRules {
		if rule.pattern.MatchString(lower) {
			return rule.category
		}
	}
	return CategoryGeneral
}
