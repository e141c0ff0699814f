package classifier

import (
	"regexp"
	"strings"
)

var (
	hintPatterns = []*regexp.Regexp{
		regexp.MustCompile(`在(.+?)买`),
		regexp.MustCompile(`去(.+?)买`),
		regexp.MustCompile(`从(.+?)买`),
		// One word in any script, or "<word> Mart".
		regexp.MustCompile(`(?i)\bat\s+([\p{L}\p{N}'’&]+(?:\s+mart\b)?)`),
		regexp.MustCompile(`(?i)\bfrom\s+([\p{L}\p{N}'’&]+(?:\s+mart\b)?)`),
	}
	itemSeparator = regexp.MustCompile(`(?i)[,，、]|\s+and\s+|和`)
	leadingVerb   = regexp.MustCompile(`(?i)^(buy\s+|买)`)
)

// ParseShoppingInput splits free text such as "milk, eggs at Tesco" or
// "在Asda买牛奶和苹果" into a store hint and item names. Only the first store
// mention is taken.
func ParseShoppingInput(input string) (hint string, items []string) {
	rest := strings.TrimSpace(input)

	for _, p := range hintPatterns {
		loc := p.FindStringSubmatchIndex(rest)
		if loc == nil {
			continue
		}
		hint = strings.TrimSpace(rest[loc[2]:loc[3]])
		rest = strings.TrimSpace(strings.TrimRight(rest[:loc[0]], " ") + " " + strings.TrimLeft(rest[loc[1]:], " "))
		break
	}

	rest = leadingVerb.ReplaceAllString(rest, "")

	for _, part := range itemSeparator.Split(rest, -1) {
		part = strings.TrimSpace(part)
		if part == "" || strings.EqualFold(part, "and") {
			continue
		}
		items = append(items, part)
	}
	return hint, items
}
