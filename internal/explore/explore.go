// Package explore splits a topic exploration into display sections.
package explore

import (
	"regexp"
	"strconv"
	"strings"
)

// Icon names understood by the views.
const (
	IconBook      = "book-open"
	IconLightbulb = "lightbulb"
	IconTrending  = "trending-up"
	IconZap       = "zap"
	IconAlert     = "alert-triangle"
	IconCompass   = "compass"
)

var numberedSection = regexp.MustCompile(`(?s)^(\d+)\.\s*(.+?):\s*(.+)$`)

var sectionIcons = map[int]string{
	1: IconBook,
	2: IconLightbulb,
	3: IconTrending,
	4: IconZap,
	5: IconAlert,
	6: IconCompass,
}

// Section is one blank-line separated block of an exploration.
// Numbered is false for plain paragraphs, which only carry Body.
type Section struct {
	Numbered bool
	Number   int
	Title    string
	Body     string
	Icon     string
}

// Parse splits text on blank lines and recognises "N. Title: body" sections.
func Parse(text string) []Section {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var sections []Section
	for _, block := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(block) == "" {
			continue
		}
		m := numberedSection.FindStringSubmatch(block)
		if m == nil {
			sections = append(sections, Section{Body: block})
			continue
		}
		n, _ := strconv.Atoi(m[1])
		icon, ok := sectionIcons[n]
		if !ok {
			icon = IconBook
		}
		sections = append(sections, Section{
			Numbered: true,
			Number:   n,
			Title:    m[2],
			Body:     strings.TrimSpace(m[3]),
			Icon:     icon,
		})
	}
	return sections
}
