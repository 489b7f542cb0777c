package docs

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformedSection is returned when managed section markers are unbalanced.
var ErrMalformedSection = errors.New("malformed managed section")

// ManagedSection is a region of a file between a BEGIN and an END marker.
type ManagedSection struct {
	Name      string
	Content   string // text between the markers
	StartLine int    // line of the BEGIN marker
	EndLine   int    // line of the END marker

	start int // offset of the BEGIN marker
	end   int // offset just past the END marker
}

var markerRe = regexp.MustCompile(`<!-- (BEGIN|END) ([^>]+?) -->`)

func markers(name string) (begin, end string) {
	return "<!-- BEGIN " + name + " -->", "<!-- END " + name + " -->"
}

func lineAt(content string, offset int) int {
	return strings.Count(content[:offset], "\n") + 1
}

// FindManagedSection returns the first section called name, or nil when
// either marker is missing.
func FindManagedSection(content, name string) *ManagedSection {
	begin, end := markers(name)

	start := strings.Index(content, begin)
	if start == -1 {
		return nil
	}
	inner := start + len(begin)

	n := strings.Index(content[inner:], end)
	if n == -1 {
		return nil
	}
	endStart := inner + n

	return &ManagedSection{
		Name:      name,
		Content:   content[inner:endStart],
		StartLine: lineAt(content, start),
		EndLine:   lineAt(content, endStart),
		start:     start,
		end:       endStart + len(end),
	}
}

// HasManagedSection reports whether content holds a complete section called name.
func HasManagedSection(content, name string) bool {
	return FindManagedSection(content, name) != nil
}

// CreateManagedSection renders a section called name around body.
func CreateManagedSection(name, body string) string {
	begin, end := markers(name)
	if !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	return begin + "\n" + body + end
}

// UpdateManagedSection replaces the body of the section called name.
func UpdateManagedSection(content, name, body string) (string, error) {
	section := FindManagedSection(content, name)
	if section == nil {
		return "", fmt.Errorf("managed section %q not found", name)
	}
	return content[:section.start] + CreateManagedSection(name, body) + content[section.end:], nil
}

// ValidateManagedSections walks every marker in content and lists the ones
// without a partner, in file order.
func ValidateManagedSections(content string) []string {
	var problems []string
	open := make(map[string]int) // section name -> line of its BEGIN marker
	var order []string

	for _, loc := range markerRe.FindAllStringSubmatchIndex(content, -1) {
		kind, name := content[loc[2]:loc[3]], content[loc[4]:loc[5]]
		line := lineAt(content, loc[0])

		switch kind {
		case "BEGIN":
			if prev, ok := open[name]; ok {
				problems = append(problems, fmt.Sprintf("line %d: BEGIN marker for %q while the one on line %d is still open", line, name, prev))
				continue
			}
			open[name] = line
			order = append(order, name)
		case "END":
			if _, ok := open[name]; !ok {
				problems = append(problems, fmt.Sprintf("line %d: missing BEGIN marker for %q", line, name))
				continue
			}
			delete(open, name)
		}
	}

	for _, name := range order {
		if line, ok := open[name]; ok {
			problems = append(problems, fmt.Sprintf("line %d: missing END marker for %q", line, name))
			delete(open, name)
		}
	}
	return problems
}

// CheckManagedSections wraps the problems ValidateManagedSections finds in ErrMalformedSection.
func CheckManagedSections(content string) error {
	problems := ValidateManagedSections(content)
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMalformedSection, strings.Join(problems, "; "))
}
