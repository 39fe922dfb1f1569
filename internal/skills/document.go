package skills

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"exitlayer/internal/systemspec"
)

const frontmatterDelim = "---"

var (
	ErrInvalidSkill  = errors.New("invalid skill")
	ErrNoFrontmatter = errors.New("skill document has no frontmatter")
	namePattern      = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// Frontmatter is the YAML header of a SKILL.md file.
type Frontmatter struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Priority    string   `yaml:"priority,omitempty"`
	Category    string   `yaml:"category,omitempty"`
	Tools       []string `yaml:"allowed_tools,omitempty"`
	Metadata    Metadata `yaml:"metadata"`
}

func (s Skill) frontmatter() Frontmatter {
	return Frontmatter{
		Name:        s.Name,
		Description: s.Description,
		Priority:    string(s.Priority),
		Category:    string(s.Category),
		Tools:       s.Tools,
		Metadata:    s.Metadata,
	}
}

// Validate checks the fields that end up in the frontmatter.
func Validate(s Skill) error {
	return validateFrontmatter(s.frontmatter())
}

func validateFrontmatter(fm Frontmatter) error {
	var problems []string
	switch {
	case fm.Name == "":
		problems = append(problems, "name is required")
	case len(fm.Name) > MaxNameLength:
		problems = append(problems, fmt.Sprintf("name exceeds %d characters", MaxNameLength))
	case !namePattern.MatchString(fm.Name):
		problems = append(problems, "name must be lowercase letters, digits and hyphens")
	}
	desc := strings.TrimSpace(fm.Description)
	if desc == "" {
		problems = append(problems, "description is required")
	}
	if utf8.RuneCountInString(desc) > MaxDescriptionLength {
		problems = append(problems, fmt.Sprintf("description exceeds %d characters", MaxDescriptionLength))
	}
	if strings.ContainsAny(fm.Description, "<>") {
		problems = append(problems, "description must not contain angle brackets")
	}
	if fm.Priority != "" && systemspec.Priority(fm.Priority).Rank() >= len(systemspec.Priorities) {
		problems = append(problems, fmt.Sprintf("unknown priority %q", fm.Priority))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSkill, strings.Join(problems, "; "))
	}
	return nil
}

// Document renders the skill as a SKILL.md file with YAML frontmatter.
func Document(s Skill) ([]byte, error) {
	if err := Validate(s); err != nil {
		return nil, err
	}
	head, err := yaml.Marshal(s.frontmatter())
	if err != nil {
		return nil, fmt.Errorf("marshal frontmatter: %w", err)
	}
	var b bytes.Buffer
	b.WriteString(frontmatterDelim + "\n")
	b.Write(head)
	b.WriteString(frontmatterDelim + "\n\n")
	b.WriteString(body(s))
	return b.Bytes(), nil
}

// ParseDocument reads the frontmatter of a SKILL.md and validates it.
func ParseDocument(doc []byte) (Frontmatter, string, error) {
	text := strings.TrimPrefix(string(doc), "\ufeff")
	if !strings.HasPrefix(text, frontmatterDelim+"\n") {
		return Frontmatter{}, "", ErrNoFrontmatter
	}
	rest := text[len(frontmatterDelim)+1:]
	end := strings.Index(rest, "\n"+frontmatterDelim+"\n")
	if end < 0 {
		return Frontmatter{}, "", ErrNoFrontmatter
	}
	var fm Frontmatter
	if err := yaml.Unmarshal([]byte(rest[:end+1]), &fm); err != nil {
		return Frontmatter{}, "", fmt.Errorf("parse frontmatter: %w", err)
	}
	if err := validateFrontmatter(fm); err != nil {
		return fm, "", err
	}
	return fm, strings.TrimLeft(rest[end+len(frontmatterDelim)+2:], "\n"), nil
}

func body(s Skill) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", s.Title)
	fmt.Fprintf(&b, "%s\n\n", s.Description)
	writeList(&b, "When to use", s.Triggers, false)
	if len(s.Inputs) > 0 {
		b.WriteString("## Inputs\n\n")
		for _, in := range s.Inputs {
			req := ""
			if in.Required {
				req = " (required)"
			}
			fmt.Fprintf(&b, "- `%s`%s: %s\n", in.Name, req, in.Description)
		}
		b.WriteString("\n")
	}
	writeList(&b, "Steps", s.Steps, true)
	writeList(&b, "Tools", s.Tools, false)
	writeList(&b, "Success criteria", s.SuccessCriteria, false)
	return b.String()
}

func writeList(b *strings.Builder, heading string, items []string, numbered bool) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", heading)
	for i, it := range items {
		if numbered {
			fmt.Fprintf(b, "%d. %s\n", i+1, it)
		} else {
			fmt.Fprintf(b, "- %s\n", it)
		}
	}
	b.WriteString("\n")
}

// CatalogMarkdown renders the catalog grouped by priority.
func CatalogMarkdown(c Catalog) string {
	var b strings.Builder
	title := "Skill Catalog"
	if c.Company != "" {
		title = fmt.Sprintf("Skill Catalog: %s", c.Company)
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "%d skills generated from the system spec.\n\n", c.TotalSkills)
	for _, p := range systemspec.Priorities {
		group := c.ByPriority(p)
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s: %s\n\n", p, p.Label())
		for _, s := range group {
			fmt.Fprintf(&b, "### %s\n\n", s.Title)
			fmt.Fprintf(&b, "- Skill: `%s`\n", s.Name)
			fmt.Fprintf(&b, "- Category: %s\n", s.Category)
			if len(s.Tools) > 0 {
				fmt.Fprintf(&b, "- Tools: %s\n", strings.Join(s.Tools, ", "))
			}
			fmt.Fprintf(&b, "\n%s\n\n", s.Description)
			for i, step := range s.Steps {
				fmt.Fprintf(&b, "%d. %s\n", i+1, step)
			}
			if len(s.Steps) > 0 {
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}
