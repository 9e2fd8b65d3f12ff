package export

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/templui/goaltrack/internal/model"
)

const (
	DocumentTitle    = "Goals Export"
	ReflectionMarker = "💭"
	ImageMarker      = "📷"
)

const dateLayout = "Jan 2, 2006"

// Attachment is an image that made it into an archive, linked from the
// Markdown by its path inside the archive.
type Attachment struct {
	Filename string
	Caption  *string
}

// Section is one goal with its entries ordered newest first.
type Section struct {
	Goal    *model.GoalSummary
	Entries []*model.ProgressEntry
	// Attachments by progress entry id. Only set for archive exports.
	Attachments map[int64][]Attachment
}

type Document struct {
	ExportedAt time.Time
	Sections   []Section
}

// Composer renders export documents. Dates are shown in its location.
type Composer struct {
	loc *time.Location
}

func NewComposer(loc *time.Location) *Composer {
	if loc == nil {
		loc = time.UTC
	}
	return &Composer{loc: loc}
}

func (c *Composer) Markdown(doc Document) string {
	var b strings.Builder

	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %q\n", DocumentTitle)
	fmt.Fprintf(&b, "exported_at: %s\n", doc.ExportedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "goal_count: %d\n", len(doc.Sections))
	b.WriteString("---\n\n")

	fmt.Fprintf(&b, "# %s\n\n", DocumentTitle)
	fmt.Fprintf(&b, "_Exported on %s_\n", doc.ExportedAt.In(c.loc).Format(dateLayout))

	if len(doc.Sections) == 0 {
		b.WriteString("\n_No goals selected._\n")
	}

	for _, section := range doc.Sections {
		b.WriteString("\n")
		c.writeSection(&b, section)
	}

	return b.String()
}

func (c *Composer) writeSection(b *strings.Builder, s Section) {
	g := s.Goal

	icon := model.DefaultGoalIcon
	if g.GoalTypeIcon != nil && *g.GoalTypeIcon != "" {
		icon = *g.GoalTypeIcon
	}
	fmt.Fprintf(b, "## %s %s\n\n", icon, g.Title)

	if g.Description != nil && strings.TrimSpace(*g.Description) != "" {
		for _, line := range strings.Split(strings.TrimSpace(*g.Description), "\n") {
			fmt.Fprintf(b, "> %s\n", strings.TrimRight(line, "\r"))
		}
		b.WriteString("\n")
	}

	if g.GoalTypeName != nil {
		fmt.Fprintf(b, "- **Type:** %s\n", *g.GoalTypeName)
	}
	fmt.Fprintf(b, "- **Status:** %s\n", StatusLabel(g.Status))
	fmt.Fprintf(b, "- **Progress:** %d%%\n", g.Progress)
	if g.TargetDate != nil {
		fmt.Fprintf(b, "- **Target date:** %s\n", g.TargetDate.In(c.loc).Format(dateLayout))
	}
	if period := period(g.Quarter, g.Year); period != "" {
		fmt.Fprintf(b, "- **Period:** %s\n", period)
	}

	b.WriteString("\n### Progress Updates\n\n")
	if len(s.Entries) == 0 {
		b.WriteString("_No progress updates yet._\n")
		return
	}

	b.WriteString("| # | Date | Update | Progress | Images | Notes |\n")
	b.WriteString("|---|------|--------|----------|--------|-------|\n")

	total := len(s.Entries)
	for i, e := range s.Entries {
		fmt.Fprintf(b, "| %d | %s | %s | %s | %s | %s |\n",
			total-i,
			e.EffectiveDate().In(c.loc).Format(dateLayout),
			entryTitle(e),
			Delta(e.ProgressDelta),
			imageCell(e.ImageCount),
			cell(e.Notes),
		)
	}

	c.writeAttachments(b, s)
}

func (c *Composer) writeAttachments(b *strings.Builder, s Section) {
	if len(s.Attachments) == 0 {
		return
	}

	header := false
	total := len(s.Entries)
	for i, e := range s.Entries {
		attachments := s.Attachments[e.ID]
		if len(attachments) == 0 {
			continue
		}
		if !header {
			b.WriteString("\n### Attached Images\n")
			header = true
		}

		fmt.Fprintf(b, "\n#### %d. %s\n\n", total-i, e.Title)
		for _, a := range attachments {
			alt := a.Filename
			if a.Caption != nil && *a.Caption != "" {
				alt = *a.Caption
			}
			fmt.Fprintf(b, "![%s](%s%s)\n", escapeBrackets(alt), ImageDir, a.Filename)
			if a.Caption != nil && *a.Caption != "" {
				fmt.Fprintf(b, "*%s*\n", *a.Caption)
			}
			b.WriteString("\n")
		}
	}
}

// StatusLabel turns a stored status into a human label ("on_hold" -> "On Hold").
func StatusLabel(status string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(status, "_", " "))
}

// Delta formats a progress delta for the table. Zero and negative deltas
// render as a dash.
func Delta(delta int) string {
	if delta <= 0 {
		return "-"
	}
	return fmt.Sprintf("+%d%%", delta)
}

func entryTitle(e *model.ProgressEntry) string {
	title := escapeCell(e.Title)
	if e.IsReflection() {
		return ReflectionMarker + " " + title
	}
	return title
}

func imageCell(count int) string {
	if count == 0 {
		return ""
	}
	return fmt.Sprintf("%s %d", ImageMarker, count)
}

func cell(s *string) string {
	if s == nil {
		return ""
	}
	return escapeCell(*s)
}

var cellReplacer = strings.NewReplacer(
	"|", `\|`,
	"\r\n", "<br>",
	"\n", "<br>",
	"\r", "<br>",
)

func escapeCell(s string) string {
	return cellReplacer.Replace(strings.TrimSpace(s))
}

var bracketReplacer = strings.NewReplacer("[", `\[`, "]", `\]`)

func escapeBrackets(s string) string {
	return bracketReplacer.Replace(s)
}

func period(quarter *string, year *int) string {
	switch {
	case quarter != nil && year != nil:
		return fmt.Sprintf("%s %d", *quarter, *year)
	case quarter != nil:
		return *quarter
	case year != nil:
		return fmt.Sprintf("%d", *year)
	default:
		return ""
	}
}
