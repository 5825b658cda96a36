package render

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/anushreedas1/EmailCat/internal/api"
	"github.com/mattn/go-runewidth"
	"golang.org/x/net/html"
)

var multiBlank = regexp.MustCompile(`\n{3,}`)

// EmailRenderer formats emails for the terminal list and detail panes
type EmailRenderer struct{}

// NewEmailRenderer creates a new renderer
func NewEmailRenderer() *EmailRenderer {
	return &EmailRenderer{}
}

// FormatListRow builds one fixed-width email list row:
// sender | subject | category | date
func (er *EmailRenderer) FormatListRow(email *api.Email, maxWidth int) string {
	if maxWidth <= 0 {
		maxWidth = 80
	}

	date := FormatRelativeTime(email.Timestamp)
	category := email.Category
	if category == "" {
		category = "-"
	}

	senderWidth := 22
	categoryWidth := 12
	dateWidth := runewidth.StringWidth(date)
	subjectWidth := maxWidth - senderWidth - categoryWidth - dateWidth - 6
	if subjectWidth < 10 {
		subjectWidth = 10
	}

	return fmt.Sprintf("%s  %s  %s  %s",
		fitWidth(SenderName(email.Sender), senderWidth),
		fitWidth(email.Subject, subjectWidth),
		fitWidth(category, categoryWidth),
		date,
	)
}

// FormatEmailDetail builds the detail pane text for one email, including
// its action items
func (er *EmailRenderer) FormatEmailDetail(email *api.Email) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From:    %s\n", email.Sender)
	fmt.Fprintf(&b, "Subject: %s\n", email.Subject)
	fmt.Fprintf(&b, "Date:    %s\n", email.Timestamp.Local().Format("Mon, 02 Jan 2006 15:04"))
	if email.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", email.Category)
	}
	b.WriteString("\n")
	b.WriteString(BodyToText(email.Body))

	if len(email.ActionItems) > 0 {
		b.WriteString("\n\n[ACTION ITEMS]\n")
		for _, item := range email.ActionItems {
			mark := "[ ]"
			if item.Completed {
				mark = "[x]"
			}
			fmt.Fprintf(&b, "%s %s", mark, item.Task)
			if item.Deadline != "" {
				fmt.Fprintf(&b, " (due %s)", item.Deadline)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// BodyToText returns a terminal-friendly rendition of an email body.
// HTML bodies are flattened to text; plain bodies pass through with
// normalized newlines.
func BodyToText(body string) string {
	if looksLikeHTML(body) {
		if text, err := htmlToText(body); err == nil && strings.TrimSpace(text) != "" {
			return text
		}
	}
	return normalizeNewlines(body)
}

func looksLikeHTML(s string) bool {
	lower := strings.ToLower(s)
	return strings.Contains(lower, "<html") || strings.Contains(lower, "<body") ||
		strings.Contains(lower, "<p>") || strings.Contains(lower, "<div") ||
		strings.Contains(lower, "<br")
}

// htmlToText walks the parsed DOM and emits readable text: paragraphs and
// breaks become newlines, list items become dashes, head/style/script
// subtrees are dropped
func htmlToText(htmlStr string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			text := strings.TrimRight(n.Data, " \t")
			if strings.TrimSpace(text) != "" {
				b.WriteString(text)
			}
		case html.ElementNode:
			switch strings.ToLower(n.Data) {
			case "head", "style", "script", "title", "meta", "link":
				return
			case "br":
				b.WriteByte('\n')
			case "p", "div", "section", "tr":
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					visit(c)
				}
				b.WriteByte('\n')
				return
			case "h1", "h2", "h3", "h4", "h5", "h6":
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					visit(c)
				}
				b.WriteString("\n\n")
				return
			case "li":
				b.WriteString("- ")
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					visit(c)
				}
				b.WriteByte('\n')
				return
			case "hr":
				b.WriteString("\n-----\n")
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(doc)

	return strings.TrimSpace(normalizeNewlines(b.String())), nil
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return multiBlank.ReplaceAllString(s, "\n\n")
}

// SenderName extracts the display name from "Name <addr>" senders
func SenderName(from string) string {
	if i := strings.Index(from, "<"); i > 0 {
		name := strings.TrimSpace(from[:i])
		name = strings.Trim(name, `"`)
		if name != "" {
			return name
		}
	}
	return strings.Trim(from, "<>")
}

// FormatRelativeTime renders a timestamp the way the email list shows it:
// clock time today, weekday within a week, date otherwise
func FormatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	now := time.Now()
	local := t.Local()
	switch {
	case local.Year() == now.Year() && local.YearDay() == now.YearDay():
		return local.Format("15:04")
	case now.Sub(local) < 7*24*time.Hour:
		return local.Format("Mon")
	case local.Year() == now.Year():
		return local.Format("Jan 02")
	default:
		return local.Format("2006-01-02")
	}
}

// fitWidth truncates and pads on the right to fit a fixed display width
func fitWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = runewidth.Truncate(s, width, "...")
	pad := width - runewidth.StringWidth(s)
	if pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}
