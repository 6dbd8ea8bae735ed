package pipeline

import (
	"html"
	"regexp"
	"strings"
)

var boldRe = regexp.MustCompile(`\*\*([^*]+)\*\*`)
var separatorCellRe = regexp.MustCompile(`^:?-+:?$`)

// renderHTML converts the markdown subset the generator emits (h2/h3
// headings, bold, bullet lists, pipe tables, paragraphs) into the HTML the
// posting service expects. It is not a general markdown renderer.
func renderHTML(markdown string) string {
	var out strings.Builder
	blocks := strings.Split(strings.ReplaceAll(markdown, "\r\n", "\n"), "\n\n")

	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		switch {
		case strings.HasPrefix(block, "### "):
			writeBlock(&out, "<h3>"+inline(strings.TrimPrefix(firstLine(block), "### "))+"</h3>")
			rest := restLines(block)
			if rest != "" {
				writeBlock(&out, "<p>"+inline(rest)+"</p>")
			}
		case strings.HasPrefix(block, "## "):
			writeBlock(&out, "<h2>"+inline(strings.TrimPrefix(firstLine(block), "## "))+"</h2>")
			rest := restLines(block)
			if rest != "" {
				writeBlock(&out, "<p>"+inline(rest)+"</p>")
			}
		case strings.HasPrefix(block, "|"):
			writeBlock(&out, renderTable(block))
		case strings.HasPrefix(block, "- "):
			writeBlock(&out, renderList(block))
		default:
			writeBlock(&out, "<p>"+inline(strings.ReplaceAll(block, "\n", "<br>"))+"</p>")
		}
	}
	return out.String()
}

func writeBlock(out *strings.Builder, s string) {
	if out.Len() > 0 {
		out.WriteString("\n")
	}
	out.WriteString(s)
}

func inline(s string) string {
	escaped := html.EscapeString(s)
	return boldRe.ReplaceAllString(escaped, "<strong>$1</strong>")
}

func firstLine(block string) string {
	if i := strings.Index(block, "\n"); i >= 0 {
		return block[:i]
	}
	return block
}

func restLines(block string) string {
	if i := strings.Index(block, "\n"); i >= 0 {
		return strings.TrimSpace(block[i+1:])
	}
	return ""
}

func renderList(block string) string {
	var items []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "- ") {
			items = append(items, "<li>"+inline(strings.TrimPrefix(line, "- "))+"</li>")
		}
	}
	return "<ul>" + strings.Join(items, "") + "</ul>"
}

func renderTable(block string) string {
	var rows []string
	header := true
	for _, line := range strings.Split(block, "\n") {
		line = strings.Trim(strings.TrimSpace(line), "|")
		if line == "" {
			continue
		}
		cells := strings.Split(line, "|")
		if isSeparatorRow(cells) {
			header = false
			continue
		}

		tag := "td"
		if header {
			tag = "th"
		}
		var row strings.Builder
		row.WriteString("<tr>")
		for _, cell := range cells {
			row.WriteString("<" + tag + ">" + inline(strings.TrimSpace(cell)) + "</" + tag + ">")
		}
		row.WriteString("</tr>")
		rows = append(rows, row.String())
	}
	return "<table>" + strings.Join(rows, "") + "</table>"
}

func isSeparatorRow(cells []string) bool {
	for _, cell := range cells {
		if !separatorCellRe.MatchString(strings.TrimSpace(cell)) {
			return false
		}
	}
	return len(cells) > 0
}
