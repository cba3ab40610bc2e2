package views

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"stocksearch/internal/domain"
)

// DetailLine is one printable row of a detail record
type DetailLine struct {
	Depth  int
	Name   string
	Value  string
	Header bool
}

// DetailLines flattens a record one level deep. Nested objects become a
// header followed by their scalar members; arrays are summarised.
func DetailLines(rec domain.DetailRecord) []DetailLine {
	var lines []DetailLine
	for _, f := range rec.Fields() {
		switch {
		case f.Value.IsObject():
			lines = append(lines, DetailLine{Name: f.Name, Header: true})
			f.Value.ForEach(func(k, v gjson.Result) bool {
				lines = append(lines, DetailLine{Depth: 1, Name: k.String(), Value: scalar(v)})
				return true
			})
		default:
			lines = append(lines, DetailLine{Name: f.Name, Value: scalar(f.Value)})
		}
	}
	return lines
}

func scalar(v gjson.Result) string {
	switch {
	case v.IsArray():
		n := len(v.Array())
		if n == 1 {
			return "1 entry"
		}
		return fmt.Sprintf("%d entries", n)
	case v.IsObject():
		return fmt.Sprintf("%d fields", len(v.Map()))
	case v.Type == gjson.Null:
		return "null"
	default:
		return v.String()
	}
}

// RenderDetailCard renders the record as a bordered card
func (r *Renderer) RenderDetailCard(rec domain.DetailRecord, width int) string {
	lines := DetailLines(rec)

	nameWidth := 0
	for _, l := range lines {
		if l.Header {
			continue
		}
		if w := len(l.Name) + 2*l.Depth; w > nameWidth {
			nameWidth = w
		}
	}

	var b strings.Builder
	b.WriteString(r.styles.CardTitle.Render(rec.Symbol()))
	for _, l := range lines {
		b.WriteString("\n")
		indent := strings.Repeat("  ", l.Depth)
		if l.Header {
			b.WriteString(r.styles.Label.Render(l.Name))
			continue
		}
		pad := strings.Repeat(" ", nameWidth-len(l.Name)-2*l.Depth)
		b.WriteString(indent)
		b.WriteString(r.styles.FieldName.Render(l.Name))
		b.WriteString(pad)
		b.WriteString("  ")
		b.WriteString(r.styles.FieldValue.Render(l.Value))
	}

	style := r.styles.Card
	if width > 8 {
		style = style.MaxWidth(width - 4)
	}
	return style.Render(b.String())
}

// DetailText renders the full record for the pager: a summary followed by
// the raw payload, indented
func DetailText(rec domain.DetailRecord) string {
	var b strings.Builder
	b.WriteString(rec.Symbol())
	b.WriteString("\n\n")
	for _, l := range DetailLines(rec) {
		b.WriteString(strings.Repeat("  ", l.Depth))
		b.WriteString(l.Name)
		if !l.Header {
			b.WriteString(": ")
			b.WriteString(l.Value)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(gjson.GetBytes(rec.Raw(), "@pretty").String())
	return b.String()
}
