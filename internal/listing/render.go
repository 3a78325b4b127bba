package listing

import (
	"html"
	"strings"
)

// Render builds the HTML caption of a listing post. Every answer is escaped;
// the footer is trusted configuration and goes out as is.
func Render(a Answers, tags []string, footer string) string {
	var b strings.Builder
	b.WriteString("🚗 <b>" + html.EscapeString(a.CarTitle) + "</b>\n\n")
	writeField(&b, "⚙️ Engine", a.Engine)
	writeField(&b, "🔧 Gearbox", a.Gearbox)
	writeField(&b, "🛣 Mileage", a.Mileage)
	writeField(&b, "📍 City", a.City)
	writeField(&b, "💰 Price", a.Price)
	b.WriteString("\n")
	b.WriteString(html.EscapeString(a.Description))
	b.WriteString("\n\n")
	writeField(&b, "📞 Contacts", a.Contacts)
	if footer != "" {
		b.WriteString("\n")
		b.WriteString(footer)
	}
	if len(tags) > 0 {
		escaped := make([]string, len(tags))
		for i, tag := range tags {
			escaped[i] = html.EscapeString(tag)
		}
		b.WriteString("\n\n")
		b.WriteString(strings.Join(escaped, " "))
	}
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	b.WriteString("<b>" + label + ":</b> " + html.EscapeString(value) + "\n")
}
