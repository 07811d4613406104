package printing

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names available to the engine
const (
	TemplateDeliveryNote = "delivery_note.html"
	TemplateMenuCard     = "menu_card.html"
)

// indonesianMonths are month names used on printed documents
var indonesianMonths = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// TemplateEngine executes the embedded document templates
type TemplateEngine struct {
	templates *template.Template
	location  *time.Location
}

// NewTemplateEngine parses the embedded templates. Dates print in loc.
func NewTemplateEngine(loc *time.Location) (*TemplateEngine, error) {
	if loc == nil {
		loc = time.UTC
	}
	e := &TemplateEngine{location: loc}
	funcs := template.FuncMap{
		"formatDate":     e.formatDate,
		"formatDateTime": e.formatDateTime,
		"formatDecimal":  formatDecimal,
		"formatInt":      formatInt,
		"title":          titleCase,
		"upper":          strings.ToUpper,
		"inc":            func(i int) int { return i + 1 },
	}
	tmpl, err := template.New("documents").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, NewRenderError(ErrCodeTemplate, "failed to parse document templates", err)
	}
	e.templates = tmpl
	return e, nil
}

// Execute renders the named template with data
func (e *TemplateEngine) Execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", NewRenderError(ErrCodeTemplate, "failed to execute template "+name, err)
	}
	return buf.String(), nil
}

// formatDate prints "16 Oktober 2026"
func (e *TemplateEngine) formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	t = t.In(e.location)
	return fmt.Sprintf("%d %s %d", t.Day(), indonesianMonths[t.Month()-1], t.Year())
}

func (e *TemplateEngine) formatDateTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	local := t.In(e.location)
	return e.formatDate(local) + " " + local.Format("15:04")
}

// formatDecimal prints d with places decimals and Indonesian separators
func formatDecimal(d decimal.Decimal, places int32) string {
	s := d.StringFixed(places)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	out := sign + groupThousands(intPart)
	if hasFrac {
		out += "," + frac
	}
	return out
}

func formatInt(n int) string {
	if n < 0 {
		return "-" + groupThousands(fmt.Sprint(-n))
	}
	return groupThousands(fmt.Sprint(n))
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func titleCase(s string) string {
	return cases.Title(language.Indonesian).String(s)
}
