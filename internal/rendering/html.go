package rendering

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/persona-studio/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

// CardBackground is the background color of a persona card, also used when rasterizing it.
const CardBackground = "#1f2937"

var cardIDUnsafe = regexp.MustCompile(`[^A-Za-z0-9_-]`)

var pages = template.Must(template.New("").Funcs(template.FuncMap{
	"cardID":   CardID,
	"imageURL": imageURL,
	"inc":      func(i int) int { return i + 1 },
}).ParseFS(templateFS, "templates/*.html"))

// Document is a rendered HTML page.
type Document struct {
	Title string
	HTML  string
}

// FormData is the data shown on the submission form.
type FormData struct {
	Action        string
	Input         types.CompanyInput
	Error         string
	MaxFiles      int
	MaxFileSizeMB int
	Accept        string
}

// CardID returns the DOM id of the card that displays a persona.
func CardID(personaID string) string {
	return "persona-card-" + cardIDUnsafe.ReplaceAllString(personaID, "-")
}

// imageURL passes generated data URLs and http(s) URLs through to src attributes.
func imageURL(ref string) template.URL {
	if strings.HasPrefix(ref, "data:image/") || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "http://") {
		return template.URL(ref) //nolint:gosec // only image data URLs and web URLs reach here
	}
	return template.URL("about:blank")
}

// RenderCard renders a page holding a single persona card.
func RenderCard(p types.Persona) (Document, error) {
	return execute("card.html", p.Name, p)
}

// RenderResults renders every persona of a submission. exportBase, when not empty, is the URL
// prefix under which "<persona id>/export" links are generated.
func RenderResults(sub *types.Submission, exportBase string) (Document, error) {
	if sub == nil {
		return Document{}, &RenderError{Message: "no submission to render"}
	}
	title := fmt.Sprintf("Personas for %s", sub.Input.Name)
	return execute("results.html", title, struct {
		Title      string
		Advisory   string
		Personas   []types.Persona
		ExportBase string
	}{title, sub.Advisory, sub.Personas, exportBase})
}

// RenderForm renders the submission form.
func RenderForm(data FormData) (Document, error) {
	return execute("form.html", "Persona Studio", data)
}

func execute(name, title string, data any) (Document, error) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		return Document{}, &TemplateError{Message: fmt.Sprintf("failed to execute %s", name), Cause: err}
	}
	return Document{Title: title, HTML: buf.String()}, nil
}

// FindRegion returns the element with the given id, or false when the document has none.
func FindRegion(doc Document, id string) (*goquery.Selection, bool, error) {
	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(doc.HTML))
	if err != nil {
		return nil, false, &RenderError{Message: "failed to parse document", Cause: err}
	}
	sel := parsed.Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr("id")
		return v == id
	})
	if sel.Length() == 0 {
		return nil, false, nil
	}
	return sel.First(), true, nil
}
