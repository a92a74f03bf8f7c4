package document

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strconv"

	"github.com/odyssey-erp/salesdesk/web"
)

// ptToMM converts font points to millimetres.
const ptToMM = 0.3528

// PDFClient converts rendered HTML into PDF bytes.
type PDFClient interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// Renderer turns laid out documents into HTML and PDF.
type Renderer struct {
	tpl    *template.Template
	client PDFClient
}

// NewRenderer parses the document template and wires the PDF client.
func NewRenderer(client PDFClient) (*Renderer, error) {
	if client == nil {
		return nil, fmt.Errorf("document renderer: pdf client required")
	}
	tpl, err := template.ParseFS(web.Templates, "templates/reports/document.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tpl: tpl, client: client}, nil
}

type pageData struct {
	Title  string
	Width  string
	Height string
	Pages  []pageView
}

type pageView struct {
	Elements []elementView
}

type elementView struct {
	Rule   bool
	Left   string
	Top    string
	Span   string
	Size   string
	Weight string
	Align  string
	Text   string
}

// HTML renders every page as an absolutely positioned block.
func (r *Renderer) HTML(title string, doc *Document) (string, error) {
	if r == nil || r.tpl == nil {
		return "", fmt.Errorf("document renderer not initialised")
	}
	layout := doc.Layout()
	data := pageData{Title: title, Width: mm(layout.Width), Height: mm(layout.Height)}
	for _, p := range doc.Pages() {
		view := pageView{Elements: make([]elementView, 0, len(p.Elements))}
		for _, el := range p.Elements {
			if el.Kind == KindRule {
				view.Elements = append(view.Elements, elementView{
					Rule: true,
					Left: mm(el.X),
					Top:  mm(el.Y),
					Span: mm(el.X2 - el.X),
				})
				continue
			}
			view.Elements = append(view.Elements, elementView{
				Left:   mm(el.X),
				Top:    mm(el.Y - el.Style.Size*ptToMM*0.8),
				Size:   mm(el.Style.Size),
				Weight: el.Style.Weight.String(),
				Align:  el.Style.Align.String(),
				Text:   el.Text,
			})
		}
		data.Pages = append(data.Pages, view)
	}
	buf := &bytes.Buffer{}
	if err := r.tpl.Execute(buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PDF renders the document through the PDF client.
func (r *Renderer) PDF(ctx context.Context, title string, doc *Document) ([]byte, error) {
	html, err := r.HTML(title, doc)
	if err != nil {
		return nil, err
	}
	return r.client.RenderHTML(ctx, html)
}

func mm(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
