package document

// Document accumulates pages as rows are written.
type Document struct {
	layout Layout
	pages  []*Page
	cursor Cursor
	style  Style
}

// New starts a document with one empty page and the cursor at the top margin.
func New(layout Layout) *Document {
	d := &Document{layout: layout, style: Style{Size: 12}}
	d.NewPage()
	return d
}

// Layout returns the page geometry.
func (d *Document) Layout() Layout {
	return d.layout
}

// Cursor returns the current write position.
func (d *Document) Cursor() Cursor {
	return d.cursor
}

// Remaining is the vertical space left above the bottom margin.
func (d *Document) Remaining() float64 {
	return d.layout.ContentBottom() - d.cursor.Y
}

// EnsureSpace starts a new page when fewer than height millimetres remain.
// It reports whether a page break happened.
func (d *Document) EnsureSpace(height float64) bool {
	if d.Remaining() >= height {
		return false
	}
	d.NewPage()
	return true
}

// NewPage appends a page and resets the cursor to the top margin.
func (d *Document) NewPage() {
	d.pages = append(d.pages, &Page{Number: len(d.pages) + 1})
	d.cursor = Cursor{X: d.layout.Margins.Left, Y: d.layout.Margins.Top, Page: len(d.pages)}
}

// Advance moves the cursor down.
func (d *Document) Advance(dy float64) {
	d.cursor.Y += dy
}

// MoveTo places the cursor at y on the current page.
func (d *Document) MoveTo(y float64) {
	d.cursor.Y = y
}

// SetStyle changes the style of subsequent text.
func (d *Document) SetStyle(style Style) {
	d.style = style
}

// SetFont changes size and weight, keeping alignment.
func (d *Document) SetFont(size float64, weight Weight) {
	d.style.Size = size
	d.style.Weight = weight
}

// Style returns the current text style.
func (d *Document) Style() Style {
	return d.style
}

// Text writes s at x on the cursor line using the current style.
func (d *Document) Text(x float64, s string) {
	d.TextAt(x, d.cursor.Y, s)
}

// TextAt writes s at an absolute position on the current page without
// moving the cursor.
func (d *Document) TextAt(x, y float64, s string) {
	d.current().Elements = append(d.current().Elements, Element{
		Kind:  KindText,
		X:     x,
		Y:     y,
		Text:  s,
		Style: d.style,
	})
}

// Centered writes s centred on the page at the cursor line.
func (d *Document) Centered(s string) {
	d.CenteredAt(d.cursor.Y, s)
}

// CenteredAt writes s centred on the page at y.
func (d *Document) CenteredAt(y float64, s string) {
	style := d.style
	d.style.Align = AlignCenter
	d.TextAt(d.layout.Center(), y, s)
	d.style = style
}

// Rule draws a horizontal line across the content width at the cursor line.
func (d *Document) Rule() {
	d.RuleAt(d.cursor.Y)
}

// RuleAt draws a horizontal line across the content width at y.
func (d *Document) RuleAt(y float64) {
	d.current().Elements = append(d.current().Elements, Element{
		Kind: KindRule,
		X:    d.layout.Margins.Left,
		X2:   d.layout.ContentRight(),
		Y:    y,
	})
}

// Cell is one column of a table row.
type Cell struct {
	X    float64
	Text string
}

// Row reserves height, writes the cells on one line and advances by height.
func (d *Document) Row(height float64, cells ...Cell) {
	d.EnsureSpace(height)
	for _, c := range cells {
		d.Text(c.X, c.Text)
	}
	d.Advance(height)
}

// Pages returns a copy of the laid out pages.
func (d *Document) Pages() []Page {
	out := make([]Page, len(d.pages))
	for i, p := range d.pages {
		elements := make([]Element, len(p.Elements))
		copy(elements, p.Elements)
		out[i] = Page{Number: p.Number, Elements: elements}
	}
	return out
}

// PageCount reports the number of pages.
func (d *Document) PageCount() int {
	return len(d.pages)
}

func (d *Document) current() *Page {
	return d.pages[len(d.pages)-1]
}
