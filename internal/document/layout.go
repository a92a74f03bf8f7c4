// Package document lays out paginated text documents on A4 pages. Layout is
// single-goroutine: callers reserve vertical space with EnsureSpace before
// each row, write it, then advance the cursor.
package document

// Margins in millimetres.
type Margins struct {
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
}

// Layout describes the page geometry in millimetres.
type Layout struct {
	Width   float64
	Height  float64
	Margins Margins
}

// A4 is the portrait A4 page used for reports and invoices.
var A4 = Layout{
	Width:   210,
	Height:  297,
	Margins: Margins{Top: 30, Bottom: 20, Left: 20, Right: 20},
}

// ContentBottom is the lowest Y a row may reach.
func (l Layout) ContentBottom() float64 {
	return l.Height - l.Margins.Bottom
}

// ContentRight is the right edge of the writable area.
func (l Layout) ContentRight() float64 {
	return l.Width - l.Margins.Right
}

// Center is the horizontal middle of the page.
func (l Layout) Center() float64 {
	return l.Width / 2
}

// Weight selects the font face.
type Weight int

const (
	Normal Weight = iota
	Bold
	Italic
)

func (w Weight) String() string {
	switch w {
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	default:
		return "normal"
	}
}

// Align anchors text relative to its X coordinate.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// Style is the text state applied to new elements. Size is in points.
type Style struct {
	Size   float64
	Weight Weight
	Align  Align
}

// ElementKind distinguishes text from horizontal rules.
type ElementKind int

const (
	KindText ElementKind = iota
	KindRule
)

// Element is one positioned item. Y is the text baseline or the rule line.
// X2 is only used by rules.
type Element struct {
	Kind  ElementKind
	X     float64
	X2    float64
	Y     float64
	Text  string
	Style Style
}

// Page is an ordered list of elements.
type Page struct {
	Number   int
	Elements []Element
}

// Texts returns the text of every text element in write order.
func (p Page) Texts() []string {
	var out []string
	for _, el := range p.Elements {
		if el.Kind == KindText {
			out = append(out, el.Text)
		}
	}
	return out
}

// Cursor is the current write position.
type Cursor struct {
	X    float64
	Y    float64
	Page int
}
