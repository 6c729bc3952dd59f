package invoice

type Kind int

const (
	KindText Kind = iota
	KindImage
	KindRect
	KindLine
	KindPageBreak
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindRect:
		return "rect"
	case KindLine:
		return "line"
	case KindPageBreak:
		return "page-break"
	}
	return "unknown"
}

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

type Color struct{ R, G, B int }

// Instruction is one drawing step. Coordinates are millimetres from the top
// left corner of an A4 page; for lines (X2, Y2) is the end point.
type Instruction struct {
	Kind   Kind
	X, Y   float64
	X2, Y2 float64
	W, H   float64
	Text   string
	Size   float64
	Bold   bool
	Align  Align
	Fill   Color
	Image  string
}

type Document struct {
	FileName     string
	Invoice      Invoice
	Instructions []Instruction
}

// Pages counts the pages the document spans.
func (d Document) Pages() int {
	n := 1
	for _, in := range d.Instructions {
		if in.Kind == KindPageBreak {
			n++
		}
	}
	return n
}

type builder struct {
	out []Instruction
}

func (b *builder) text(s string, x, y, size float64, bold bool) {
	b.out = append(b.out, Instruction{Kind: KindText, Text: s, X: x, Y: y, Size: size, Bold: bold})
}

func (b *builder) centered(s string, x, y, size float64) {
	b.out = append(b.out, Instruction{Kind: KindText, Text: s, X: x, Y: y, Size: size, Align: AlignCenter})
}

func (b *builder) rect(x, y, w, h float64, fill Color) {
	b.out = append(b.out, Instruction{Kind: KindRect, X: x, Y: y, W: w, H: h, Fill: fill})
}

func (b *builder) line(x, y, x2, y2 float64) {
	b.out = append(b.out, Instruction{Kind: KindLine, X: x, Y: y, X2: x2, Y2: y2})
}

func (b *builder) image(path string, x, y, w, h float64) {
	b.out = append(b.out, Instruction{Kind: KindImage, Image: path, X: x, Y: y, W: w, H: h})
}

func (b *builder) pageBreak() {
	b.out = append(b.out, Instruction{Kind: KindPageBreak})
}
