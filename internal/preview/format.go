package preview

// Format is the closed set of supported preview canvas variants.
type Format string

const (
	FormatOpenGraph Format = "open_graph"
	FormatSquare    Format = "square"
)

// canvasSizes is the single source of truth for canvas dimensions. Adding
// a format means adding one entry here.
var canvasSizes = map[Format][2]int{
	FormatOpenGraph: {1200, 630},
	FormatSquare:    {1200, 1200},
}

// ParseFormat maps the format query parameter to a variant, defaulting to
// open_graph.
func ParseFormat(q string) Format {
	if q == string(FormatSquare) {
		return FormatSquare
	}
	return FormatOpenGraph
}

// Size returns the canvas width and height in pixels.
func (f Format) Size() (int, int) {
	s := canvasSizes[f]
	return s[0], s[1]
}

// String returns the wire token used in redirect URLs.
func (f Format) String() string { return string(f) }
