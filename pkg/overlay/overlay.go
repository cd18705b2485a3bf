// Package overlay models the decorative badge graphic and flattens it
// into self-contained SVG markup. The badge text and its two colors are
// externally mutable; serialization resolves every themed style into
// explicit presentation attributes so the output renders with no
// external stylesheet.
package overlay

import (
	"fmt"
	"sort"
	"strings"
)

// ViewBox is the square design space of the badge graphic. The
// compositor scales it to whatever output size it renders at.
const ViewBox = 300

// Class names of the elements the badge is made of. Serialization fails
// if any of them is missing from the tree.
const (
	ClassFrame  = "badge-frame"
	ClassRibbon = "badge-ribbon"
	ClassText   = "badge-text"
)

// MissingElementError reports an absent overlay element. Callers must
// not proceed to compositing when serialization returns it.
type MissingElementError struct {
	Selector string
}

func (e *MissingElementError) Error() string {
	return fmt.Sprintf("overlay element missing: %s", e.Selector)
}

// Element is one node of the overlay tree.
type Element struct {
	Tag      string
	Class    string
	Attrs    map[string]string
	Text     string
	Children []*Element
}

// Overlay is a badge graphic with live-edited text and colors.
type Overlay struct {
	root   *Element
	text   string
	fill   string
	accent string
}

// New builds a badge overlay with the given text and colors. Colors are
// CSS hex values like "#1e90ff". The text is kept exactly as typed;
// escaping happens at serialization time.
func New(text, fill, accent string) *Overlay {
	o := &Overlay{fill: fill, accent: accent}
	o.SetText(text)
	o.root = &Element{
		Tag: "svg",
		Attrs: map[string]string{
			"xmlns":   "http://www.w3.org/2000/svg",
			"width":   "300",
			"height":  "300",
			"viewBox": "0 0 300 300",
		},
		Children: []*Element{
			{
				Tag:   "rect",
				Class: ClassFrame,
				Attrs: map[string]string{
					"x": "10", "y": "10",
					"width": "280", "height": "280",
					"rx": "24",
				},
			},
			{
				Tag:   "path",
				Class: ClassRibbon,
				Attrs: map[string]string{
					"d": "M24 206 L276 206 L276 258 L150 282 L24 258 Z",
				},
			},
			{
				Tag:   "text",
				Class: ClassText,
				Attrs: map[string]string{
					"x": "150", "y": "246",
				},
			},
		},
	}
	return o
}

// SetText replaces the badge text.
func (o *Overlay) SetText(text string) {
	o.text = text
}

// Text returns the current badge text.
func (o *Overlay) Text() string {
	return o.text
}

// SetColors replaces the badge fill and accent colors.
func (o *Overlay) SetColors(fill, accent string) {
	o.fill = fill
	o.accent = accent
}

// Colors returns the current fill and accent colors.
func (o *Overlay) Colors() (fill, accent string) {
	return o.fill, o.accent
}

// theme maps element classes to the style declarations in effect for
// the current color pair.
func (o *Overlay) theme() map[string]map[string]string {
	return map[string]map[string]string{
		ClassFrame: {
			"fill":         "none",
			"stroke":       o.fill,
			"stroke-width": "10",
		},
		ClassRibbon: {
			"fill":         o.fill,
			"stroke":       o.accent,
			"stroke-width": "3",
		},
		ClassText: {
			"fill":        o.accent,
			"font-family": "Go, sans-serif",
			"font-size":   "32px",
			"font-weight": "bold",
			"text-anchor": "middle",
		},
	}
}

// Serialize flattens the overlay into a self-contained SVG string. Each
// element's effective style (theme rules for its class plus explicit
// attributes) is written as sorted presentation attributes, so the same
// overlay state always yields the same bytes.
func (o *Overlay) Serialize() (string, error) {
	if o == nil || o.root == nil {
		return "", &MissingElementError{Selector: "svg"}
	}
	for _, class := range []string{ClassFrame, ClassRibbon, ClassText} {
		if findClass(o.root, class) == nil {
			return "", &MissingElementError{Selector: "." + class}
		}
	}

	theme := o.theme()
	var b strings.Builder
	if err := o.writeElement(&b, o.root, theme); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (o *Overlay) writeElement(b *strings.Builder, el *Element, theme map[string]map[string]string) error {
	if el == nil {
		return &MissingElementError{Selector: "(nil child)"}
	}

	// Effective attributes: theme declarations for the class first,
	// explicit attributes win on conflict. The class marker itself is
	// dropped from the output.
	resolved := make(map[string]string)
	for k, v := range theme[el.Class] {
		resolved[k] = v
	}
	for k, v := range el.Attrs {
		resolved[k] = v
	}

	keys := make([]string, 0, len(resolved))
	for k := range resolved {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b.WriteByte('<')
	b.WriteString(el.Tag)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteString(`="`)
		b.WriteString(escapeAttr(resolved[k]))
		b.WriteByte('"')
	}

	text := el.Text
	if el.Class == ClassText {
		text = o.text
	}
	if len(el.Children) == 0 && text == "" {
		b.WriteString("/>")
		return nil
	}

	b.WriteByte('>')
	b.WriteString(escapeText(text))
	for _, child := range el.Children {
		if err := o.writeElement(b, child, theme); err != nil {
			return err
		}
	}
	b.WriteString("</")
	b.WriteString(el.Tag)
	b.WriteByte('>')
	return nil
}

func findClass(el *Element, class string) *Element {
	if el == nil {
		return nil
	}
	if el.Class == class {
		return el
	}
	for _, child := range el.Children {
		if found := findClass(child, class); found != nil {
			return found
		}
	}
	return nil
}

func escapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func escapeAttr(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
