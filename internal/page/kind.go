package page

import (
	"fmt"
	"strings"
)

// Kind is the file kind of a page, derived from its extension.
// Values are always lower-case.
type Kind string

const (
	// KindInDesign is the document-source kind (InDesign files).
	KindInDesign Kind = "indd"
	// KindPDF is the rendered-output kind.
	KindPDF Kind = "pdf"
)

// Kinds lists the recognised kinds in comparison order.
var Kinds = []Kind{KindInDesign, KindPDF}

// ParseKind maps an extension (with or without the leading dot, any case)
// to a Kind.
func ParseKind(ext string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimPrefix(ext, ".")))
	switch k {
	case KindInDesign, KindPDF:
		return k, nil
	default:
		return "", fmt.Errorf("unsupported extension %q", ext)
	}
}

// Extension returns the kind as a file extension, including the dot.
func (k Kind) Extension() string {
	return "." + string(k)
}

// String returns the kind's name.
func (k Kind) String() string {
	return string(k)
}
