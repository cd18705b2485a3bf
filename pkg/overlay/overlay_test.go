package overlay

import (
	"errors"
	"strings"
	"testing"
)

func TestSerializeDeterministic(t *testing.T) {
	o := New("SPEAKER", "#1e90ff", "#ffffff")

	first, err := o.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	second, err := o.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	if first != second {
		t.Error("expected identical bytes for the same overlay state")
	}
}

func TestSerializeInlinesStyles(t *testing.T) {
	o := New("SPEAKER", "#1e90ff", "#ffcc00")

	markup, err := o.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	for _, want := range []string{
		`fill="#1e90ff"`,
		`stroke="#ffcc00"`,
		`text-anchor="middle"`,
		`font-weight="bold"`,
		">SPEAKER</text>",
	} {
		if !strings.Contains(markup, want) {
			t.Errorf("expected serialized markup to contain %s", want)
		}
	}

	// Self-contained output: no class markers, no external references.
	if strings.Contains(markup, "class=") {
		t.Error("expected class markers to be resolved away")
	}
	if strings.Contains(markup, "<style") || strings.Contains(markup, "url(") {
		t.Error("expected no external style references")
	}
}

func TestSerializeReflectsMutation(t *testing.T) {
	o := New("BEFORE", "#111111", "#222222")
	o.SetText("AFTER")
	o.SetColors("#333333", "#444444")

	markup, err := o.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if strings.Contains(markup, "BEFORE") || strings.Contains(markup, "#111111") {
		t.Error("expected stale text/colors to be gone")
	}
	if !strings.Contains(markup, ">AFTER</text>") || !strings.Contains(markup, `fill="#333333"`) {
		t.Error("expected updated text and colors in the markup")
	}
}

func TestSerializeEscapesText(t *testing.T) {
	o := New("<R&D>", "#000000", "#ffffff")

	markup, err := o.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if !strings.Contains(markup, "&lt;R&amp;D&gt;") {
		t.Errorf("expected escaped text in markup, got %s", markup)
	}
}

func TestSerializeMissingElement(t *testing.T) {
	o := New("SPEAKER", "#1e90ff", "#ffffff")

	// Drop the text element out of the tree.
	o.root.Children = o.root.Children[:2]

	_, err := o.Serialize()
	var missing *MissingElementError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingElementError, got %v", err)
	}
	if missing.Selector != "."+ClassText {
		t.Errorf("expected selector .%s, got %s", ClassText, missing.Selector)
	}
}

func TestSerializeNilOverlay(t *testing.T) {
	var o *Overlay
	if _, err := o.Serialize(); err == nil {
		t.Error("expected an error for a nil overlay")
	}
}

func TestDataURIRoundTripMultiByte(t *testing.T) {
	o := New("GRÜẞE ☃", "#1e90ff", "#ffffff")

	markup, err := o.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	decoded, err := DecodeDataURI(EncodeDataURI(markup))
	if err != nil {
		t.Fatalf("DecodeDataURI failed: %v", err)
	}
	if string(decoded) != markup {
		t.Error("expected markup to round-trip losslessly through the data URI")
	}
	if !strings.Contains(string(decoded), "GRÜẞE ☃") {
		t.Error("expected multi-byte badge text to survive the round trip")
	}
}

func TestEncodeDataURIEscapesReserved(t *testing.T) {
	uri := EncodeDataURI(`<svg fill="#fff"/>`)

	if !strings.HasPrefix(uri, DataURIPrefix) {
		t.Fatalf("expected SVG data URI prefix, got %s", uri)
	}
	payload := uri[len(DataURIPrefix):]
	for _, banned := range []string{"<", ">", `"`, "#", " "} {
		if strings.Contains(payload, banned) {
			t.Errorf("expected %q to be percent-encoded", banned)
		}
	}
}

func TestDecodeDataURIRejectsNonSVG(t *testing.T) {
	if _, err := DecodeDataURI("data:image/png;base64,AAAA"); err == nil {
		t.Error("expected an error for a non-SVG data URI")
	}
	if _, err := DecodeDataURI(DataURIPrefix + "%zz"); err == nil {
		t.Error("expected an error for malformed percent-encoding")
	}
}
