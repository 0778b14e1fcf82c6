package qr

import (
	"bytes"
	"strings"
	"testing"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestPNG(t *testing.T) {
	data, err := PNG("S-10025", 0)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.HasPrefix(data, pngMagic) {
		t.Fatal("output is not a PNG")
	}
}

func TestFilename(t *testing.T) {
	if got := Filename("S-10025"); got != "S-10025.png" {
		t.Fatalf("filename = %q", got)
	}
}

func TestPrintDocument(t *testing.T) {
	png, err := PNG("S-10025", 128)
	if err != nil {
		t.Fatal(err)
	}
	doc := PrintDocument("Ahmed <Ali>", "S-10025", png)
	for _, want := range []string{
		"S-10025",
		"Ahmed &lt;Ali&gt;",
		"data:image/png;base64,",
		"window.print()",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("print document missing %q", want)
		}
	}
}
