// Package qr renders student identifier QR codes and the printable badge
// view. The encoded payload is always the bare canonical student ID; the
// normalizer's rejection rules depend on codes never carrying JSON or URLs.
package qr

import (
	"encoding/base64"
	"fmt"
	"html"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the edge length in pixels of a generated code.
const DefaultSize = 256

// PNG encodes a canonical student ID as a QR code raster image.
func PNG(studentID string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	return qrcode.Encode(studentID, qrcode.Medium, size)
}

// Filename returns the download name for a student's code image.
func Filename(studentID string) string {
	return studentID + ".png"
}

// PrintDocument builds a self-contained HTML page showing the student name,
// ID and code image, and triggers the print dialog on load. The image is
// inlined so the popup needs no further requests.
func PrintDocument(name, studentID string, png []byte) string {
	img := base64.StdEncoding.EncodeToString(png)
	return fmt.Sprintf(`<!DOCTYPE html>
<html dir="rtl">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; text-align: center; padding: 2em; }
img { width: %dpx; height: %dpx; }
.sid { font-size: 1.4em; letter-spacing: 1px; }
</style>
</head>
<body>
<h1>%s</h1>
<p class="sid">%s</p>
<img src="data:image/png;base64,%s" alt="%s">
<script>window.onload = function () { window.print(); };</script>
</body>
</html>
`, html.EscapeString(studentID), DefaultSize, DefaultSize,
		html.EscapeString(name), html.EscapeString(studentID), img, html.EscapeString(studentID))
}
