// tilepack packs rectangles (sprites, glyphs, UI pieces) into a single
// near-minimal bin and writes the placements as a manifest, report,
// preview or composed atlas image.
//
// Build:
//
//	go build -o tilepack ./cmd/tilepack
package main

func main() {
	execute()
}
