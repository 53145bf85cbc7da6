package render

// Sink receives the primitive output operations of a frame. Operations may
// be buffered until Flush.
type Sink interface {
	// Clear blanks the whole display
	Clear()
	// MoveTo positions the output cursor, 0-based
	MoveTo(x, y int)
	// SetStyle resets attributes and applies s to following glyphs
	SetStyle(s Style)
	// PutGlyph writes one glyph and advances the cursor by its width
	PutGlyph(r rune)
	// Flush presents everything written since the last flush
	Flush() error
}
