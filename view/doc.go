// Package view addresses layout fields directly inside borrowed byte buffers.
//
// A View never copies: reads and writes go straight to the bytes it was
// built over, and every View or sub-view over the same bytes observes the
// others' writes immediately. Equality between views is identity (Same), not
// content.
//
// # Addressing
//
// Nominal bit p of a view lives in byte p/8 of its span. Within that byte,
// Bit0IsLsb numbering uses mask 1<<(p%8) and Bit0IsMsb numbering uses mask
// 0x80>>(p%8). A field is assembled from the chunks it covers in each byte:
// with big-endian order earlier bytes are more significant, with
// little-endian order later bytes are. A field type carrying its own byte
// order overrides the layout default for that field only.
//
// Sub-views start at the parent origin plus the field offset, which need not
// be byte aligned.
//
// Views are not synchronized. Callers sharing a buffer between goroutines
// must serialize access themselves.
package view
