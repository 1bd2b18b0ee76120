// Package headers declares common network headers as bit layouts.
//
// The headers are ordinary layouts over the generic view layer: big-endian,
// bit 0 is the most significant bit of the first byte, exactly as the RFC
// diagrams number them. IPv4 and UDP also come with typed views whose
// accessors wrap the generic field getters and setters.
package headers
