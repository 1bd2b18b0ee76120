// Package bitops provides the limb-level field access primitives shared by the
// wide, layout and record packages.
//
// # Contents
//
//   - mask.go: masks, sign extension and byte swapping on single words
//   - limbs.go: extract/insert of fields that may straddle two 64-bit limbs
//
// This package is internal to the module.
package bitops
