package epiworld

import "fmt"

// Seq is the opaque genetic payload carried by a Virus. The kernel never
// interprets its contents; it only hashes it (via Database's hash function)
// to decide whether two Viruses share a variant, and formats it for display
// through String.
type Seq []byte

// String renders the sequence for CSV/debug output. The default rendering
// is hex; callers that want a custom alphabet (e.g. nucleotide letters)
// should format their own Seq values before constructing a Virus, since the
// kernel treats Seq as opaque bytes.
func (s Seq) String() string {
	return fmt.Sprintf("%x", []byte(s))
}

// Clone returns an independent copy of the sequence.
func (s Seq) Clone() Seq {
	out := make(Seq, len(s))
	copy(out, s)
	return out
}
