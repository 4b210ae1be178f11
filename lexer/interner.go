package lexer

// Interner deduplicates repeated token text (account segments, commodity
// codes, metadata keys) so the parser and interpreter can compare strings
// by value without re-allocating for every occurrence. Grounded on the
// teacher's zero-copy lexer design, which pairs a byte-offset token stream
// with a string interning pool.
type Interner struct {
	pool map[string]string
}

// NewInterner creates an Interner with capacity hints for the expected
// number of distinct strings.
func NewInterner(capacityHint int) *Interner {
	if capacityHint < 16 {
		capacityHint = 16
	}
	return &Interner{pool: make(map[string]string, capacityHint)}
}

// Intern returns the canonical copy of s, storing s itself the first time
// it is seen.
func (in *Interner) Intern(s string) string {
	if existing, ok := in.pool[s]; ok {
		return existing
	}
	in.pool[s] = s
	return s
}
