package cbor

// ValidateWellFormedBytes checks that the next item in b is well formed and
// returns the bytes after it. Length limits do not apply; nesting is bounded
// by the default MaxNesting.
func ValidateWellFormedBytes(b []byte) (rest []byte, err error) {
	d := NewDecoder(b)
	if err := d.Skip(); err != nil {
		return b, err
	}
	return d.Remaining(), nil
}

// ValidateDocument checks that b is a sequence of well-formed items with
// nothing left over.
func ValidateDocument(b []byte) error {
	return NewDecoder(b).ValidateSequence()
}

// ValidateSequence skips items until the buffer is exhausted.
func (d *Decoder) ValidateSequence() error {
	for !d.Done() {
		if err := d.Skip(); err != nil {
			return err
		}
	}
	return nil
}
