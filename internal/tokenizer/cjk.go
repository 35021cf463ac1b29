package tokenizer

// ContainsCJK reports whether s contains at least one CJK ideograph in the
// U+4E00..U+9FA5 range.
func ContainsCJK(s string) bool {
	for _, r := range s {
		if r >= 0x4e00 && r <= 0x9fa5 {
			return true
		}
	}
	return false
}
