package common

// WipeByteArray overwrites b with zeros. Used for password buffers read from
// the terminal once they have been sent.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// StringOr returns *s when it is set and non-empty, otherwise fallback.
func StringOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
