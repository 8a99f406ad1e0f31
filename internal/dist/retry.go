package dist

// Attempt calls draw until it reports success, at most max times. It returns
// false when every attempt was rejected, including when max is zero; the
// caller then falls back to its deterministic clamp instead of sampling
// further.
func Attempt(max int, draw func() bool) bool {
	for i := 0; i < max; i++ {
		if draw() {
			return true
		}
	}
	return false
}
