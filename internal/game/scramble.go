package game

// Scramble returns a uniform random permutation of word's letters that differs
// from word whenever such a permutation exists. Words shorter than two letters,
// or made of one repeated letter, come back unchanged.
func Scramble(word string, rng Rand) string {
	letters := []rune(word)
	if !canScramble(letters) {
		return word
	}
	for {
		shuffle(letters, rng)
		if s := string(letters); s != word {
			return s
		}
	}
}

// shuffle is an in-place Fisher–Yates: for i from last down to 1,
// swap with a uniform j in [0, i].
func shuffle(a []rune, rng Rand) {
	for i := len(a) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		a[i], a[j] = a[j], a[i]
	}
}

// canScramble reports whether at least two distinct letters exist.
func canScramble(a []rune) bool {
	for i := 1; i < len(a); i++ {
		if a[i] != a[0] {
			return true
		}
	}
	return false
}
