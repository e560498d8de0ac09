package matcher

// SimilarText counts the characters shared by a and b: the longest common
// substring plus, recursively, the shared characters left and right of it.
// It works on bytes.
func SimilarText(a, b string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	pos1, pos2, longest := longestCommonSubstring(a, b)
	if longest == 0 {
		return 0
	}

	sum := longest
	if pos1 > 0 && pos2 > 0 {
		sum += SimilarText(a[:pos1], b[:pos2])
	}
	if pos1+longest < len(a) && pos2+longest < len(b) {
		sum += SimilarText(a[pos1+longest:], b[pos2+longest:])
	}
	return sum
}

// SimilarityPercent is SimilarText scaled to the combined length, 0 to 100
func SimilarityPercent(a, b string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 0
	}
	return float64(SimilarText(a, b)*2) * 100 / float64(total)
}

// longestCommonSubstring keeps the first occurrence of the longest run
func longestCommonSubstring(a, b string) (int, int, int) {
	var pos1, pos2, longest int
	for i := 0; i < len(a); i++ {
		for j := 0; j < len(b); j++ {
			k := 0
			for i+k < len(a) && j+k < len(b) && a[i+k] == b[j+k] {
				k++
			}
			if k > longest {
				pos1, pos2, longest = i, j, k
			}
		}
	}
	return pos1, pos2, longest
}
