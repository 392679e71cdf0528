package service

// SectionsPerQuiz is the number of page groups a selection is split into,
// and therefore the maximum number of questions in one quiz.
const SectionsPerQuiz = 10

// Partition splits pages into k contiguous groups in input order.
// Group sizes differ by at most one and the first len(pages)%k groups get
// the extra element. When there are fewer pages than groups the trailing
// groups are empty.
func Partition(pages []int, k int) [][]int {
	if k <= 0 {
		return nil
	}

	groups := make([][]int, k)
	size, extra := len(pages)/k, len(pages)%k

	start := 0
	for i := range groups {
		n := size
		if i < extra {
			n++
		}
		groups[i] = pages[start : start+n : start+n]
		start += n
	}

	return groups
}
