package memwatch

// TreeRSS returns the resident set size, in bytes, of t plus all of its
// live descendants, recursively.
//
// A process tree is inherently racy: processes may exit between being
// enumerated and being queried. A root that is gone or inaccessible counts
// as zero, and a descendant that is gone or inaccessible is skipped without
// aborting the rest of the sum.
func TreeRSS(t Target) uint64 {
	info, err := t.MemoryInfo()
	if err != nil {
		return 0
	}
	total := info.RSS

	children, err := t.Children()
	if err != nil {
		return total
	}
	for _, child := range children {
		total += TreeRSS(child)
	}
	return total
}
