package tth

import "github.com/direct-connect/go-tth/tiger"

// Part is a contiguous range of the file owned by a single worker.
type Part struct {
	First, Last int64 // leaf indexes, [First, Last)
	Start, End  int64 // byte offsets, [Start, End)
}

// Leaves returns the number of leaves in the part.
func (p Part) Leaves() int64 { return p.Last - p.First }

// Partition splits the file of a given size into contiguous parts for a given number of workers.
//
// Every leaf belongs to exactly one part, and parts are ordered by the file offset.
// Leaves are distributed evenly: first parts receive one extra leaf if the count is not divisible.
// The number of parts never exceeds the number of leaves. Empty file has no parts.
func Partition(size int64, workers int) []Part {
	if size <= 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	n := tiger.LeafCount(size)
	if int64(workers) > n {
		workers = int(n)
	}
	base, rem := n/int64(workers), n%int64(workers)
	parts := make([]Part, workers)
	var first int64
	for i := range parts {
		last := first + base
		if int64(i) < rem {
			last++
		}
		end := last * tiger.LeafSize
		if end > size {
			end = size
		}
		parts[i] = Part{
			First: first, Last: last,
			Start: first * tiger.LeafSize, End: end,
		}
		first = last
	}
	return parts
}
