package feed

// paginator yields the fetch descriptors of one feed build: every
// batch of the catalog in order, or exactly one caller-selected page.
// Finite, lazy, not restartable. Batches are fetched one after the
// other so peak memory stays bounded to a single batch's working set.
type paginator struct {
	size int
	next int
	last int
}

// newPaginator takes the catalog's product count, a batch size (the
// default applies when size <= 0) and an optional 1-based page
func newPaginator(total, size, page int) *paginator {
	if size <= 0 {
		size = DefaultBatchSize
	}

	p := &paginator{size: size}
	if page > 0 {
		p.next = page - 1
		p.last = page - 1
		return p
	}

	batches := (total + size - 1) / size
	p.next = 0
	p.last = batches - 1
	return p
}

// Next returns the following (offset, take) descriptor; ok is false
// once the sequence is exhausted
func (p *paginator) Next() (offset, take int, ok bool) {
	if p.next > p.last {
		return 0, 0, false
	}

	offset = p.next * p.size
	take = p.size
	p.next++
	return offset, take, true
}

// Remaining returns how many batches are still to be fetched
func (p *paginator) Remaining() int {
	if p.next > p.last {
		return 0
	}
	return p.last - p.next + 1
}
