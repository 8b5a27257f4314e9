package annotate

// Entry is one batch member: a hit identifier and the ordered byte
// ranges of every alignment that referenced it within the batch.
// Carrying all coordinates (rather than the last seen one) preserves
// one raw record per alignment, not per identifier.
type Entry struct {
	Md5    string
	Coords []Coordinate
}

// Batch is one window of distinct hit identifiers, in first-seen
// (offset) order. Batches are processed and discarded before the next
// one is built, bounding peak memory to O(chunk size) entries.
type Batch struct {
	entries []Entry
	index   map[string]int
}

// Entries returns the batch members in first-seen order.
func (b *Batch) Entries() []Entry {
	return b.entries
}

// Md5s returns the distinct hit identifiers of the batch, in order.
func (b *Batch) Md5s() []string {
	res := make([]string, len(b.entries))
	for i, e := range b.entries {
		res[i] = e.Md5
	}
	return res
}

// Len returns the number of distinct identifiers in the batch.
func (b *Batch) Len() int {
	return len(b.entries)
}

// Batcher groups cursor rows into batches of at most chunkSize distinct
// identifiers. Duplicate identifiers within a batch accumulate their
// coordinates instead of overwriting them; exact duplicate coordinates
// collapse to one.
type Batcher struct {
	chunkSize int
	cur       *Batch
}

// NewBatcher creates a Batcher with the given chunk size.
// Sizes below one fall back to a single-identifier window.
func NewBatcher(chunkSize int) *Batcher {
	if chunkSize < 1 {
		chunkSize = 1
	}
	return &Batcher{chunkSize: chunkSize, cur: newBatch()}
}

func newBatch() *Batch {
	return &Batch{index: make(map[string]int)}
}

// Add inserts one candidate row. When the insertion fills the current
// window a completed batch is returned and a fresh one started;
// otherwise Add returns nil.
func (b *Batcher) Add(row CandidateRow) *Batch {
	coord := Coordinate{Offset: row.Offset, Length: row.Length}
	if i, ok := b.cur.index[row.Md5]; ok {
		e := &b.cur.entries[i]
		if !hasCoord(e.Coords, coord) {
			e.Coords = append(e.Coords, coord)
		}
		return nil
	}
	b.cur.index[row.Md5] = len(b.cur.entries)
	b.cur.entries = append(b.cur.entries, Entry{
		Md5:    row.Md5,
		Coords: []Coordinate{coord},
	})
	if len(b.cur.entries) < b.chunkSize {
		return nil
	}
	done := b.cur
	b.cur = newBatch()
	return done
}

// Flush returns the final partial batch, or nil when it is empty.
// Called once at cursor exhaustion.
func (b *Batcher) Flush() *Batch {
	if len(b.cur.entries) == 0 {
		return nil
	}
	done := b.cur
	b.cur = newBatch()
	return done
}

func hasCoord(coords []Coordinate, c Coordinate) bool {
	for _, have := range coords {
		if have == c {
			return true
		}
	}
	return false
}
