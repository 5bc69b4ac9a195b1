package value

import "sync"

// IteratorChunk is one item sent by a streaming external producer (e.g.
// an HTTP response body being read incrementally). End true with no Data
// marks the stream's conclusion.
type IteratorChunk struct {
	Data string
	End  bool
}

// Iterator is a handle to a streaming external producer (spec §4.4): a
// one-way channel of string chunks, an accumulated content buffer, and a
// "done" flag, all reachable as named attributes (content, done, result).
type Iterator struct {
	mu      sync.Mutex
	rx      <-chan IteratorChunk
	content []byte
	done    bool
	result  *Dict
}

// NewIterator wraps the receive half of a streaming producer's channel.
func NewIterator(rx <-chan IteratorChunk) *Iterator {
	return &Iterator{rx: rx}
}

func (it *Iterator) Kind() Kind      { return KindIterator }
func (it *Iterator) Display() string { return "<iterator>" }
func (it *Iterator) Repr() string    { return it.Display() }

// Next blocks for the next chunk, accumulating it into the content buffer,
// and returns it as a String value. Returns (None, false) once the stream
// has ended.
func (it *Iterator) Next() (Value, bool) {
	it.mu.Lock()
	if it.done {
		it.mu.Unlock()
		return None, false
	}
	it.mu.Unlock()

	chunk, ok := <-it.rx
	if !ok || chunk.End {
		it.mu.Lock()
		it.done = true
		it.mu.Unlock()
		return None, false
	}

	it.mu.Lock()
	it.content = append(it.content, chunk.Data...)
	it.mu.Unlock()
	return NewString(chunk.Data), true
}

// SetResult stores the materialized trailing state (e.g. parsed headers)
// once the underlying producer concludes; exposed via the "result"
// attribute.
func (it *Iterator) SetResult(d *Dict) {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.result = d
}

// GetAttr resolves one of the iterator's named attributes.
func (it *Iterator) GetAttr(name string) (Value, bool) {
	it.mu.Lock()
	defer it.mu.Unlock()

	switch name {
	case "content":
		return NewString(string(it.content)), true
	case "done":
		return Bool(it.done), true
	case "result":
		if it.result == nil {
			return None, true
		}
		return it.result, true
	default:
		return nil, false
	}
}
