package value

import (
	"fmt"
	"sync/atomic"
)

// GeneratorMessage is the message carried over a generator's bounded
// channel (spec §4.4): either a yielded value plus a one-shot resume
// signal the consumer must close to let the producer continue, or a
// sentinel marking the body's completion.
type GeneratorMessage struct {
	Done   bool
	Value  Value
	Resume chan struct{}
}

// Generator is the consumer-facing handle to a running coroutine task. The
// channel has capacity 1 and the producer blocks on Resume after every
// send, so exactly one value is ever in flight (spec §4.4's ordering
// guarantee).
type Generator struct {
	rx   <-chan GeneratorMessage
	done atomic.Bool
	Name string
}

// NewGenerator wraps the receive half of a generator's message channel.
func NewGenerator(rx <-chan GeneratorMessage, name string) *Generator {
	return &Generator{rx: rx, Name: name}
}

func (g *Generator) Kind() Kind      { return KindGenerator }
func (g *Generator) Display() string { return fmt.Sprintf("<generator %s>", g.Name) }
func (g *Generator) Repr() string    { return g.Display() }

// Next blocks for the producer's next message. On a yielded value it
// signals Resume (unblocking the producer) and returns (value, true). On
// completion or channel closure it marks the generator done and returns
// (None, false). Once done, further calls return immediately without
// touching the channel (spec §4.4).
func (g *Generator) Next() (Value, bool) {
	if g.done.Load() {
		return None, false
	}

	msg, ok := <-g.rx
	if !ok || msg.Done {
		g.done.Store(true)
		return None, false
	}

	close(msg.Resume)
	return msg.Value, true
}

// IsDone reports whether the generator has been fully consumed.
func (g *Generator) IsDone() bool { return g.done.Load() }
