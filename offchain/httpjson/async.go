package httpjson

import (
	"context"

	"golang.org/x/sync/semaphore"

	"github.com/Abdullah1738/solana-esp-go/offchain/solanarpc"
)

// Async runs exchanges in the background. At most `slots` exchanges are on
// the wire at once; with one slot, I/O is serialized the way a single-threaded
// cooperative scheduler would run it, while callers stay free to compile and
// sign between Await points.
type Async struct {
	t   *Transport
	sem *semaphore.Weighted
}

var _ solanarpc.AsyncTransport = (*Async)(nil)

func NewAsync(t *Transport, slots int64) *Async {
	if slots < 1 {
		slots = 1
	}
	return &Async{t: t, sem: semaphore.NewWeighted(slots)}
}

func (a *Async) StartPostJSON(ctx context.Context, url string, body, resp []byte) *solanarpc.Pending {
	p := solanarpc.NewPending()
	go func() {
		if err := a.sem.Acquire(ctx, 1); err != nil {
			p.Resolve(nil, &solanarpc.NetworkError{Err: err})
			return
		}
		defer a.sem.Release(1)
		p.Resolve(a.t.post(ctx, "async", url, body, resp))
	}()
	return p
}
