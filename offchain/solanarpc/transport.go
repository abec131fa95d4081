package solanarpc

import (
	"context"
	"sync"
)

// Transport performs one blocking JSON POST. The reply is read into resp and
// the filled prefix of resp is returned. Implementations must not retain
// body or resp after returning.
type Transport interface {
	PostJSON(ctx context.Context, url string, body, resp []byte) ([]byte, error)
}

type TransportFunc func(ctx context.Context, url string, body, resp []byte) ([]byte, error)

func (f TransportFunc) PostJSON(ctx context.Context, url string, body, resp []byte) ([]byte, error) {
	return f(ctx, url, body, resp)
}

// AsyncTransport starts a JSON POST and returns at once. The exchange may
// use body and resp until the returned Pending is resolved.
type AsyncTransport interface {
	StartPostJSON(ctx context.Context, url string, body, resp []byte) *Pending
}

// Pending is the completion handle of an asynchronous exchange.
type Pending struct {
	done chan struct{}
	once sync.Once
	body []byte
	err  error
}

func NewPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

// Resolve completes p. Only the first call has an effect.
func (p *Pending) Resolve(body []byte, err error) {
	p.once.Do(func() {
		p.body, p.err = body, err
		close(p.done)
	})
}

// Wait blocks until p is resolved or ctx ends.
func (p *Pending) Wait(ctx context.Context) ([]byte, error) {
	select {
	case <-p.done:
		return p.body, p.err
	case <-ctx.Done():
		return nil, &NetworkError{Err: ctx.Err()}
	}
}

// Blocking adapts a Transport to AsyncTransport by running each exchange on
// its own goroutine.
func Blocking(t Transport) AsyncTransport {
	return blockingAsync{t: t}
}

type blockingAsync struct{ t Transport }

func (b blockingAsync) StartPostJSON(ctx context.Context, url string, body, resp []byte) *Pending {
	p := NewPending()
	go func() {
		p.Resolve(b.t.PostJSON(ctx, url, body, resp))
	}()
	return p
}
