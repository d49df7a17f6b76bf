package irrecoverable

import (
	"context"
	"runtime"

	"github.com/rs/zerolog/log"
)

// Signaler forwards exceptions thrown by a worker goroutine to whoever supervises it.
type Signaler struct {
	errors chan<- error
}

func NewSignaler(errors chan<- error) *Signaler {
	return &Signaler{errors}
}

// Throw hands the exception to the supervisor and terminates the calling goroutine.
// It stands in for panic or log.Fatal wherever a supervisor listens on the error channel.
func (s *Signaler) Throw(err error) {
	s.errors <- err
	runtime.Goexit()
}

// SignalerContext is a context.Context through which a worker can throw exceptions.
type SignalerContext interface {
	context.Context
	Throw(err error)
	sealed() // only WithSignaler builds implementations
}

type signalerCtxt struct {
	context.Context
	signaler *Signaler
}

func (sc signalerCtxt) sealed() {}

func (sc signalerCtxt) Throw(err error) {
	sc.signaler.Throw(err)
}

// WithSignaler attaches the signaler to the context.
func WithSignaler(ctx context.Context, sig *Signaler) SignalerContext {
	return signalerCtxt{ctx, sig}
}

// WithSignalerContext derives a SignalerContext from the parent, together with the channel on which
// thrown exceptions are delivered. The channel is buffered for a single exception: a thrown
// exception ends the thrower, so a second one can only come from another worker, which then blocks
// until the supervisor reads or abandons the channel.
func WithSignalerContext(parent context.Context) (SignalerContext, <-chan error) {
	errs := make(chan error, 1)
	return WithSignaler(parent, NewSignaler(errs)), errs
}

// Throw throws the exception through ctx if ctx is a SignalerContext. Any other context cannot
// deliver it, and the process exits.
func Throw(ctx context.Context, err error) {
	signalerAbleContext, ok := ctx.(SignalerContext)
	if ok {
		signalerAbleContext.Throw(err)
	}
	log.Fatal().Err(err).Msg("irrecoverable error thrown without a signaler context")
}
