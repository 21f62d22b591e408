package signaler

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func notify() chan os.Signal {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	return c
}

// WaitForInterrupt returns a channel that receives the first interrupt or
// termination signal sent to the process
func WaitForInterrupt() <-chan os.Signal {
	return notify()
}

// WithInterrupt returns a copy of ctx that is cancelled when the process
// receives an interrupt. A run in progress finishes its current tick before
// observing the cancellation
func WithInterrupt(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	sigC := notify()
	go func() {
		defer signal.Stop(sigC)
		select {
		case <-sigC:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
