package main

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type shutdownFunc struct {
	name string
	fn   func(context.Context) error
}

// shutdownStack runs registered teardown steps in reverse order
type shutdownStack struct {
	logger  *zap.Logger
	timeout time.Duration
	funcs   []shutdownFunc
}

func newShutdownStack(logger *zap.Logger, timeout time.Duration) *shutdownStack {
	return &shutdownStack{logger: logger, timeout: timeout}
}

func (s *shutdownStack) add(name string, fn func(context.Context) error) {
	s.funcs = append(s.funcs, shutdownFunc{name: name, fn: fn})
}

func (s *shutdownStack) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	for i := len(s.funcs) - 1; i >= 0; i-- {
		f := s.funcs[i]
		if err := f.fn(ctx); err != nil {
			s.logger.Error("Error during shutdown", zap.String("step", f.name), zap.Error(err))
			continue
		}
		s.logger.Info("Stopped", zap.String("step", f.name))
	}
}
