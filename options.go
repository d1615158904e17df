// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package localevent

import (
	"fmt"

	"github.com/joeycumines/logiface"
)

// eventOptions holds configuration options for Event creation.
type eventOptions struct {
	logger   *logiface.Logger[logiface.Event]
	capacity int
}

// --- Event Options ---

// Option configures an Event instance.
type Option interface {
	applyEvent(*eventOptions) error
}

// optionImpl implements Option.
type optionImpl struct {
	applyEventFunc func(*eventOptions) error
}

func (o *optionImpl) applyEvent(opts *eventOptions) error {
	return o.applyEventFunc(opts)
}

// WithLogger attaches a structured logger used for trace/debug diagnostics
// of registration, notification, forwarding, and retraction decisions.
// A nil logger disables logging, which is also the default.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(opts *eventOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithCapacity preallocates arena capacity for the expected number of
// concurrent waiters, avoiding slab growth on the first registrations.
// Zero (the default) defers all allocation to the first Listen.
func WithCapacity(capacity int) Option {
	return &optionImpl{func(opts *eventOptions) error {
		if capacity < 0 {
			return fmt.Errorf("localevent: negative capacity: %d", capacity)
		}
		opts.capacity = capacity
		return nil
	}}
}

// resolveOptions applies Option instances to eventOptions.
func resolveOptions(opts []Option) (*eventOptions, error) {
	cfg := &eventOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue // Skip nil options gracefully
		}
		if err := opt.applyEvent(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
