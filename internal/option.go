package internal

import (
	"sync"

	"github.com/starford/herald/internal/digest"
	"github.com/starford/herald/internal/mailer"
	"github.com/starford/herald/internal/store"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config   *Config
	source   store.Source
	resolver digest.Resolver
	notifier mailer.Notifier
	dryRun   bool

	ownsSource bool       // source was opened here, close it on exit
	runMu      sync.Mutex // serializes digest cycles
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithSource overrides the quest/labor snapshot source. Used by tests.
func WithSource(s store.Source) Option {
	return func(a *application) {
		a.source = s
	}
}

// WithResolver overrides the host metadata resolver. Used by tests.
func WithResolver(r digest.Resolver) Option {
	return func(a *application) {
		a.resolver = r
	}
}

// WithNotifier overrides the outbound notifier. Used by tests.
func WithNotifier(n mailer.Notifier) Option {
	return func(a *application) {
		a.notifier = n
	}
}

// WithDryRun logs digests instead of sending them.
func WithDryRun(enabled bool) Option {
	return func(a *application) {
		a.dryRun = enabled
	}
}
