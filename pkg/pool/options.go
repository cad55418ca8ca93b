package pool

import (
	"go.uber.org/zap"

	"github.com/ajitpratap0/objectpool/pkg/logger"
	"github.com/ajitpratap0/objectpool/pkg/reclaim"
)

// Option configures a pool at construction.
type Option func(*options)

type options struct {
	name      string
	logger    *zap.Logger
	observer  Observer
	reclaimer *reclaim.Reclaimer
}

// WithName sets the name used in logs and observer callbacks. Defaults to
// the variant name.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger sets the logger. Pools are silent by default.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithObserver registers an Observer for pool events.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// WithReclaimer binds a soft-reference pool to r, so that r.Reclaim drops
// every idle entry. Other variants ignore it.
func WithReclaimer(r *reclaim.Reclaimer) Option {
	return func(o *options) {
		o.reclaimer = r
	}
}

// base carries the name, logger and observer shared by every variant.
type base struct {
	name string
	log  *zap.Logger
	obs  Observer
}

func newBase(variant string, opts []Option) (base, options) {
	o := options{name: variant}
	for _, opt := range opts {
		opt(&o)
	}
	if o.observer == nil {
		o.observer = nopObserver{}
	}
	b := base{
		name: o.name,
		log:  logger.ForPool(o.logger, o.name, variant),
		obs:  o.observer,
	}
	return b, o
}
