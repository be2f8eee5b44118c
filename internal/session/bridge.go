package session

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"cinedex-backend-go/internal/events"
)

var (
	ErrBridgeRunning = errors.New("session bridge already running")
	ErrStreamClosed  = errors.New("identity state stream closed")
)

// Bridge drives every user's Store from the identity state-change stream:
//
//	signed_out --signed_in--> loading --loads settle--> ready
//	any        --signed_out-> signed_out (store dropped)
//
// Events are handled one at a time in arrival order; the loads themselves
// run in the background so a slow user does not hold up the stream.
type Bridge struct {
	sub         events.Subscriber
	registry    *Registry
	recs        Invalidator
	loadTimeout time.Duration
	logger      *zap.Logger
	running     atomic.Bool
}

func NewBridge(sub events.Subscriber, registry *Registry, recs Invalidator, loadTimeout time.Duration, logger *zap.Logger) *Bridge {
	if loadTimeout <= 0 {
		loadTimeout = 15 * time.Second
	}
	return &Bridge{
		sub:         sub,
		registry:    registry,
		recs:        recs,
		loadTimeout: loadTimeout,
		logger:      logger.Named("bridge"),
	}
}

// Run subscribes once and handles events until ctx is done or the stream ends.
func (b *Bridge) Run(ctx context.Context) error {
	ch, err := b.Subscribe(ctx)
	if err != nil {
		return err
	}
	return b.Serve(ctx, ch)
}

// Subscribe attaches the bridge to the stream. Callers that must not miss
// events published during startup subscribe before serving traffic and
// then hand the channel to Serve.
func (b *Bridge) Subscribe(ctx context.Context) (<-chan events.StateChange, error) {
	if !b.running.CompareAndSwap(false, true) {
		return nil, ErrBridgeRunning
	}
	ch, err := b.sub.Subscribe(ctx)
	if err != nil {
		b.running.Store(false)
		return nil, err
	}
	b.logger.Info("Session bridge subscribed to identity state changes")
	return ch, nil
}

// Serve handles events from ch in arrival order. It returns ctx.Err() on
// shutdown and ErrStreamClosed if the stream ends on its own.
func (b *Bridge) Serve(ctx context.Context, ch <-chan events.StateChange) error {
	for ev := range ch {
		b.Handle(ctx, ev)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return ErrStreamClosed
}

// Handle applies one state change.
func (b *Bridge) Handle(ctx context.Context, ev events.StateChange) {
	if ev.UserID == "" {
		return
	}
	switch ev.Kind {
	case events.KindSignedIn:
		store := b.registry.Open(ev.UserID)
		gen, ok := store.beginLoading(Identity{UserID: ev.UserID, Email: ev.Email})
		if !ok {
			b.logger.Debug("Load already in flight", zap.String("user_id", ev.UserID))
			return
		}
		go func() {
			loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.loadTimeout)
			defer cancel()
			store.load(loadCtx, gen, ev.UserID)
		}()
	case events.KindSignedOut:
		if store, ok := b.registry.Get(ev.UserID); ok {
			store.reset()
			b.registry.Drop(ev.UserID, store)
		}
		b.recs.Invalidate(ev.UserID)
		b.logger.Debug("Session cleared", zap.String("user_id", ev.UserID))
	default:
		b.logger.Warn("Unknown state change", zap.String("kind", string(ev.Kind)))
	}
}
