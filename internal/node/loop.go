package node

import (
	"context"

	"chorddht/internal/logger"
	"chorddht/internal/ring"
	"chorddht/internal/transport"
	"chorddht/internal/wire"
)

// Run is the steady-state message loop (spec §4.1): it must only be
// called after Join or CreateNewDHT has set inside_dht. It blocks until
// ctx is cancelled or Stop is called, receiving one datagram at a time
// with a bounded timeout and dispatching on the method tag. A timeout is
// not an error — it is the stabilization tick. No handler below runs
// concurrently with another; this goroutine is the single writer of all
// ring state.
func (n *Node) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			n.lgr.Info("message loop stopping: context cancelled")
			return
		case <-n.shutdown:
			n.lgr.Info("message loop stopping: shutdown requested")
			return
		default:
		}

		env, from, err := n.tr.ReceiveTimeout(n.receiveTimeout)
		if err != nil {
			if transport.IsTimeout(err) {
				n.stabilizeTick()
				continue
			}
			n.lgr.Warn("receive failed, dropping", logger.F("err", err.Error()))
			continue
		}
		n.dispatch(ctx, env, from)
	}
}

// dispatch routes one decoded envelope to its handler. Unknown methods
// are ignored (spec §4.1); malformed payloads are logged and dropped
// rather than propagated as errors (spec §7).
func (n *Node) dispatch(ctx context.Context, env wire.Envelope, from string) {
	switch env.Method {
	case wire.JoinReq:
		args, ok := env.Args.(wire.JoinReqArgs)
		if !ok {
			n.lgr.Warn("malformed JOIN_REQ", logger.F("from", from))
			return
		}
		n.handleJoinReq(ring.Node{ID: args.ID, Addr: args.Addr}, from)

	case wire.Predecessor:
		n.handlePredecessor(from)

	case wire.Stabilize:
		args, ok := env.Args.(wire.StabilizeArgs)
		if !ok {
			n.lgr.Warn("malformed STABILIZE", logger.F("from", from))
			return
		}
		n.handleStabilize(args, from)

	case wire.Notify:
		args, ok := env.Args.(wire.NotifyArgs)
		if !ok {
			n.lgr.Warn("malformed NOTIFY", logger.F("from", from))
			return
		}
		n.handleNotify(args)

	case wire.Put:
		args, ok := env.Args.(wire.PutArgs)
		if !ok {
			n.lgr.Warn("malformed PUT", logger.F("from", from))
			return
		}
		n.routeAndServePut(ctx, args)

	case wire.Get:
		args, ok := env.Args.(wire.GetArgs)
		if !ok {
			n.lgr.Warn("malformed GET", logger.F("from", from))
			return
		}
		n.routeAndServeGet(ctx, args)

	default:
		n.lgr.Debug("ignoring unrecognized method", logger.F("method", string(env.Method)), logger.F("from", from))
	}
}
