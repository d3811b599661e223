package node

import (
	"fmt"

	"chorddht/internal/logger"
	"chorddht/internal/ring"
	"chorddht/internal/transport"
	"chorddht/internal/wire"
)

// Join runs the join procedure against a known bootstrap address (spec
// §4.2): it retransmits JOIN_REQ every joinRetry until a JOIN_REP arrives,
// discarding any other method received in the meantime. It blocks the
// caller; Run's message loop should only be entered once this returns.
func (n *Node) Join(bootstrapAddr string) error {
	req := wire.Envelope{
		Method: wire.JoinReq,
		Args:   wire.JoinReqArgs{ID: n.self.ID, Addr: n.self.Addr},
	}
	for {
		if err := n.tr.SendTo(bootstrapAddr, req); err != nil {
			return fmt.Errorf("node: join: sending JOIN_REQ to %s: %w", bootstrapAddr, err)
		}
		env, from, err := n.tr.ReceiveTimeout(n.joinRetry)
		if err != nil {
			if transport.IsTimeout(err) {
				n.lgr.Debug("join retry, no JOIN_REP yet", logger.F("bootstrap", bootstrapAddr))
				continue
			}
			return fmt.Errorf("node: join: receiving: %w", err)
		}
		if env.Method != wire.JoinRep {
			n.lgr.Debug("ignoring non-JOIN_REP message during join", logger.F("method", string(env.Method)), logger.F("from", from))
			continue
		}
		rep, ok := env.Args.(wire.JoinRepArgs)
		if !ok {
			return fmt.Errorf("node: join: malformed JOIN_REP payload")
		}
		n.setSuccessor(ring.Node{ID: rep.SuccessorID, Addr: rep.SuccessorAddr})
		n.setInsideDHT(true)
		n.lgr.Info("joined ring", logger.F("successor", rep.SuccessorAddr))
		return nil
	}
}

// handleJoinReq implements spec §4.3's three-case join decision. j is the
// joining peer's advertised identity. JOIN_REP always goes directly to
// j.Addr, not to the immediate sender — a forwarded request's sender is
// the forwarding peer, not the node that must receive the reply.
func (n *Node) handleJoinReq(j ring.Node, from string) {
	succ := n.Successor()

	switch {
	case n.self.ID.Equal(succ.ID):
		// Case 1: solitary ring. j becomes the new successor; predecessor
		// is left for the following NOTIFY round-trip to establish (spec
		// §4.4), matching original_source/DHT_Node.py's node_join, which
		// only assigns successor_id/successor_addr in this branch.
		n.setSuccessor(j)
		n.reply(j.Addr, wire.JoinRep, wire.JoinRepArgs{SuccessorID: n.self.ID, SuccessorAddr: n.self.Addr})
		n.insertFinger(j)
		n.lgr.Info("accepted join into solitary ring", logger.FNode("peer", j))

	case j.ID.InArc(n.self.ID, succ.ID):
		// Case 2: j falls in this node's successor arc — j's successor is
		// this node's current successor, and j becomes the new successor.
		n.reply(j.Addr, wire.JoinRep, wire.JoinRepArgs{SuccessorID: succ.ID, SuccessorAddr: succ.Addr})
		n.setSuccessor(j)
		n.insertFinger(j)
		n.lgr.Info("accepted join, inserted before current successor", logger.FNode("peer", j))

	default:
		// Case 3: j belongs further around the ring; forward to successor.
		if err := n.tr.SendTo(succ.Addr, wire.Envelope{Method: wire.JoinReq, Args: wire.JoinReqArgs{ID: j.ID, Addr: j.Addr}}); err != nil {
			n.lgr.Warn("failed to forward JOIN_REQ", logger.F("to", succ.Addr), logger.F("err", err.Error()))
		}
	}
}

// insertFinger opportunistically records a newly-learned peer in the
// finger table (no-op for the baseline variant, whose routing table is
// nil). The finger table scan in ClosestPrecedingFinger picks the best
// entry for any lookup regardless of which "slot" a peer was learned at,
// so an unconditional upsert is sufficient — matching the original
// source's unconditional finger_update(id, addr).
func (n *Node) insertFinger(p ring.Node) {
	if n.fingers != nil {
		n.fingers.Insert(p.ID, p.Addr)
	}
}

func (n *Node) reply(to string, method wire.Method, args any) {
	if err := n.tr.SendTo(to, wire.Envelope{Method: method, Args: args}); err != nil {
		n.lgr.Warn("failed to send reply", logger.F("to", to), logger.F("method", string(method)), logger.F("err", err.Error()))
	}
}
