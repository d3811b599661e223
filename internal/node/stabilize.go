package node

import (
	"chorddht/internal/logger"
	"chorddht/internal/ring"
	"chorddht/internal/wire"
)

// handlePredecessor answers a peer's request for this node's predecessor
// (spec §4.4). If no predecessor is set, the reply carries an empty
// PredecessorID; the receiver's handleStabilize treats an empty id as
// "none".
func (n *Node) handlePredecessor(from string) {
	pred, ok := n.Predecessor()
	args := wire.StabilizeArgs{}
	if ok {
		args.PredecessorID = pred.ID
	}
	_ = from // PREDECESSOR is only ever sent to this node's own successor, so
	// from is always that successor's address — reply there directly.
	n.reply(from, wire.Stabilize, args)
}

// handleStabilize processes a peer's answer to our own PREDECESSOR query
// (spec §4.4): if that peer reports a predecessor lying in our successor
// arc, we adopt it as our new successor — paired with from, the address
// of whoever sent us this STABILIZE (our current successor), exactly as
// the source does: the reported id is trusted but the address used is
// the responder's own. Nothing later in the exchange corrects that
// address: NOTIFY only updates the receiver's predecessor, and a
// successor id already equal to the reported one is never re-adopted.
// Either way we then
// NOTIFY whichever node is now our successor, informing it that we
// believe ourselves to be its predecessor.
func (n *Node) handleStabilize(args wire.StabilizeArgs, from string) {
	succ := n.Successor()
	reported := ring.ID(args.PredecessorID)
	if len(reported) > 0 && ring.InSuccessorArc(n.self.ID, succ.ID, reported) && !reported.Equal(succ.ID) {
		succ = ring.Node{ID: reported, Addr: from}
		n.setSuccessor(succ)
		n.lgr.Debug("adopted better successor", logger.FNode("successor", succ))
	}
	n.reply(succ.Addr, wire.Notify, wire.NotifyArgs{PredecessorID: n.self.ID, PredecessorAddr: n.self.Addr})
}

// handleNotify processes a NOTIFY from a peer claiming to be our
// predecessor (spec §4.4): adopted if we have none, or if the claimant
// lies strictly between our current predecessor and us. Idempotent:
// repeated NOTIFYs from the same already-adopted predecessor change
// nothing (testable property 6).
func (n *Node) handleNotify(args wire.NotifyArgs) {
	candidate := ring.Node{ID: args.PredecessorID, Addr: args.PredecessorAddr}
	pred, ok := n.Predecessor()
	if !ok || ring.InPredecessorArc(n.self.ID, pred.ID, candidate.ID) {
		n.setPredecessor(candidate)
		n.lgr.Debug("adopted predecessor", logger.FNode("predecessor", candidate))
	}
}

// stabilizeTick fires when the bounded-timeout receive in Run times out
// with no message pending (spec §4.4): it asks the current successor for
// its predecessor, driving the adopt-and-notify exchange above.
func (n *Node) stabilizeTick() {
	succ := n.Successor()
	if succ.Addr == "" {
		return
	}
	if err := n.tr.SendTo(succ.Addr, wire.Envelope{Method: wire.Predecessor}); err != nil {
		n.lgr.Warn("stabilize tick: failed to query successor", logger.F("successor", succ.Addr), logger.F("err", err.Error()))
	}
}
