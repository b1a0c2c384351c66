package state

import (
	"context"
	"sync"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/gossip"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/peer"
)

// Broadcast sends the event to a random sample of the known peers that are
// not in the visited set. The sample is added to the visited set that is
// sent along so the receivers never target a node this flood already
// reached. Delivery is best effort.
func (s *State) Broadcast(ctx context.Context, event gossip.Event, visited gossip.Visited) {
	visited = visited.Clone()
	visited.Add(s.host)

	targets := peer.Sample(s.knownPeers.Targets(visited), s.fanOut)
	if len(targets) == 0 {
		s.evHandler("state: Broadcast: %s: no peers left to target", event)
		return
	}

	for _, pr := range targets {
		visited.Add(pr.Host)
	}

	env := gossip.Envelope{
		Event:    event,
		NodeFrom: s.host,
		Visited:  visited.Hosts(),
	}

	s.evHandler("state: Broadcast: %s: targets%v", event, targets)

	var wg sync.WaitGroup
	wg.Add(len(targets))

	for _, pr := range targets {
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(ctx, s.peerTimeout)
			defer cancel()

			if err := s.transport.SendEvent(ctx, pr.Host, env); err != nil {
				s.evHandler("state: Broadcast: SendEvent: %s: WARNING: %s", pr.Host, err)
			}
		}()
	}

	wg.Wait()
}

// ReceiveEvent applies an event received from a peer and then continues the
// flood with this node marked as visited. The flood continues even when
// this node rejects the payload unless the node drops invalid events.
func (s *State) ReceiveEvent(ctx context.Context, env gossip.Envelope) error {
	s.evHandler("state: ReceiveEvent: %s: from[%s]: visited%v", env.Event, env.NodeFrom, env.Visited)

	accepted, err := gossip.Dispatch(env.Event, s)
	if err != nil {
		return err
	}

	if !accepted && s.dropInvalid {
		s.evHandler("state: ReceiveEvent: %s: rejected: flood stops here", env.Event)
		return nil
	}

	visited := gossip.NewVisited(env.Visited...)
	visited.Add(s.host)

	s.Broadcast(ctx, env.Event, visited)

	return nil
}

// HandleNewPeer adds the host to the known peers. This implements the
// gossip.Handler interface.
func (s *State) HandleNewPeer(host string) bool {
	if s.knownPeers.Add(peer.New(host)) {
		s.evHandler("state: HandleNewPeer: added peer[%s]", host)
	}

	return true
}

// HandleNewTransaction accepts the transaction into the mempool. This
// implements the gossip.Handler interface.
func (s *State) HandleNewTransaction(signedTx database.SignedTx) bool {
	index, err := s.acceptTransaction(signedTx)
	if err != nil {
		s.evHandler("state: HandleNewTransaction: REJECTED: tx[%s]: %s", signedTx.Transaction, err)
		return false
	}

	s.evHandler("state: HandleNewTransaction: tx[%s]: expected blk[%d]", signedTx.Transaction, index)

	if s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return true
}

// HandleNewBlock applies the block proposed by a peer. This implements the
// gossip.Handler interface.
func (s *State) HandleNewBlock(block database.Block) bool {
	return s.ProcessProposedBlock(block)
}

// =============================================================================

// AddPeer registers the host as a known peer and returns the known peers.
// A host that wasn't known is announced to the network.
func (s *State) AddPeer(host string) []string {
	if s.knownPeers.Add(peer.New(host)) {
		s.evHandler("state: AddPeer: added peer[%s]", host)

		if s.Worker != nil {
			s.Worker.SignalShareEvent(gossip.NewPeer(host), host)
		}
	}

	return s.knownPeers.Hosts()
}

// RegisterWith registers this node with the peer at the specified host,
// merges the peers it knows about and adopts the network's chain.
func (s *State) RegisterWith(ctx context.Context, host string) error {
	s.evHandler("state: RegisterWith: started: %s", host)
	defer s.evHandler("state: RegisterWith: completed: %s", host)

	addCtx, cancel := context.WithTimeout(ctx, s.peerTimeout)
	defer cancel()

	hosts, err := s.transport.AddPeer(addCtx, host, s.host)
	if err != nil {
		return err
	}

	s.knownPeers.Add(peer.New(host))
	for _, h := range hosts {
		s.knownPeers.Add(peer.New(h))
	}

	s.evHandler("state: RegisterWith: known peers%v", s.knownPeers.Hosts())

	s.ResolveConflicts(ctx)

	return nil
}
