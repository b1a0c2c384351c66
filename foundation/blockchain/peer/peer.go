// Package peer maintains the peer related information such as the set
// of known peers and the sampling used to fan out gossip.
package peer

import (
	"math/rand/v2"
	"sort"
	"sync"
)

// Peer represents information about a Node in the network.
type Peer struct {
	Host string
}

// New contructs a new info value.
func New(host string) Peer {
	return Peer{
		Host: host,
	}
}

// Match validates if the specified host matches this node.
func (p Peer) Match(host string) bool {
	return p.Host == host
}

// String implements the fmt.Stringer interface for logging.
func (p Peer) String() string {
	return p.Host
}

// =============================================================================

// PeerSet represents the data representation to maintain a set of known peers.
// Peers are never removed from the set.
type PeerSet struct {
	mu  sync.RWMutex
	set map[Peer]struct{}
}

// NewPeerSet constructs a new info set to manage node peer information.
func NewPeerSet() *PeerSet {
	return &PeerSet{
		set: make(map[Peer]struct{}),
	}
}

// Add adds a new node to the set and reports if it was not already known.
func (ps *PeerSet) Add(peer Peer) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	_, exists := ps.set[peer]
	if !exists {
		ps.set[peer] = struct{}{}
		return true
	}

	return false
}

// Copy returns a list of the known peers, excluding the specified host.
func (ps *PeerSet) Copy(host string) []Peer {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	var peers []Peer
	for peer := range ps.set {
		if !peer.Match(host) {
			peers = append(peers, peer)
		}
	}

	return peers
}

// Hosts returns the sorted hosts of every known peer.
func (ps *PeerSet) Hosts() []string {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	hosts := make([]string, 0, len(ps.set))
	for peer := range ps.set {
		hosts = append(hosts, peer.Host)
	}
	sort.Strings(hosts)

	return hosts
}

// Targets returns the known peers whose host is not in the visited set.
func (ps *PeerSet) Targets(visited map[string]struct{}) []Peer {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	var peers []Peer
	for peer := range ps.set {
		if _, exists := visited[peer.Host]; !exists {
			peers = append(peers, peer)
		}
	}

	return peers
}

// =============================================================================

// Sample returns a uniform random sample of at most n peers. The input
// slice is not modified.
func Sample(peers []Peer, n int) []Peer {
	if len(peers) <= n {
		return peers
	}

	cpy := make([]Peer, len(peers))
	copy(cpy, peers)
	rand.Shuffle(len(cpy), func(i, j int) {
		cpy[i], cpy[j] = cpy[j], cpy[i]
	})

	return cpy[:n]
}
