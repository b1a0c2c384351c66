// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"strings"
	"sync"
	"time"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/gossip"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/mempool"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/peer"
	"github.com/google/uuid"
)

// Defaults used when the configuration leaves a value unset.
const (
	DefaultFanOut      = 3
	DefaultPeerTimeout = 5 * time.Second
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of persisting blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining, event sharing, and event processing.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalCancelMining() (done func())
	SignalShareEvent(event gossip.Event, visited ...string)
	SignalReceiveEvent(env gossip.Envelope)
}

// =============================================================================

// Config represents the configuration required to start the blockchain
// node. Host is the address peers use to reach this node. Beneficiary
// receives the mining reward and defaults to the node id.
type Config struct {
	Host        string
	Genesis     genesis.Genesis
	Storage     database.Serializer
	KnownPeers  *peer.PeerSet
	Transport   Transport
	Beneficiary database.AccountID
	FanOut      int
	PeerTimeout time.Duration

	// DropInvalid stops the flood at a node that rejects the payload of an
	// event. By default every received event is re-broadcast.
	DropInvalid bool

	// StrictGenesis rejects candidate chains that don't start with the
	// local genesis block.
	StrictGenesis bool

	EvHandler EventHandler
}

// State manages the blockchain database.
type State struct {
	mu sync.RWMutex

	nodeID        string
	host          string
	beneficiary   database.AccountID
	fanOut        int
	peerTimeout   time.Duration
	dropInvalid   bool
	strictGenesis bool
	evHandler     EventHandler

	genesis    genesis.Genesis
	knownPeers *peer.PeerSet
	transport  Transport
	mempool    *mempool.Mempool
	db         *database.Database

	Worker Worker
}

// New constructs a new blockchain for data management.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	// Access the storage for the blockchain.
	db, err := database.New(cfg.Genesis, cfg.Storage, ev)
	if err != nil {
		return nil, err
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}
	knownPeers.Add(peer.New(cfg.Host))

	transport := cfg.Transport
	if transport == nil {
		transport = NewHTTPTransport()
	}

	fanOut := cfg.FanOut
	if fanOut <= 0 {
		fanOut = DefaultFanOut
	}

	peerTimeout := cfg.PeerTimeout
	if peerTimeout <= 0 {
		peerTimeout = DefaultPeerTimeout
	}

	nodeID := strings.ReplaceAll(uuid.NewString(), "-", "")

	beneficiary := cfg.Beneficiary
	if beneficiary == "" {
		beneficiary = database.AccountID(nodeID)
	}

	// Create the State to provide support for managing the blockchain.
	state := State{
		nodeID:        nodeID,
		host:          cfg.Host,
		beneficiary:   beneficiary,
		fanOut:        fanOut,
		peerTimeout:   peerTimeout,
		dropInvalid:   cfg.DropInvalid,
		strictGenesis: cfg.StrictGenesis,
		evHandler:     ev,

		genesis:    cfg.Genesis,
		knownPeers: knownPeers,
		transport:  transport,
		mempool:    mempool.New(),
		db:         db,
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Make sure the database file is properly closed.
	defer func() {
		s.db.Close()
	}()

	// Stop all blockchain writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}

// Save writes the current chain to storage, replacing what was there.
func (s *State) Save() error {
	s.evHandler("state: Save: blocks[%d]", s.db.Length())

	return s.db.Save()
}

// NodeID returns the identifier generated for this node at startup.
func (s *State) NodeID() string {
	return s.nodeID
}

// Host returns the address peers use to reach this node.
func (s *State) Host() string {
	return s.host
}

// Genesis returns a copy of the genesis information.
func (s *State) Genesis() genesis.Genesis {
	return s.genesis
}
