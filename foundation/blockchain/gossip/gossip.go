// Package gossip defines the closed set of events nodes flood to each other
// and the envelope that carries an event with its visited set.
package gossip

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
)

// EventType identifies the kind of event being flooded.
type EventType string

// Set of event types a node knows how to handle.
const (
	TypeNewPeer        EventType = "new_node"
	TypeNewTransaction EventType = "new_transaction"
	TypeNewBlock       EventType = "new_block"
)

// ErrUnknownEvent is returned when an event type is not part of the set.
var ErrUnknownEvent = errors.New("unknown event type")

// =============================================================================

// Event is a tagged union. Only the payload matching Type is set.
type Event struct {
	Type        EventType          `json:"type" validate:"required"`
	NodeURL     string             `json:"nodeUrl,omitempty"`
	Transaction *database.SignedTx `json:"transaction,omitempty"`
	Block       *database.Block    `json:"block,omitempty"`
}

// NewPeer constructs the event announcing a newly registered peer.
func NewPeer(host string) Event {
	return Event{Type: TypeNewPeer, NodeURL: host}
}

// NewTransaction constructs the event sharing an accepted transaction.
func NewTransaction(tx database.SignedTx) Event {
	return Event{Type: TypeNewTransaction, Transaction: &tx}
}

// NewBlock constructs the event sharing a new block.
func NewBlock(block database.Block) Event {
	return Event{Type: TypeNewBlock, Block: &block}
}

// Validate checks the type is known and its payload is present.
func (e Event) Validate() error {
	switch e.Type {
	case TypeNewPeer:
		if e.NodeURL == "" {
			return errors.New("new_node event is missing the node url")
		}
	case TypeNewTransaction:
		if e.Transaction == nil {
			return errors.New("new_transaction event is missing the transaction")
		}
	case TypeNewBlock:
		if e.Block == nil {
			return errors.New("new_block event is missing the block")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, e.Type)
	}

	return nil
}

// String implements the fmt.Stringer interface for logging.
func (e Event) String() string {
	switch e.Type {
	case TypeNewPeer:
		return fmt.Sprintf("%s[%s]", e.Type, e.NodeURL)
	case TypeNewTransaction:
		if e.Transaction != nil {
			return fmt.Sprintf("%s[%s]", e.Type, e.Transaction)
		}
	case TypeNewBlock:
		if e.Block != nil {
			return fmt.Sprintf("%s[%d]", e.Type, e.Block.Index)
		}
	}
	return string(e.Type)
}

// =============================================================================

// Handler declares how a node applies each kind of event. Each method
// reports if the node accepted the payload.
type Handler interface {
	HandleNewPeer(host string) bool
	HandleNewTransaction(tx database.SignedTx) bool
	HandleNewBlock(block database.Block) bool
}

// Dispatch hands the event payload to the handler method for its type.
func Dispatch(e Event, h Handler) (bool, error) {
	if err := e.Validate(); err != nil {
		return false, err
	}

	switch e.Type {
	case TypeNewPeer:
		return h.HandleNewPeer(e.NodeURL), nil
	case TypeNewTransaction:
		return h.HandleNewTransaction(*e.Transaction), nil
	case TypeNewBlock:
		return h.HandleNewBlock(*e.Block), nil
	}

	return false, fmt.Errorf("%w: %q", ErrUnknownEvent, e.Type)
}

// =============================================================================

// Envelope is what a node sends to a peer's event endpoint.
type Envelope struct {
	Event    Event    `json:"event"`
	NodeFrom string   `json:"nodefrom" validate:"required"`
	Visited  []string `json:"visited_nodes"`
}

// Visited is the set of hosts an event flood has already targeted.
type Visited map[string]struct{}

// NewVisited constructs a visited set from the list of hosts.
func NewVisited(hosts ...string) Visited {
	v := make(Visited, len(hosts))
	for _, host := range hosts {
		v[host] = struct{}{}
	}
	return v
}

// Add marks the host as visited.
func (v Visited) Add(host string) {
	v[host] = struct{}{}
}

// Contains reports if the host was visited.
func (v Visited) Contains(host string) bool {
	_, exists := v[host]
	return exists
}

// Clone returns a copy of the visited set.
func (v Visited) Clone() Visited {
	cpy := make(Visited, len(v))
	for host := range v {
		cpy[host] = struct{}{}
	}
	return cpy
}

// Hosts returns the sorted list of visited hosts.
func (v Visited) Hosts() []string {
	hosts := make([]string, 0, len(v))
	for host := range v {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)
	return hosts
}
