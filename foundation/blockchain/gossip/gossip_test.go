package gossip_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/gossip"
)

type recorder struct {
	calls []gossip.EventType
}

func (r *recorder) HandleNewPeer(host string) bool {
	r.calls = append(r.calls, gossip.TypeNewPeer)
	return true
}

func (r *recorder) HandleNewTransaction(tx database.SignedTx) bool {
	r.calls = append(r.calls, gossip.TypeNewTransaction)
	return false
}

func (r *recorder) HandleNewBlock(block database.Block) bool {
	r.calls = append(r.calls, gossip.TypeNewBlock)
	return true
}

func Test_Dispatch(t *testing.T) {
	tt := []struct {
		name     string
		event    gossip.Event
		accepted bool
		err      bool
	}{
		{"new-peer", gossip.NewPeer("localhost:9080"), true, false},
		{"new-transaction", gossip.NewTransaction(database.SignedTx{}), false, false},
		{"new-block", gossip.NewBlock(database.Block{Index: 2}), true, false},
		{"missing-payload", gossip.Event{Type: gossip.TypeNewBlock}, false, true},
		{"unknown", gossip.Event{Type: "new_fork"}, false, true},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			var r recorder

			accepted, err := gossip.Dispatch(tst.event, &r)
			if (err != nil) != tst.err {
				t.Fatalf("Test %s:\tShould get the expected error result, got %v.", tst.name, err)
			}

			if accepted != tst.accepted {
				t.Fatalf("Test %s:\tShould get the handler result, got %t.", tst.name, accepted)
			}

			if !tst.err && (len(r.calls) != 1 || r.calls[0] != tst.event.Type) {
				t.Fatalf("Test %s:\tShould call only the handler for the type, got %v.", tst.name, r.calls)
			}
		}

		t.Run(tst.name, f)
	}

	_, err := gossip.Dispatch(gossip.Event{Type: "new_fork"}, &recorder{})
	if !errors.Is(err, gossip.ErrUnknownEvent) {
		t.Fatalf("Should get an unknown event error, got %v.", err)
	}
}

func Test_EnvelopeWire(t *testing.T) {
	env := gossip.Envelope{
		Event:    gossip.NewPeer("localhost:9180"),
		NodeFrom: "localhost:9080",
		Visited:  gossip.NewVisited("localhost:9080", "localhost:9180").Hosts(),
	}

	data, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("Should be able to marshal the envelope: %s", err)
	}

	exp := `{"event":{"type":"new_node","nodeUrl":"localhost:9180"},"nodefrom":"localhost:9080","visited_nodes":["localhost:9080","localhost:9180"]}`
	if string(data) != exp {
		t.Logf("got: %s", data)
		t.Logf("exp: %s", exp)
		t.Fatalf("Should get the wire encoding of the envelope.")
	}
}
