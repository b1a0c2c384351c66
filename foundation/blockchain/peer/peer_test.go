package peer_test

import (
	"testing"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/peer"
)

func Test_CRUD(t *testing.T) {
	type table struct {
		name  string
		peers []peer.Peer
	}

	tt := []table{
		{
			name:  "basic",
			peers: []peer.Peer{{Host: "host1"}, {Host: "host2"}, {Host: "host3"}},
		},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			ps := peer.NewPeerSet()

			for _, peer := range tst.peers {
				if !ps.Add(peer) {
					t.Fatalf("Test %s:\tShould report a new peer as added.", tst.name)
				}
			}

			if ps.Add(tst.peers[0]) {
				t.Fatalf("Test %s:\tShould not report a known peer as added.", tst.name)
			}

			peers := ps.Copy("")
			if len(peers) != len(tst.peers) {
				t.Logf("Test %s:\tgot: %d", tst.name, len(peers))
				t.Logf("Test %s:\texp: %d", tst.name, len(tst.peers))
				t.Fatalf("Test %s:\tShould get back the right peers.", tst.name)
			}

			peers = ps.Copy("host2")
			if len(peers) != len(tst.peers)-1 {
				t.Logf("Test %s:\tgot: %d", tst.name, len(peers))
				t.Logf("Test %s:\texp: %d", tst.name, len(tst.peers)-1)
				t.Fatalf("Test %s:\tShould get back the right peers.", tst.name)
			}

			hosts := ps.Hosts()
			if len(hosts) != 3 || hosts[0] != "host1" || hosts[2] != "host3" {
				t.Fatalf("Test %s:\tShould get back the sorted hosts, got %v.", tst.name, hosts)
			}

			targets := ps.Targets(map[string]struct{}{"host1": {}, "host3": {}})
			if len(targets) != 1 || targets[0].Host != "host2" {
				t.Fatalf("Test %s:\tShould exclude visited hosts, got %v.", tst.name, targets)
			}
		}

		t.Run(tst.name, f)
	}
}

func Test_Sample(t *testing.T) {
	var peers []peer.Peer
	for _, h := range []string{"a", "b", "c", "d", "e", "f"} {
		peers = append(peers, peer.New(h))
	}

	for range 50 {
		sample := peer.Sample(peers, 3)
		if len(sample) != 3 {
			t.Fatalf("Should get a sample of 3, got %d.", len(sample))
		}

		seen := make(map[string]bool)
		for _, p := range sample {
			if seen[p.Host] {
				t.Fatalf("Should not sample the same peer twice: %v.", sample)
			}
			seen[p.Host] = true
		}
	}

	if got := peer.Sample(peers[:2], 3); len(got) != 2 {
		t.Fatalf("Should return every peer when there are fewer than the limit, got %d.", len(got))
	}

	if peers[0].Host != "a" || peers[5].Host != "f" {
		t.Fatalf("Should not modify the input slice.")
	}
}
