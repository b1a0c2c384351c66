package events_test

import (
	"testing"

	"github.com/ardanlabs/gossipchain/foundation/events"
)

func Test_Events(t *testing.T) {
	evts := events.New()

	ch1 := evts.Acquire("1")
	ch2 := evts.Acquire("2")

	if evts.Acquire("1") != ch1 {
		t.Fatalf("Should get back the same channel for the same id.")
	}

	evts.Send("state: MineNewBlock: blk[2]")

	for _, ch := range []chan string{ch1, ch2} {
		if msg := <-ch; msg != "state: MineNewBlock: blk[2]" {
			t.Fatalf("Should receive the message, got %q.", msg)
		}
	}

	if err := evts.Release("1"); err != nil {
		t.Fatalf("Should be able to release a listener: %s", err)
	}

	if _, open := <-ch1; open {
		t.Fatalf("Should close the released channel.")
	}

	if err := evts.Release("1"); err == nil {
		t.Fatalf("Should not release a listener twice.")
	}

	evts.Shutdown()

	if _, open := <-ch2; open || evts.Listeners() != 0 {
		t.Fatalf("Should close every channel on shutdown.")
	}
}

func Test_SendDoesNotBlock(t *testing.T) {
	evts := events.New()
	evts.Acquire("slow")

	for range 1000 {
		evts.Send("message")
	}
}
