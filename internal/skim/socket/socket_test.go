package socket

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/skim-rs/skim/internal/skim/action"
)

func TestServeDispatchesParsedChain(t *testing.T) {
	s, err := Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan []action.Action, 1)
	go s.Serve(ctx, func(chain []action.Action) { got <- chain })

	conn, err := net.Dial("tcp", s.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if _, err := conn.Write([]byte("down+toggle\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case chain := <-got:
		if len(chain) != 2 || chain[0].Name != action.Down || chain[1].Name != action.Toggle {
			t.Fatalf("unexpected chain: %+v", chain)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for dispatch")
	}
}

func TestSendDeliversChainToServer(t *testing.T) {
	s, err := Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan []action.Action, 1)
	go s.Serve(ctx, func(chain []action.Action) { got <- chain })

	if err := Send("tcp", s.Addr().String(), "down+toggle"); err != nil {
		t.Fatalf("send: %v", err)
	}

	select {
	case chain := <-got:
		if len(chain) != 2 || chain[0].Name != action.Down || chain[1].Name != action.Toggle {
			t.Fatalf("unexpected chain: %+v", chain)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for dispatch")
	}
}

func TestSendRejectsUnparsableChainWithoutDialing(t *testing.T) {
	if err := Send("tcp", "127.0.0.1:1", "execute(echo hi"); err == nil {
		t.Fatal("expected a parse error, got nil")
	}
}

func TestServeReportsParseErrorOverConnection(t *testing.T) {
	s, err := Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Serve(ctx, func([]action.Action) {})

	conn, err := net.Dial("tcp", s.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if _, err := conn.Write([]byte("execute(echo hi\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	buf := make([]byte, 128)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, err := conn.Read(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := string(buf[:n]); got[:6] != "error:" {
		t.Fatalf("expected error response, got %q", got)
	}
}
