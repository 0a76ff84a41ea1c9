// Package socket implements the optional local control socket spec.md
// §6 allows: a listener that accepts line-delimited action chains and
// hands each one to a dispatch callback, letting an external process
// drive the running session the same way a key binding would.
package socket

import (
	"bufio"
	"context"
	"fmt"
	"net"

	"github.com/skim-rs/skim/internal/skim/action"
)

// Server accepts connections on one listener and parses each line of
// input as an action chain (§6's "key:action[+action]" grammar minus
// the leading key, since a remote line has no key to name).
type Server struct {
	ln net.Listener
}

// Listen opens network/addr (e.g. "unix", "/tmp/skim.sock", or "tcp",
// "127.0.0.1:0") for remote control connections.
func Listen(network, addr string) (*Server, error) {
	ln, err := net.Listen(network, addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s %s: %w", network, addr, err)
	}
	return &Server{ln: ln}, nil
}

// Addr reports the listener's bound address, useful when addr was ":0"
// or an ephemeral unix path.
func (s *Server) Addr() net.Addr { return s.ln.Addr() }

// Close stops accepting new connections.
func (s *Server) Close() error { return s.ln.Close() }

// Serve accepts connections until ctx is canceled or the listener is
// closed, calling dispatch once per successfully parsed line. A parse
// error is written back to the connection and does not close it.
func (s *Server) Serve(ctx context.Context, dispatch func([]action.Action)) error {
	go func() {
		<-ctx.Done()
		s.ln.Close()
	}()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		go s.handle(conn, dispatch)
	}
}

// Send dials a running skim's -listen socket, parses chainText to
// validate it client-side, then writes it back out in the same
// "+"-separated wire syntax as one line and closes — the --remote
// counterpart to Serve's accept loop.
func Send(network, addr, chainText string) error {
	chain, err := action.ParseChain(chainText)
	if err != nil {
		return fmt.Errorf("parse action chain: %w", err)
	}

	conn, err := net.Dial(network, addr)
	if err != nil {
		return fmt.Errorf("dial %s %s: %w", network, addr, err)
	}
	defer conn.Close()

	if _, err := fmt.Fprintln(conn, action.FormatChain(chain)); err != nil {
		return fmt.Errorf("send action chain: %w", err)
	}
	return nil
}

func (s *Server) handle(conn net.Conn, dispatch func([]action.Action)) {
	defer conn.Close()
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		chain, err := action.ParseChain(line)
		if err != nil {
			fmt.Fprintf(conn, "error: %v\n", err)
			continue
		}
		dispatch(chain)
	}
}
