// Package server exposes a life over WebSocket.
//
// Every command from every connection funnels into one goroutine (Run) that
// owns the engine, so the engine never sees concurrent calls. After each
// command the resulting state is broadcast to all connected clients.
// Protocol errors go back to the sender only.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/roach88/lifesim/internal/engine"
	"github.com/roach88/lifesim/internal/store"
)

// ErrStopped is returned by Do after Run has exited.
var ErrStopped = errors.New("server stopped")

// DefaultConfirmTimeout bounds one reward service confirmation.
const DefaultConfirmTimeout = 30 * time.Second

type request struct {
	cmd  Command
	from *client
	resp chan response
	// internal marks requests the server submits to itself.
	internal bool
	// rewarded is the reward service outcome for cmdReviveConfirmed.
	rewarded bool
}

type response struct {
	msg Message
	err error
}

// Server is the WebSocket transport for one engine.
type Server struct {
	engine   *engine.Engine
	store    *store.Store
	upgrader websocket.Upgrader

	confirmTimeout time.Duration

	requests chan request
	done     chan struct{}
	stopOnce sync.Once

	mu      sync.Mutex
	clients map[*client]struct{}
}

// Option configures a Server.
type Option func(*Server)

// WithStore saves a snapshot after every state-changing command. The
// engine should record telemetry into the same store so the life row
// exists.
func WithStore(st *store.Store) Option {
	return func(s *Server) {
		s.store = st
	}
}

// WithConfirmTimeout bounds each reward service confirmation. Non-positive
// values are ignored.
func WithConfirmTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.confirmTimeout = d
		}
	}
}

// WithCheckOrigin replaces the upgrader's same-origin check.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(s *Server) {
		s.upgrader.CheckOrigin = fn
	}
}

// New creates a server for e. The caller must start Run.
func New(e *engine.Engine, opts ...Option) *Server {
	s := &Server{
		engine: e,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		confirmTimeout: DefaultConfirmTimeout,
		requests:       make(chan request),
		done:           make(chan struct{}),
		clients:        make(map[*client]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run is the command loop. It owns the engine until ctx is cancelled,
// then disconnects every client.
func (s *Server) Run(ctx context.Context) {
	defer s.stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("command loop stopped")
			return
		case req := <-s.requests:
			s.handle(ctx, req)
		}
	}
}

func (s *Server) stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.mu.Lock()
		defer s.mu.Unlock()
		for c := range s.clients {
			delete(s.clients, c)
			close(c.send)
		}
	})
}

func (s *Server) handle(ctx context.Context, req request) {
	msg, err := s.dispatch(ctx, req)
	if req.resp != nil {
		req.resp <- response{msg: msg, err: err}
	}
	if err != nil {
		slog.Debug("command rejected", "command", req.cmd.Type, "error", err)
		if req.from != nil {
			s.reply(req.from, Message{Type: MsgError, Command: req.cmd.Type, Error: err.Error()})
		}
		return
	}
	if s.store != nil && req.cmd.Type != CmdSnapshot && msg.Snapshot != nil {
		if _, err := s.store.SaveSnapshot(ctx, *msg.Snapshot); err != nil {
			slog.Warn("save snapshot", "life", msg.Snapshot.LifeID, "error", err)
		}
	}
	s.broadcast(msg)
}

func (s *Server) dispatch(ctx context.Context, req request) (Message, error) {
	switch {
	case req.internal && req.cmd.Type == cmdReviveConfirmed:
		ok := req.rewarded && s.engine.Revive()
		msg := Message{Type: MsgState, Command: CmdRevive, Revived: &ok}
		withState(s.engine, &msg)
		return msg, nil
	case req.cmd.Type == CmdRevive && req.cmd.Confirmation != "" && s.engine.Character() != nil:
		return s.requestReward(ctx, req), nil
	default:
		return apply(s.engine, req.cmd)
	}
}

// requestReward answers a rewarded revive as pending and confirms it on
// another goroutine. The outcome re-enters the loop as cmdReviveConfirmed, so
// a reward service that never answers blocks nothing else.
func (s *Server) requestReward(ctx context.Context, req request) Message {
	msg := Message{Type: MsgState, Command: CmdRevive}
	if s.engine.CanRevive() {
		msg.Pending = true
		go s.confirmReward(ctx, req.cmd.Confirmation, req.from)
	} else {
		ok := false
		msg.Revived = &ok
	}
	withState(s.engine, &msg)
	return msg
}

func (s *Server) confirmReward(ctx context.Context, id string, from *client) {
	ctx, cancel := context.WithTimeout(ctx, s.confirmTimeout)
	defer cancel()
	ok := s.engine.ConfirmReward(ctx, id)
	slog.Debug("reward confirmation finished", "confirmation", id, "ok", ok)
	s.submit(request{
		cmd:      Command{Type: cmdReviveConfirmed},
		from:     from,
		internal: true,
		rewarded: ok,
	})
}

// submit hands req to the command loop. False once the loop has stopped.
func (s *Server) submit(req request) bool {
	select {
	case s.requests <- req:
		return true
	case <-s.done:
		return false
	}
}

// Do runs cmd on the command loop and returns the state message it
// produced. The message is also broadcast to connected clients.
func (s *Server) Do(ctx context.Context, cmd Command) (Message, error) {
	req := request{cmd: cmd, resp: make(chan response, 1)}
	select {
	case s.requests <- req:
	case <-s.done:
		return Message{}, ErrStopped
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
	res := <-req.resp
	return res.msg, res.err
}

// ServeHTTP upgrades the request to a WebSocket connection.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade", "error", err)
		return
	}
	c := &client{srv: s, conn: conn, send: make(chan []byte, sendBuffer)}
	if !s.register(c) {
		conn.Close()
		return
	}
	slog.Info("client connected", "remote", r.RemoteAddr)
	go c.writePump()
	go c.readPump()
}

func (s *Server) register(c *client) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.done:
		return false
	default:
	}
	s.clients[c] = struct{}{}
	return true
}

func (s *Server) unregister(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
		slog.Info("client disconnected")
	}
}

// Clients is the number of connected clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) reply(c *client, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		s.deliver(c, data)
	}
}

func (s *Server) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		s.deliver(c, data)
	}
}

// deliver queues data for c, dropping c when its buffer is full.
// Callers hold s.mu.
func (s *Server) deliver(c *client, data []byte) {
	select {
	case c.send <- data:
	default:
		slog.Warn("client too slow, dropping")
		delete(s.clients, c)
		close(c.send)
	}
}

// ListenAndServe serves the WebSocket endpoint at /ws on addr and runs the
// command loop until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", s)

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.Run(ctx)
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	slog.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
