// Package server implements the IRC daemon: the connection supervisor,
// the shared registry of clients and channels, and the command handlers.
package server

import (
	"errors"
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"ircd/config"
	"ircd/irc"
)

const serverVersion = "0.1.0"

// ErrClientNotFound is returned when a connection being removed is in
// neither the registered nor the anonymous client map.
var ErrClientNotFound = errors.New("server: client not found")

type handlerFunc func(s *Server, c *Client, m *irc.Message)

// handlers is the static command dispatch table. QUIT and unrecognized
// commands are handled directly in Dispatch.
var handlers = map[string]handlerFunc{
	"CAP":      handleCap,
	"PASS":     handlePass,
	"NICK":     handleNick,
	"USER":     handleUser,
	"JOIN":     handleJoin,
	"PART":     handlePart,
	"OPER":     handleOper,
	"MODE":     handleMode,
	"TOPIC":    handleTopic,
	"NAMES":    handleNames,
	"LIST":     handleList,
	"KICK":     handleKick,
	"PRIVMSG":  handlePrivmsg,
	"USERHOST": handleUserhost,
	"TIME":     handleTime,
	"PING":     handlePing,
	"USERS":    handleUsers,
	"MOTD":     handleMotd,
	"LUSERS":   handleLusers,
}

// Server owns the listener and the shared state registry. One mutex
// guards all three maps and is held for the full handling of each client
// line, so handlers never interleave.
type Server struct {
	config    *config.Config
	startTime time.Time
	operators []OperatorCredential
	metrics   *Metrics
	api       *StatusAPI
	listener  net.Listener
	quit      chan struct{}

	mu         sync.Mutex
	channels   map[string]*irc.Channel
	clients    map[string]*Client // keyed by username
	newClients map[string]*Client // keyed by host:port, pre-registration
}

// New creates a server from the given configuration.
func New(cfg *config.Config) (*Server, error) {
	srv := &Server{
		config:     cfg,
		startTime:  time.Now(),
		metrics:    newMetrics(),
		quit:       make(chan struct{}),
		channels:   make(map[string]*irc.Channel),
		clients:    make(map[string]*Client),
		newClients: make(map[string]*Client),
	}

	for _, op := range cfg.Operators {
		srv.operators = append(srv.operators, OperatorCredential{
			UsernameHash: []byte(op.UsernameHash),
			PasswordHash: []byte(op.PasswordHash),
		})
	}

	if cfg.API.Enabled {
		srv.api = NewStatusAPI(srv, cfg)
	}

	return srv, nil
}

// Start begins listening and accepting connections. It does not block.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.config.ListenAddress())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %v", s.config.ListenAddress(), err)
	}
	s.listener = listener
	log.Printf("[%s] listening on %s", s.config.Server.Host, listener.Addr())

	if s.api != nil {
		go s.api.Start()
	}

	go s.acceptConnections()
	return nil
}

// Addr returns the bound listener address, nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop closes the listener and disconnects every client.
func (s *Server) Stop() error {
	close(s.quit)

	if s.listener != nil {
		s.listener.Close()
	}
	if s.api != nil {
		s.api.Stop()
	}

	s.mu.Lock()
	clients := make([]*Client, 0, len(s.clients)+len(s.newClients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	for _, c := range s.newClients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		c.conn.Close()
	}
	return nil
}

func (s *Server) acceptConnections() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.quit:
				return
			default:
				log.Printf("[%s] failed to accept connection: %v", s.config.Server.Host, err)
				continue
			}
		}
		client := s.AddConnection(conn)
		go client.Handle()
	}
}

// AddConnection registers a new, still anonymous connection.
func (s *Server) AddConnection(conn net.Conn) *Client {
	client := NewClient(s, conn)

	s.mu.Lock()
	s.newClients[client.anonymousID()] = client
	s.mu.Unlock()

	s.metrics.Connections.Inc()
	log.Printf("[%s] new connection from %s", s.config.Server.Host, conn.RemoteAddr())
	return client
}

// RemoveConnection forgets a client and withdraws it from every channel
// it was in, deleting channels that become empty.
func (s *Server) RemoveConnection(c *Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.User.Username != "" {
		if _, ok := s.clients[c.User.Username]; !ok {
			return ErrClientNotFound
		}
		delete(s.clients, c.User.Username)
		s.metrics.Registered.Dec()

		for name, ch := range s.channels {
			if !ch.Has(c.User) {
				continue
			}
			ch.Remove(c.User)
			s.deleteIfEmpty(name, ch)
		}
	} else {
		if _, ok := s.newClients[c.anonymousID()]; !ok {
			return ErrClientNotFound
		}
		delete(s.newClients, c.anonymousID())
	}

	s.metrics.Connections.Dec()
	log.Printf("[%s] removed connection %s", s.config.Server.Host, c.conn.RemoteAddr())
	return nil
}

// Dispatch parses one raw line from a client and runs its handler under
// the registry lock.
func (s *Server) Dispatch(c *Client, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.LinesReceived.Inc()
	m := irc.ParseMessage(raw)

	switch m.Command {
	case "QUIT":
		log.Printf("[%s] %s quit: %s", s.config.Server.Host, c.User.Nick, m.Trailing(0))
		return
	case "ERROR":
		log.Printf("[%s] error from %s: %s", s.config.Server.Host, c.User.Nick, m.Trailing(0))
		return
	}

	handler, ok := handlers[m.Command]
	if !ok {
		log.Printf("[%s] unknown command from %s: %s", s.config.Server.Host, c.User.Nick, m.Command)
		return
	}
	handler(s, c, m)
}

// clientFromNick finds a registered client by nick. Callers hold s.mu.
func (s *Server) clientFromNick(nick string) *Client {
	for _, client := range s.clients {
		if client.User.Nick == nick {
			return client
		}
	}
	return nil
}

// nickInUse reports whether any other client, registered or not, already
// has the nick. Callers hold s.mu.
func (s *Server) nickInUse(nick string, except *Client) bool {
	for _, client := range s.clients {
		if client != except && client.User.Nick == nick {
			return true
		}
	}
	for _, client := range s.newClients {
		if client != except && client.User.Nick == nick {
			return true
		}
	}
	return false
}

// deleteIfEmpty drops a channel once its last user is gone. Callers hold
// s.mu.
func (s *Server) deleteIfEmpty(name string, ch *irc.Channel) {
	if !ch.Empty() {
		return
	}
	delete(s.channels, name)
	s.metrics.Channels.Dec()
	log.Printf("[%s] deleted empty channel %s", s.config.Server.Host, name)
}

// sendToChannel relays a command to every member of a channel, prefixed
// with the sender's identifier. Callers hold s.mu.
func (s *Server) sendToChannel(sender *Client, ch *irc.Channel, msg string, excludeSender bool) {
	line := ":" + sender.Identifier() + " " + msg
	for username := range ch.AllUsers() {
		target, ok := s.clients[username]
		if !ok {
			continue
		}
		if excludeSender && target == sender {
			continue
		}
		target.Send(line)
	}
}
