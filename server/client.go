package server

import (
	"bufio"
	"log"
	"net"
	"net/textproto"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"ircd/irc"
)

const writeTimeout = 10 * time.Second

// Client is one TCP connection and its registration state. Reads happen
// on the client's own goroutine; writes may come from any handler, so
// they are serialized by writeMu.
type Client struct {
	ID   string
	User *irc.User

	server *Server
	conn   net.Conn
	host   string
	port   string

	writeMu sync.Mutex
	writer  *bufio.Writer
}

// NewClient wraps an accepted connection.
func NewClient(server *Server, conn net.Conn) *Client {
	host, port, _ := net.SplitHostPort(conn.RemoteAddr().String())
	return &Client{
		ID:     uuid.New().String(),
		User:   irc.NewUser(),
		server: server,
		conn:   conn,
		host:   host,
		port:   port,
		writer: bufio.NewWriter(conn),
	}
}

// Identifier returns the nick!user@host form of this client.
func (c *Client) Identifier() string {
	return irc.FormatIdentifier(c.User.Nick, c.User.Username, c.host)
}

// anonymousID keys the client in the pre-registration map.
func (c *Client) anonymousID() string {
	return net.JoinHostPort(c.host, c.port)
}

// Handle reads lines from the connection until it closes, dispatching
// each to the server. It runs as the connection's goroutine.
func (c *Client) Handle() {
	defer func() {
		if err := c.server.RemoveConnection(c); err != nil {
			log.Printf("[%s] cleanup for %s: %v", c.host, c.ID, err)
		}
		c.conn.Close()
	}()

	reader := textproto.NewReader(bufio.NewReader(c.conn))
	for {
		line, err := reader.ReadLine()
		if err != nil {
			return
		}
		if line == "" {
			continue
		}
		log.Printf("[%s] <- %s", c.host, line)
		c.server.Dispatch(c, line)
	}
}

// Send writes one line to the client, appending CRLF.
func (c *Client) Send(line string) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if _, err := c.writer.WriteString(line + "\r\n"); err != nil {
		log.Printf("[%s] write to %s: %v", c.host, c.ID, err)
		return
	}
	if err := c.writer.Flush(); err != nil {
		log.Printf("[%s] flush to %s: %v", c.host, c.ID, err)
	}
}

// sendReply addresses a numeric reply to this client and sends it.
func (c *Client) sendReply(r irc.Reply) {
	c.Send(":" + c.server.config.Server.Host + " " + r.Code + " " + c.User.Nick + " " + r.Text)
	c.server.metrics.RepliesSent.Inc()
}

func (c *Client) sendReplies(replies []irc.Reply) {
	for _, r := range replies {
		c.sendReply(r)
	}
}

// remotePort returns the numeric remote port, 0 if unparsable.
func (c *Client) remotePort() int {
	p, _ := strconv.Atoi(c.port)
	return p
}
