package server

import (
	"log"
	"strconv"
	"time"

	"ircd/irc"
)

// requireParams sends ERR_NEEDMOREPARAMS and reports false when the
// message carries fewer than n params.
func requireParams(c *Client, m *irc.Message, n int) bool {
	if len(m.Params) < n {
		c.sendReply(irc.NeedMoreParams(m.Command))
		return false
	}
	return true
}

func handleCap(s *Server, c *Client, m *irc.Message) {
	c.Send("CAP * LS :")
}

func handlePass(s *Server, c *Client, m *irc.Message) {
	if !requireParams(c, m, 1) {
		return
	}
	if c.User.Password != "" || c.User.Username != "" {
		c.sendReply(irc.AlreadyRegistered())
		return
	}
	c.User.Password = m.Params[0]
}

func handleNick(s *Server, c *Client, m *irc.Message) {
	if len(m.Params) == 0 {
		c.sendReply(irc.NoNickGiven())
		return
	}
	nick := m.Params[0]
	if s.nickInUse(nick, c) {
		c.sendReply(irc.NickInUse(nick))
		return
	}
	if err := c.User.SetNick(nick); err != nil {
		c.sendReply(irc.ErroneousNick(nick))
		return
	}
	log.Printf("[%s] %s is now known as %s", c.host, c.ID, nick)
}

func handleUser(s *Server, c *Client, m *irc.Message) {
	if !requireParams(c, m, 4) {
		return
	}
	if c.User.Username != "" {
		c.sendReply(irc.AlreadyRegistered())
		return
	}

	delete(s.newClients, c.anonymousID())

	c.User.Username = m.Params[0]
	if mode, err := strconv.Atoi(m.Params[1]); err == nil && mode&4 != 0 {
		c.User.SetInvisible(true)
	}
	c.User.Realname = m.Trailing(3)

	s.clients[c.User.Username] = c
	s.metrics.Registered.Inc()
	sendWelcome(s, c)

	log.Printf("[%s] registered user %s from %s", s.config.Server.Host, c.User.Nick, c.conn.RemoteAddr())
}

func sendWelcome(s *Server, c *Client) {
	replies := []irc.Reply{
		irc.Welcome(c.User.Nick, c.User.Username, c.host),
		irc.YourHost(s.config.Server.Host, serverVersion),
		irc.Created(s.config.Server.Created),
		irc.MyInfo(s.config.Server.Host, serverVersion, "aiwroOs", "OovaimnqpsrtklbeI"),
	}
	replies = append(replies, lusersReplies(s)...)
	replies = append(replies, motdReplies(s)...)
	c.sendReplies(replies)
}

func handleOper(s *Server, c *Client, m *irc.Message) {
	if !requireParams(c, m, 2) {
		return
	}
	user, password := m.Params[0], m.Params[1]

	for _, credential := range s.operators {
		if credential.Matches(user, password) {
			c.User.SetOperator(true)
			c.sendReply(irc.YoureOper())
			log.Printf("[%s] %s is now an operator", s.config.Server.Host, c.User.Nick)
			return
		}
	}
	c.sendReply(irc.PasswordMismatch())
}

func handlePing(s *Server, c *Client, m *irc.Message) {
	c.Send("PONG")
}

func handleTime(s *Server, c *Client, m *irc.Message) {
	c.sendReply(irc.Time(s.config.Server.Host, time.Now().Format(time.RFC1123)))
}

func handleMotd(s *Server, c *Client, m *irc.Message) {
	c.sendReplies(motdReplies(s))
}

func motdReplies(s *Server) []irc.Reply {
	replies := []irc.Reply{irc.MOTDStart(s.config.Server.Host)}
	for _, line := range s.config.MOTD.Lines {
		replies = append(replies, irc.MOTD(line))
	}
	return append(replies, irc.EndOfMOTD())
}

func handleLusers(s *Server, c *Client, m *irc.Message) {
	c.sendReplies(lusersReplies(s))
}

func lusersReplies(s *Server) []irc.Reply {
	operators := 0
	for _, client := range s.clients {
		if client.User.IsOperator() {
			operators++
		}
	}
	return []irc.Reply{
		irc.LUserClient(len(s.clients), 0),
		irc.LUserOp(operators),
		irc.LUserUnknown(len(s.newClients)),
		irc.LUserChannels(len(s.channels)),
		irc.LUserMe(len(s.clients)),
	}
}

func handleUsers(s *Server, c *Client, m *irc.Message) {
	if s.config.Features.DisableUsers {
		c.sendReply(irc.UsersDisabled())
		return
	}

	replies := []irc.Reply{irc.UsersStart()}
	if len(s.clients) == 0 {
		replies = append(replies, irc.NoUsers())
	} else {
		for _, client := range s.clients {
			replies = append(replies, irc.Users(client.User, client.Identifier()))
		}
	}
	replies = append(replies, irc.EndOfUsers())
	c.sendReplies(replies)
}

func handleUserhost(s *Server, c *Client, m *irc.Message) {
	if !requireParams(c, m, 1) {
		return
	}
	target := s.clientFromNick(m.Params[0])
	if target == nil {
		return
	}
	c.sendReply(irc.UserHost(target.User, target.Identifier()))
}
