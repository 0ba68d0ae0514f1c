package server

import (
	"log"
	"strconv"
	"strings"

	"ircd/irc"
)

func handleJoin(s *Server, c *Client, m *irc.Message) {
	if !requireParams(c, m, 1) {
		return
	}

	// JOIN 0 leaves every channel
	if m.Params[0] == "0" {
		names := make([]string, 0, len(s.channels))
		for name := range s.channels {
			names = append(names, name)
		}
		for _, name := range names {
			ch := s.channels[name]
			if ch.Has(c.User) {
				partChannel(s, c, ch, "")
			}
		}
		return
	}

	names := strings.Split(m.Params[0], ",")
	var keys []string
	if len(m.Params) > 1 {
		keys = strings.Split(m.Params[1], ",")
	}

	for i, name := range names {
		key := ""
		if len(keys) > i {
			key = keys[i]
		}

		ch, exists := s.channels[name]
		if exists {
			if ch.Key() != "" && key != ch.Key() {
				c.sendReply(irc.BadChannelKey(name))
				break
			}
			if err := ch.AddUser(c.User); err != nil {
				log.Printf("[%s] %s cannot join %s: %v", s.config.Server.Host, c.User.Nick, name, err)
				continue
			}
			log.Printf("[%s] %s joined %s", s.config.Server.Host, c.User.Nick, name)
		} else {
			newCh, err := irc.NewChannel(name, c.User, key)
			if err != nil {
				log.Printf("[%s] %s cannot create %s: %v", s.config.Server.Host, c.User.Nick, name, err)
				continue
			}
			ch = newCh
			s.channels[name] = ch
			s.metrics.Channels.Inc()
			log.Printf("[%s] %s created %s", s.config.Server.Host, c.User.Nick, name)
		}

		s.sendToChannel(c, ch, "JOIN "+name, false)
		c.sendReplies([]irc.Reply{
			irc.Topic(ch),
			irc.Names(ch),
			irc.EndOfNames(name),
		})
	}
}

func handlePart(s *Server, c *Client, m *irc.Message) {
	if !requireParams(c, m, 1) {
		return
	}
	reason := m.Trailing(1)

	for _, name := range strings.Split(m.Params[0], ",") {
		ch, ok := s.channels[name]
		if !ok || !ch.Has(c.User) {
			continue
		}
		partChannel(s, c, ch, reason)
	}
}

// partChannel announces the departure, removes the user, and deletes the
// channel if it is now empty. Callers hold s.mu.
func partChannel(s *Server, c *Client, ch *irc.Channel, reason string) {
	msg := "PART " + ch.Name
	if reason != "" {
		msg += " :" + reason
	}
	log.Printf("[%s] %s left %s", s.config.Server.Host, c.User.Nick, ch.Name)
	s.sendToChannel(c, ch, msg, false)
	ch.Remove(c.User)
	s.deleteIfEmpty(ch.Name, ch)
}

func handleTopic(s *Server, c *Client, m *irc.Message) {
	if !requireParams(c, m, 1) {
		return
	}
	ch, ok := s.channels[m.Params[0]]
	if !ok {
		return
	}

	newTopic := m.Trailing(1)
	if newTopic == "" {
		c.sendReply(irc.Topic(ch))
		return
	}
	ch.SetTopic(newTopic)
	c.Send(":" + c.User.Nick + " TOPIC " + ch.Name + " :" + newTopic)
	log.Printf("[%s] %s set topic of %s to %q", s.config.Server.Host, c.User.Nick, ch.Name, newTopic)
}

func handleNames(s *Server, c *Client, m *irc.Message) {
	if len(m.Params) == 0 {
		return
	}
	for _, name := range strings.Split(m.Params[0], ",") {
		if ch, ok := s.channels[name]; ok {
			c.sendReply(irc.Names(ch))
		}
	}
}

func handleList(s *Server, c *Client, m *irc.Message) {
	var names []string
	if len(m.Params) > 0 {
		names = strings.Split(m.Params[0], ",")
	} else {
		for name := range s.channels {
			names = append(names, name)
		}
	}

	var replies []irc.Reply
	for _, name := range names {
		if ch, ok := s.channels[name]; ok {
			replies = append(replies, irc.ChannelList(ch))
		}
	}
	replies = append(replies, irc.ChannelListEnd())
	c.sendReplies(replies)
}

func handleKick(s *Server, c *Client, m *irc.Message) {
	if !requireParams(c, m, 2) {
		return
	}
	channelNames := strings.Split(m.Params[0], ",")
	nicks := strings.Split(m.Params[1], ",")
	reason := m.Trailing(2)

	if len(channelNames) == 1 {
		ch, ok := s.channels[channelNames[0]]
		if !ok || !canKick(c, ch) {
			return
		}
		for _, nick := range nicks {
			kickUser(s, c, ch, nick, reason)
		}
		return
	}

	// With one channel per nick the kicker must hold privileges in every
	// named channel.
	if len(channelNames) != len(nicks) {
		return
	}
	for _, name := range channelNames {
		ch, ok := s.channels[name]
		if !ok || !canKick(c, ch) {
			return
		}
	}
	for i, name := range channelNames {
		kickUser(s, c, s.channels[name], nicks[i], reason)
	}
}

func canKick(c *Client, ch *irc.Channel) bool {
	return ch.IsOperator(c.User) || c.User.IsOperator()
}

// kickUser ejects the named user if they are a plain member of the
// channel. Operators cannot be kicked. Callers hold s.mu.
func kickUser(s *Server, c *Client, ch *irc.Channel, nick, reason string) {
	target := s.clientFromNick(nick)
	if target == nil {
		return
	}
	if _, ok := ch.Members()[target.User.Username]; !ok {
		return
	}

	msg := "KICK " + ch.Name + " " + nick
	if reason != "" {
		msg += " :" + reason
	}
	s.sendToChannel(c, ch, msg, false)
	ch.Remove(target.User)
	s.deleteIfEmpty(ch.Name, ch)
	log.Printf("[%s] %s kicked %s from %s", s.config.Server.Host, c.User.Nick, nick, ch.Name)
}

func handlePrivmsg(s *Server, c *Client, m *irc.Message) {
	if !requireParams(c, m, 2) {
		return
	}
	target := m.Params[0]
	text := m.Trailing(1)

	if ch, ok := s.channels[target]; ok {
		s.sendToChannel(c, ch, "PRIVMSG "+ch.Name+" :"+text, true)
		return
	}

	toClient, ok := s.clients[target]
	if !ok {
		toClient = s.clientFromNick(target)
	}
	if toClient == nil {
		c.sendReply(irc.NoSuchNick(target))
		return
	}
	toClient.Send(":" + c.Identifier() + " PRIVMSG " + toClient.User.Nick + " :" + text)
}

func handleMode(s *Server, c *Client, m *irc.Message) {
	if !requireParams(c, m, 1) {
		return
	}
	target := m.Params[0]
	mode := ""
	if len(m.Params) > 1 {
		mode = m.Params[1]
	}

	if _, ok := s.clients[target]; ok {
		userMode(s, c, target, mode)
	} else if ch, ok := s.channels[target]; ok {
		channelMode(s, c, ch, m, mode)
	}
}

func validUserMode(mode string) bool {
	return len(mode) == 2 &&
		strings.ContainsRune("+-", rune(mode[0])) &&
		strings.ContainsRune("aio", rune(mode[1]))
}

func validChannelMode(mode string) bool {
	return len(mode) == 2 &&
		strings.ContainsRune("+-", rune(mode[0])) &&
		strings.ContainsRune("aimtklo", rune(mode[1]))
}

func userMode(s *Server, c *Client, target, mode string) {
	switch {
	case mode == "":
		c.sendReply(irc.UserModeIs(c.User.ModeString()))
	case !validUserMode(mode):
		c.sendReply(irc.UnknownModeFlag())
	case target != c.User.Nick:
		c.sendReply(irc.UsersDontMatch())
	default:
		add := mode[0] == '+'
		switch mode[1] {
		case 'a':
			c.User.SetAway(add)
		case 'i':
			c.User.SetInvisible(add)
		case 'o':
			c.User.SetOperator(add)
		}
	}
}

func channelMode(s *Server, c *Client, ch *irc.Channel, m *irc.Message, mode string) {
	if strings.HasPrefix(ch.Name, "+") {
		c.sendReply(irc.NoChannelModes(ch.Name))
		return
	}
	if mode == "" {
		c.sendReply(irc.ChannelModeIs(ch))
		return
	}
	if !validChannelMode(mode) {
		flag := byte('?')
		if len(mode) > 1 {
			flag = mode[1]
		}
		c.sendReply(irc.UnknownMode(flag, ch.Name))
		return
	}

	add := mode[0] == '+'
	param := ""
	if len(m.Params) > 2 {
		param = m.Params[2]
	}

	switch mode[1] {
	case 'a':
		ch.SetAnonymous(add)
	case 'i':
		ch.SetInviteOnly(add)
	case 'm':
		ch.SetModerated(add)
	case 't':
		ch.SetTopicRestricted(add)
	case 'l':
		if !add {
			ch.ClearUserLimit()
			return
		}
		limit, err := strconv.Atoi(param)
		if param == "" || err != nil {
			c.sendReply(irc.NeedMoreParams(m.Command))
			return
		}
		ch.SetUserLimit(limit)
	case 'k':
		if !add {
			ch.ClearKey()
			return
		}
		if param == "" {
			c.sendReply(irc.NeedMoreParams(m.Command))
			return
		}
		ch.SetKey(param)
	case 'o':
		if param == "" {
			c.sendReply(irc.NeedMoreParams(m.Command))
			return
		}
		target := s.clientFromNick(param)
		if target == nil {
			return
		}
		if add {
			ch.Promote(target.User)
		} else {
			ch.Demote(target.User)
		}
	}
}
