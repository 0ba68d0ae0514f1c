package irc

import "strings"

// Message is a single client line split into its syntactic parts. The
// parser performs no validation beyond tokenizing; handlers decide what
// the params mean.
type Message struct {
	Prefix  string
	Command string
	Params  []string
}

// ParseMessage splits a raw line on single spaces. A leading token that
// starts with ':' becomes the prefix, the next token the command (folded
// to upper case), everything after that the params. An empty line yields
// a Message with an empty command.
func ParseMessage(raw string) *Message {
	m := &Message{}
	tokens := strings.Split(raw, " ")
	if len(tokens) > 0 && strings.HasPrefix(tokens[0], ":") {
		m.Prefix = tokens[0][1:]
		tokens = tokens[1:]
	}
	if len(tokens) > 0 {
		m.Command = strings.ToUpper(tokens[0])
		tokens = tokens[1:]
	}
	m.Params = tokens
	return m
}

// Trailing joins the params from index i onward back into free text,
// stripping one leading ':' if present. Returns "" when i is out of range.
func (m *Message) Trailing(i int) string {
	if i >= len(m.Params) {
		return ""
	}
	text := strings.Join(m.Params[i:], " ")
	return strings.TrimPrefix(text, ":")
}

// String reassembles the message into wire form, without line ending.
func (m *Message) String() string {
	var b strings.Builder
	if m.Prefix != "" {
		b.WriteString(":")
		b.WriteString(m.Prefix)
		b.WriteString(" ")
	}
	b.WriteString(m.Command)
	for _, p := range m.Params {
		b.WriteString(" ")
		b.WriteString(p)
	}
	return b.String()
}

// FormatIdentifier builds the nick!user@host form used as the source of
// relayed commands.
func FormatIdentifier(nick, user, host string) string {
	return nick + "!" + user + "@" + host
}
