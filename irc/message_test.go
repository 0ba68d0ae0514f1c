package irc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMessage(t *testing.T) {
	m := ParseMessage("PRIVMSG #chat :hello there")
	assert.Equal(t, "", m.Prefix)
	assert.Equal(t, "PRIVMSG", m.Command)
	assert.Equal(t, []string{"#chat", ":hello", "there"}, m.Params)
	assert.Equal(t, "hello there", m.Trailing(1))
}

func TestParseMessagePrefix(t *testing.T) {
	m := ParseMessage(":nick!user@host JOIN #chat")
	assert.Equal(t, "nick!user@host", m.Prefix)
	assert.Equal(t, "JOIN", m.Command)
	assert.Equal(t, []string{"#chat"}, m.Params)
}

func TestParseMessageEmpty(t *testing.T) {
	m := ParseMessage("")
	assert.Equal(t, "", m.Command)
	assert.Empty(t, m.Params)
}

func TestParseMessageLowercaseCommand(t *testing.T) {
	m := ParseMessage("nick somebody")
	assert.Equal(t, "NICK", m.Command)
	assert.Equal(t, []string{"somebody"}, m.Params)
}

func TestTrailingOutOfRange(t *testing.T) {
	m := ParseMessage("PING")
	assert.Equal(t, "", m.Trailing(1))
}

func TestMessageString(t *testing.T) {
	m := &Message{Prefix: "srv", Command: "KICK", Params: []string{"#chat", "bob", ":bye"}}
	assert.Equal(t, ":srv KICK #chat bob :bye", m.String())
}

func TestFormatIdentifier(t *testing.T) {
	assert.Equal(t, "nick!user@1.2.3.4", FormatIdentifier("nick", "user", "1.2.3.4"))
}
