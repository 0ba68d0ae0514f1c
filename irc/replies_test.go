package irc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWelcome(t *testing.T) {
	r := Welcome("nick", "user", "1.2.3.4")
	assert.Equal(t, "001", r.Code)
	assert.Equal(t, ":Welcome to the Internet Relay Network nick!user@1.2.3.4", r.Text)
}

func TestNeedMoreParams(t *testing.T) {
	r := NeedMoreParams("PASS")
	assert.Equal(t, "461", r.Code)
	assert.Equal(t, "PASS :Not enough parameters", r.Text)
}

func TestNames(t *testing.T) {
	ch, err := NewChannel("#chat", testUser("zed", "zed"), "")
	require.NoError(t, err)
	require.NoError(t, ch.AddOperator(testUser("alice", "alice")))
	require.NoError(t, ch.AddUser(testUser("carol", "carol")))
	require.NoError(t, ch.AddUser(testUser("bob", "bob")))

	r := Names(ch)
	assert.Equal(t, "353", r.Code)
	assert.Equal(t, "= #chat :@alice @zed bob carol", r.Text)
}

func TestTopic(t *testing.T) {
	ch, err := NewChannel("#chat", testUser("alice", "alice"), "")
	require.NoError(t, err)

	r := Topic(ch)
	assert.Equal(t, "331", r.Code)
	assert.Equal(t, "#chat :No topic is set", r.Text)

	ch.SetTopic("hello world")
	r = Topic(ch)
	assert.Equal(t, "332", r.Code)
	assert.Equal(t, "#chat :hello world", r.Text)
}

func TestUserHost(t *testing.T) {
	u := testUser("alice", "alice")
	r := UserHost(u, "alice!alice@1.2.3.4")
	assert.Equal(t, "302", r.Code)
	assert.Equal(t, ":alice=+alice!alice@1.2.3.4", r.Text)

	u.SetOperator(true)
	u.SetAway(true)
	r = UserHost(u, "alice!alice@1.2.3.4")
	assert.Equal(t, ":alice*=-alice!alice@1.2.3.4", r.Text)
}

func TestChannelList(t *testing.T) {
	ch, err := NewChannel("#chat", testUser("alice", "alice"), "")
	require.NoError(t, err)
	ch.SetTopic("the topic")

	r := ChannelList(ch)
	assert.Equal(t, "322", r.Code)
	assert.Equal(t, "#chat 1 :the topic", r.Text)
	assert.Equal(t, Reply{"323", ":End of LIST"}, ChannelListEnd())
}

func TestUnknownMode(t *testing.T) {
	r := UnknownMode('x', "#chat")
	assert.Equal(t, "472", r.Code)
	assert.Equal(t, "x :is unknown mode char to me for #chat", r.Text)
}
