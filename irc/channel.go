package irc

import (
	"errors"
	"strings"
)

// MaxChannelNameLength caps channel names per RFC 1459 section 1.3.
const MaxChannelNameLength = 50

// ValidChannelPrefixes are the sigils a channel name may start with.
const ValidChannelPrefixes = "&#+!"

var (
	ErrChannelNameTooLong   = errors.New("irc: channel name too long")
	ErrInvalidChannelPrefix = errors.New("irc: invalid channel prefix")
	ErrNoUsername           = errors.New("irc: user has no username")
	ErrAlreadyInChannel     = errors.New("irc: user already in channel")
	ErrNotInChannel         = errors.New("irc: user not in channel")
)

// ChannelModes holds the per-channel mode flags. UserLimit and Key track
// whether a limit or key is currently set.
type ChannelModes struct {
	Anonymous       bool
	InviteOnly      bool
	Moderated       bool
	TopicRestricted bool
	UserLimit       bool
	Key             bool
}

// Channel holds the membership of one channel. Plain members and
// operators live in separate maps keyed by username; a user is never in
// both at once.
type Channel struct {
	Name string

	members   map[string]*User
	operators map[string]*User
	modes     ChannelModes
	topic     string
	key       string
	userLimit int
}

// NewChannel validates the name, makes creator the first operator, and
// optionally sets a join key.
func NewChannel(name string, creator *User, key string) (*Channel, error) {
	if len(name) > MaxChannelNameLength {
		return nil, ErrChannelNameTooLong
	}
	if name == "" || !strings.ContainsRune(ValidChannelPrefixes, rune(name[0])) {
		return nil, ErrInvalidChannelPrefix
	}
	ch := &Channel{
		Name:      name,
		members:   make(map[string]*User),
		operators: make(map[string]*User),
	}
	if err := ch.AddOperator(creator); err != nil {
		return nil, err
	}
	if key != "" {
		ch.SetKey(key)
	}
	return ch, nil
}

// Members returns the non-operator members keyed by username.
func (ch *Channel) Members() map[string]*User { return ch.members }

// Operators returns the channel operators keyed by username.
func (ch *Channel) Operators() map[string]*User { return ch.operators }

// AllUsers returns the union of members and operators keyed by username.
func (ch *Channel) AllUsers() map[string]*User {
	all := make(map[string]*User, len(ch.members)+len(ch.operators))
	for name, u := range ch.members {
		all[name] = u
	}
	for name, u := range ch.operators {
		all[name] = u
	}
	return all
}

// Has reports whether the user is in the channel, as member or operator.
func (ch *Channel) Has(u *User) bool {
	_, member := ch.members[u.Username]
	_, op := ch.operators[u.Username]
	return member || op
}

func (ch *Channel) IsOperator(u *User) bool {
	_, ok := ch.operators[u.Username]
	return ok
}

// AddUser adds a plain member. The user must have a username and must not
// already be in the channel.
func (ch *Channel) AddUser(u *User) error {
	if u.Username == "" {
		return ErrNoUsername
	}
	if ch.Has(u) {
		return ErrAlreadyInChannel
	}
	ch.members[u.Username] = u
	return nil
}

// AddOperator adds a channel operator under the same rules as AddUser.
func (ch *Channel) AddOperator(u *User) error {
	if u.Username == "" {
		return ErrNoUsername
	}
	if ch.Has(u) {
		return ErrAlreadyInChannel
	}
	ch.operators[u.Username] = u
	return nil
}

// Remove takes the user out of whichever set they are in.
func (ch *Channel) Remove(u *User) error {
	if _, ok := ch.members[u.Username]; ok {
		delete(ch.members, u.Username)
		return nil
	}
	if _, ok := ch.operators[u.Username]; ok {
		delete(ch.operators, u.Username)
		return nil
	}
	return ErrNotInChannel
}

// Promote moves an existing member into the operator set. Promoting an
// operator is a no-op; promoting a user who is not present adds them as
// operator directly.
func (ch *Channel) Promote(u *User) error {
	if u.Username == "" {
		return ErrNoUsername
	}
	if _, ok := ch.operators[u.Username]; ok {
		return nil
	}
	delete(ch.members, u.Username)
	ch.operators[u.Username] = u
	return nil
}

// Demote moves an operator back into the member set. Demoting a plain
// member is a no-op.
func (ch *Channel) Demote(u *User) error {
	if u.Username == "" {
		return ErrNoUsername
	}
	if _, ok := ch.operators[u.Username]; !ok {
		return nil
	}
	delete(ch.operators, u.Username)
	ch.members[u.Username] = u
	return nil
}

// Empty reports whether nobody is left in the channel.
func (ch *Channel) Empty() bool {
	return len(ch.members) == 0 && len(ch.operators) == 0
}

func (ch *Channel) Topic() string         { return ch.topic }
func (ch *Channel) SetTopic(topic string) { ch.topic = topic }

func (ch *Channel) Key() string { return ch.key }

func (ch *Channel) SetKey(key string) {
	ch.key = key
	ch.modes.Key = true
}

func (ch *Channel) ClearKey() {
	ch.key = ""
	ch.modes.Key = false
}

func (ch *Channel) UserLimit() int { return ch.userLimit }

func (ch *Channel) SetUserLimit(limit int) {
	ch.userLimit = limit
	ch.modes.UserLimit = true
}

func (ch *Channel) ClearUserLimit() {
	ch.userLimit = 0
	ch.modes.UserLimit = false
}

func (ch *Channel) SetAnonymous(v bool)       { ch.modes.Anonymous = v }
func (ch *Channel) SetInviteOnly(v bool)      { ch.modes.InviteOnly = v }
func (ch *Channel) SetModerated(v bool)       { ch.modes.Moderated = v }
func (ch *Channel) SetTopicRestricted(v bool) { ch.modes.TopicRestricted = v }

// ModeString renders the active flags in "aimtlk" order.
func (ch *Channel) ModeString() string {
	modes := ""
	if ch.modes.Anonymous {
		modes += "a"
	}
	if ch.modes.InviteOnly {
		modes += "i"
	}
	if ch.modes.Moderated {
		modes += "m"
	}
	if ch.modes.TopicRestricted {
		modes += "t"
	}
	if ch.modes.UserLimit {
		modes += "l"
	}
	if ch.modes.Key {
		modes += "k"
	}
	return modes
}
