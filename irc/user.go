package irc

import "errors"

// MaxNickLength caps nicknames per RFC 1459 section 1.2.
const MaxNickLength = 9

var ErrNickTooLong = errors.New("irc: nick is too long")

// UserModes holds the per-user mode flags.
type UserModes struct {
	Away      bool
	Invisible bool
	Operator  bool
}

// User is one client's registration state. A user starts with the
// placeholder nick "*" and no username; setting the username is what
// registers them.
type User struct {
	Nick     string
	Username string
	Realname string
	Password string

	modes UserModes
}

func NewUser() *User {
	return &User{Nick: "*"}
}

// SetNick replaces the nick, rejecting names over MaxNickLength.
func (u *User) SetNick(nick string) error {
	if len(nick) > MaxNickLength {
		return ErrNickTooLong
	}
	u.Nick = nick
	return nil
}

// ModeString renders the active flags in "aio" order.
func (u *User) ModeString() string {
	modes := ""
	if u.modes.Away {
		modes += "a"
	}
	if u.modes.Invisible {
		modes += "i"
	}
	if u.modes.Operator {
		modes += "o"
	}
	return modes
}

func (u *User) IsAway() bool        { return u.modes.Away }
func (u *User) SetAway(v bool)      { u.modes.Away = v }
func (u *User) IsInvisible() bool   { return u.modes.Invisible }
func (u *User) SetInvisible(v bool) { u.modes.Invisible = v }
func (u *User) IsOperator() bool    { return u.modes.Operator }
func (u *User) SetOperator(v bool)  { u.modes.Operator = v }
