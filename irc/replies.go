package irc

import (
	"fmt"
	"sort"
	"strings"
)

// Reply is a numeric reply before it is addressed to a client. The server
// prepends its own prefix and the target nick when writing it out.
type Reply struct {
	Code string
	Text string
}

func Welcome(nick, username, host string) Reply {
	return Reply{"001", fmt.Sprintf(":Welcome to the Internet Relay Network %s!%s@%s", nick, username, host)}
}

func YourHost(serverName, version string) Reply {
	return Reply{"002", fmt.Sprintf(":Your host is %s, running version %s", serverName, version)}
}

func Created(date string) Reply {
	return Reply{"003", ":This server was created " + date}
}

func MyInfo(serverName, version, userModes, channelModes string) Reply {
	return Reply{"004", fmt.Sprintf(":%s %s %s %s", serverName, version, userModes, channelModes)}
}

func NeedMoreParams(command string) Reply {
	return Reply{"461", command + " :Not enough parameters"}
}

func AlreadyRegistered() Reply {
	return Reply{"462", ":Unauthorized command (already registered)"}
}

func NoNickGiven() Reply {
	return Reply{"431", ":No nickname given"}
}

func NickInUse(nick string) Reply {
	return Reply{"433", nick + " :Nickname is already in use"}
}

func ErroneousNick(nick string) Reply {
	return Reply{"432", nick + " :Erroneous nickname"}
}

func ChannelModeIs(ch *Channel) Reply {
	return Reply{"324", ch.Name + " +" + ch.ModeString()}
}

func MOTDStart(serverName string) Reply {
	return Reply{"375", fmt.Sprintf(":- %s Message of the day - ", serverName)}
}

func MOTD(line string) Reply {
	return Reply{"372", ":- " + line}
}

func EndOfMOTD() Reply {
	return Reply{"376", ":End of MOTD command"}
}

func YoureOper() Reply {
	return Reply{"381", ":You are now an IRC operator"}
}

func UsersStart() Reply {
	return Reply{"392", ":UserID   Terminal  Host"}
}

func Users(u *User, identifier string) Reply {
	return Reply{"393", fmt.Sprintf(":%s * %s", u.Username, identifier)}
}

func EndOfUsers() Reply {
	return Reply{"394", ":End of users"}
}

func NoUsers() Reply {
	return Reply{"395", ":Nobody logged in"}
}

func UserModeIs(modes string) Reply {
	return Reply{"221", "+" + modes}
}

func LUserClient(users, services int) Reply {
	return Reply{"251", fmt.Sprintf(":There are %d users and %d services on 1 server", users, services)}
}

func LUserOp(ops int) Reply {
	return Reply{"252", fmt.Sprintf("%d :operator(s) online", ops)}
}

func LUserUnknown(unknown int) Reply {
	return Reply{"253", fmt.Sprintf("%d :unknown connection(s)", unknown)}
}

func LUserChannels(channels int) Reply {
	return Reply{"254", fmt.Sprintf("%d :channels formed", channels)}
}

func LUserMe(clients int) Reply {
	return Reply{"255", fmt.Sprintf(":I have %d clients and 0 servers", clients)}
}

func NoSuchNick(nick string) Reply {
	return Reply{"401", nick + " :No such nick/channel"}
}

func NoSuchChannel(name string) Reply {
	return Reply{"403", name + " :No such channel"}
}

func UsersDisabled() Reply {
	return Reply{"446", ":USERS has been disabled"}
}

func PasswordMismatch() Reply {
	return Reply{"464", ":Password incorrect"}
}

func BadChannelKey(name string) Reply {
	return Reply{"475", name + " :Cannot join channel (+k)"}
}

// UserHost formats a RPL_USERHOST entry: the nick, a "*" when the user is
// an operator, then "-" for away or "+" for here, then the full identifier.
func UserHost(u *User, identifier string) Reply {
	op := ""
	if u.IsOperator() {
		op = "*"
	}
	here := "+"
	if u.IsAway() {
		here = "-"
	}
	return Reply{"302", fmt.Sprintf(":%s%s=%s%s", u.Nick, op, here, identifier)}
}

func ChannelList(ch *Channel) Reply {
	return Reply{"322", fmt.Sprintf("%s %d :%s", ch.Name, len(ch.AllUsers()), ch.Topic())}
}

func ChannelListEnd() Reply {
	return Reply{"323", ":End of LIST"}
}

func Topic(ch *Channel) Reply {
	if t := ch.Topic(); t != "" {
		return Reply{"332", ch.Name + " :" + t}
	}
	return Reply{"331", ch.Name + " :No topic is set"}
}

// Names lists operators first, prefixed with "@", then plain members.
// Each group is sorted so the reply is deterministic.
func Names(ch *Channel) Reply {
	var ops, members []string
	for name := range ch.Operators() {
		ops = append(ops, "@"+name)
	}
	for name := range ch.Members() {
		members = append(members, name)
	}
	sort.Strings(ops)
	sort.Strings(members)
	all := append(ops, members...)
	return Reply{"353", fmt.Sprintf("= %s :%s", ch.Name, strings.Join(all, " "))}
}

func EndOfNames(name string) Reply {
	return Reply{"366", name + " :End of NAMES list"}
}

func Time(serverName, now string) Reply {
	return Reply{"391", serverName + " :" + now}
}

func UnknownMode(mode byte, channelName string) Reply {
	return Reply{"472", fmt.Sprintf("%c :is unknown mode char to me for %s", mode, channelName)}
}

func NoChannelModes(name string) Reply {
	return Reply{"477", name + " :Channel doesn't support modes"}
}

func UnknownModeFlag() Reply {
	return Reply{"501", ":Unknown MODE flag"}
}

func UsersDontMatch() Reply {
	return Reply{"502", ":Cannot change mode for other users"}
}
