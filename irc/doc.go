// Package irc contains the protocol-level building blocks of the daemon:
// the line parser, the numeric reply catalog, and the user and channel
// entities. Nothing in this package does I/O or locking; concurrent access
// to users and channels is serialized by the server's registry lock.
package irc
