package core

import (
	"slices"

	"github.com/samber/lo"
)

// Channel groups sessions subscribed to the same name. Members are kept in
// join order so broadcast delivery order is deterministic.
type Channel struct {
	Name    string
	members []*Session
}

// Members returns a snapshot of the member list. Broadcasts operate on the
// snapshot taken at dispatch time.
func (c *Channel) Members() []*Session {
	return slices.Clone(c.members)
}

// Empty returns true if no sessions are in the channel.
func (c *Channel) Empty() bool {
	return len(c.members) == 0
}

// Channels maps channel names to channels. Channels are created on first join
// and never removed; the listing order is the order of first creation.
type Channels struct {
	order  []string
	byName map[string]*Channel
}

// NewChannels constructs an empty channel registry.
func NewChannels() *Channels {
	return &Channels{byName: make(map[string]*Channel)}
}

// Join subscribes the session, creating the channel on first use. A session
// belongs to at most one channel; joining while joined fails.
func (cs *Channels) Join(s *Session, name string) (*Channel, *CoreError) {
	if s.channel != nil {
		return nil, errAlreadyInChannel(s.channel.Name)
	}

	ch, ok := cs.byName[name]
	if !ok {
		ch = &Channel{Name: name}
		cs.byName[name] = ch
		cs.order = append(cs.order, name)
	}

	ch.members = append(ch.members, s)
	s.channel = ch
	return ch, nil
}

// Leave unsubscribes the session from its current channel. The channel entry
// is retained even when it ends up empty.
func (cs *Channels) Leave(s *Session) (*Channel, *CoreError) {
	if s.channel == nil {
		return nil, errNotInChannel()
	}

	ch := s.channel
	ch.members = lo.Without(ch.members, s)
	s.channel = nil
	return ch, nil
}

// Remove drops the session from its channel, if any. Used on disconnect where
// a missing membership is not an error.
func (cs *Channels) Remove(s *Session) {
	if s.channel == nil {
		return
	}
	s.channel.members = lo.Without(s.channel.members, s)
	s.channel = nil
}

// Names lists every channel created so far, in creation order.
func (cs *Channels) Names() []string {
	return slices.Clone(cs.order)
}

// MembersOf returns the members of the named channel, empty if unknown.
func (cs *Channels) MembersOf(name string) []*Session {
	ch, ok := cs.byName[name]
	if !ok {
		return nil
	}
	return ch.Members()
}
