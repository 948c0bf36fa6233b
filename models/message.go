package models

import "fmt"

// GuildRef identifies the guild a channel belongs to.
type GuildRef struct {
	ID   string
	Name string
}

// Channel is either a direct message channel (Guild is nil) or a guild
// channel.
type Channel struct {
	ID    string
	Name  string
	Guild *GuildRef
}

func (c Channel) IsDirect() bool {
	return c.Guild == nil
}

// Location renders the channel for log lines.
func (c Channel) Location() string {
	if c.IsDirect() {
		return "[Direct message]"
	}
	return fmt.Sprintf("[%s - #%s]", c.Guild.Name, c.Name)
}

// Message is an inbound chat message.
type Message struct {
	AuthorID   string
	AuthorName string
	Channel    Channel
	Content    string
	// MentionsBot is set when the bot user is among the mentions.
	MentionsBot bool
}
