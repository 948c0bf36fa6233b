package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/tnicklin/screambot/models"
)

// Discord defines the interface for the Discord client.
type Discord interface {
	Start(ctx context.Context) error
	Stop() error
	NotifyOperators(msg string)
}

// Platform is the slice of the chat platform the bot acts on.
type Platform interface {
	// BotID is the bot's own user id, empty before login.
	BotID() string
	Send(channelID, content string) (*discordgo.Message, error)
	DirectMessage(userID, content string) error
	SetNickname(guildID, nickname string) error
	SetActivity(text string) error
	// LookupChannel resolves a channel id the bot can see.
	LookupChannel(channelID string) (models.Channel, bool)
	// GuildIDs lists the guilds in the session state.
	GuildIDs() []string
}
