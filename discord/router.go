package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/tnicklin/screambot/models"
	"github.com/tnicklin/screambot/reply"
)

func (c *DefaultDiscord) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Message == nil || m.Author == nil {
		return
	}

	// Prevent panic from crashing the whole bot
	defer func() {
		if r := recover(); r != nil {
			c.logger.ErrorW("message handler panicked", "panic", r)
		}
	}()

	c.route(toMessage(s.State, c.platform.BotID(), m.Message))
}

// route decides what to do with one inbound message. The first matching
// rule wins.
func (c *DefaultDiscord) route(msg models.Message) {
	cfg := c.store.Config()
	if cfg == nil {
		return
	}

	if cfg.DoNotReply(msg.AuthorID) || msg.AuthorID == c.platform.BotID() {
		return
	}
	if !cfg.ChannelAllowed(msg.Channel.ID) && !msg.Channel.IsDirect() {
		return
	}

	where := msg.Channel.Location()

	switch {
	case msg.MentionsBot:
		if c.command(cfg, msg) {
			return
		}
		c.logger.InfoW(where+" pinged", "author", msg.AuthorName)
		c.screamIn(cfg, msg.Channel)

	case reply.IsScream(msg.Content):
		c.logger.InfoW(where+" screamed", "author", msg.AuthorName)
		c.screamIn(cfg, msg.Channel)

	case msg.Channel.IsDirect():
		c.logger.InfoW(where+" direct message", "author", msg.AuthorName)
		c.screamIn(cfg, msg.Channel)

	case c.replies.Roll(cfg.RandomReplyChance):
		c.logger.InfoW(where+" random reply", "author", msg.AuthorName)
		c.screamIn(cfg, msg.Channel)
	}
}

// send delivers text to ch if the bot may speak there.
func (c *DefaultDiscord) send(cfg *models.Config, ch models.Channel, text string) (*discordgo.Message, error) {
	if !ch.IsDirect() && !cfg.ChannelAllowed(ch.ID) {
		return nil, &SendError{Channel: ch, Err: ErrChannelNotAllowed}
	}
	m, err := c.platform.Send(ch.ID, text)
	if err != nil {
		return nil, &SendError{Channel: ch, Err: err}
	}
	return m, nil
}

// sayIn sends text to ch in the background.
func (c *DefaultDiscord) sayIn(cfg *models.Config, ch models.Channel, text string) {
	c.spawn(func() {
		if _, err := c.send(cfg, ch, text); err != nil {
			c.reportError(err)
			return
		}
		c.logger.InfoW(ch.Location()+" sent message", "content", text)
	})
}

// screamIn sends a generated scream to ch in the background.
func (c *DefaultDiscord) screamIn(cfg *models.Config, ch models.Channel) {
	scream := c.replies.Scream()
	c.spawn(func() {
		if _, err := c.send(cfg, ch, scream); err != nil {
			c.reportError(err)
			return
		}
		c.logger.InfoW(ch.Location()+" screamed back", "length", len(scream))
	})
}
