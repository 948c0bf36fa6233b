package discord

import (
	"fmt"
	"strings"

	"github.com/tnicklin/screambot/models"
)

const (
	shutdownMessage   = "AAAAAAAAAAA SHUTTING DOWN AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
	cantSpeakMessage  = "AAAAAAAAAAAAAA I CAN'T SPEAK THERE AAAAAAAAAAAAAA"
	cantScreamMessage = "AAAAAAAAAAAAAA I CAN'T SCREAM THERE AAAAAAAAAAAAAA"
)

type commandFunc func(c *DefaultDiscord, cfg *models.Config, msg models.Message, args []string)

type command struct {
	rank models.Rank
	run  commandFunc
}

// Syntax: "@Screambot <keyword> [args space delimited]"
var commands = map[string]command{
	"shutdown": {rank: models.RankAdmin, run: (*DefaultDiscord).cmdShutdown},
	"say":      {rank: models.RankDeveloper, run: (*DefaultDiscord).cmdSay},
	"sayin":    {rank: models.RankDeveloper, run: (*DefaultDiscord).cmdSayIn},
	"screamin": {rank: models.RankDeveloper, run: (*DefaultDiscord).cmdScreamIn},
}

// parseCommand drops everything up to the first space (the mention),
// lower-cases the rest and splits it on spaces.
func parseCommand(content string) (string, []string) {
	_, rest, _ := strings.Cut(strings.ToLower(content), " ")
	parts := strings.Split(rest, " ")
	return parts[0], parts[1:]
}

// command executes msg as a command and reports whether one ran. Unknown
// keywords and insufficient ranks run nothing.
func (c *DefaultDiscord) command(cfg *models.Config, msg models.Message) (executed bool) {
	if !strings.Contains(msg.Content, " ") {
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			c.reportError(&CommandError{Content: msg.Content, Err: fmt.Errorf("%v", r)})
			executed = false
		}
	}()

	keyword, args := parseCommand(msg.Content)

	rank := models.RankNone
	if ranks := c.store.Ranks(); ranks != nil {
		rank = ranks.RankOf(msg.AuthorID)
	}

	cmd, ok := commands[keyword]
	if !ok || !rank.AtLeast(cmd.rank) {
		return false
	}

	c.logger.InfoW(msg.Channel.Location()+" received a command",
		"author", msg.AuthorName,
		"command", keyword,
		"rank", rank.String(),
	)
	cmd.run(c, cfg, msg, args)
	return true
}

// cmdShutdown delivers the farewell before exiting so it is not lost.
func (c *DefaultDiscord) cmdShutdown(cfg *models.Config, msg models.Message, _ []string) {
	if _, err := c.send(cfg, msg.Channel, shutdownMessage); err != nil {
		c.logger.ErrorW("failed to send shutdown message", "error", err)
	} else {
		c.logger.InfoW(msg.Channel.Location() + " sent the shutdown message")
	}
	c.logger.WarnW("shutting down on operator request", "author", msg.AuthorName, "code", ExitShutdown)
	c.exit(ExitShutdown)
}

func (c *DefaultDiscord) cmdSay(cfg *models.Config, msg models.Message, args []string) {
	c.sayIn(cfg, msg.Channel, strings.Join(args, " "))
}

// cmdSayIn handles "sayin <channelId> <text...>".
func (c *DefaultDiscord) cmdSayIn(cfg *models.Config, msg models.Message, args []string) {
	target, ok := c.lookupTarget(args)
	if !ok {
		c.sayIn(cfg, msg.Channel, cantSpeakMessage)
		return
	}
	c.sayIn(cfg, target, strings.Join(args[1:], " "))
}

// cmdScreamIn handles "screamin <channelId>".
func (c *DefaultDiscord) cmdScreamIn(cfg *models.Config, msg models.Message, args []string) {
	target, ok := c.lookupTarget(args)
	if !ok {
		c.sayIn(cfg, msg.Channel, cantScreamMessage)
		return
	}
	c.screamIn(cfg, target)
}

func (c *DefaultDiscord) lookupTarget(args []string) (models.Channel, bool) {
	if len(args) == 0 || args[0] == "" {
		return models.Channel{}, false
	}
	return c.platform.LookupChannel(args[0])
}
