package discord

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/tnicklin/screambot/logger"
	"github.com/tnicklin/screambot/models"
	"github.com/tnicklin/screambot/reply"
	"github.com/tnicklin/screambot/store"
)

var (
	_ Discord        = (*DefaultDiscord)(nil)
	_ store.Observer = (*DefaultDiscord)(nil)
)

const (
	// ExitShutdown is the exit code of an operator-triggered shutdown.
	ExitShutdown = 0
	// ExitFatal is the exit code after a fatal configuration error.
	ExitFatal = 1
)

// Intents requested from the gateway.
const Intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsDirectMessages |
	discordgo.IntentsMessageContent

type DefaultDiscord struct {
	session  *discordgo.Session
	platform Platform
	store    store.Store
	replies  reply.Generator
	logger   logger.Logger
	exit     func(code int)

	announceLogin bool
	maxDMs        int

	ctx            context.Context
	removeHandlers []func()

	mu          sync.Mutex
	knownGuilds map[string]struct{}

	// In-flight fire-and-forget sends.
	tasks sync.WaitGroup
}

type Params struct {
	Config Config
	// Session is created from Config.Token when nil.
	Session *discordgo.Session
	// Platform overrides the adapter built over Session.
	Platform Platform
	Store    store.Store
	Replies  reply.Generator
	Logger   logger.Logger
	// Exit terminates the process. Defaults to os.Exit.
	Exit func(code int)
}

func New(p Params) (*DefaultDiscord, error) {
	cfg := p.Config
	cfg.Defaults()

	if p.Store == nil {
		return nil, errors.New("discord: store is required")
	}

	session := p.Session
	platform := p.Platform
	if platform == nil {
		if session == nil {
			s, err := discordgo.New("Bot " + cfg.Token)
			if err != nil {
				return nil, fmt.Errorf("create discord session: %w", err)
			}
			session = s
		}
		session.Identify.Intents = Intents
		platform = &gateway{session: session}
	}

	log := p.Logger
	if log == nil {
		log = logger.NewNop()
	}

	replies := p.Replies
	if replies == nil {
		replies = reply.New()
	}

	exit := p.Exit
	if exit == nil {
		exit = os.Exit
	}

	return &DefaultDiscord{
		session:       session,
		platform:      platform,
		store:         p.Store,
		replies:       replies,
		logger:        log,
		exit:          exit,
		announceLogin: cfg.AnnounceLogin,
		maxDMs:        cfg.MaxConcurrentDMs,
		ctx:           context.Background(),
		knownGuilds:   make(map[string]struct{}),
	}, nil
}

// Start registers the event handlers and opens the gateway connection.
// The configuration is loaded once the session is ready.
func (c *DefaultDiscord) Start(ctx context.Context) error {
	if c.session == nil {
		return errors.New("discord session is nil")
	}
	c.ctx = ctx

	c.removeHandlers = append(c.removeHandlers,
		c.session.AddHandler(c.handleReady),
		c.session.AddHandler(c.handleMessage),
		c.session.AddHandler(c.handleGuildCreate),
		c.session.AddHandler(c.handleGuildDelete),
	)

	c.logger.InfoW("logging in")
	if err := c.session.Open(); err != nil {
		return fmt.Errorf("open discord connection: %w", err)
	}
	return nil
}

// Stop removes the handlers, drains in-flight sends and closes the session.
func (c *DefaultDiscord) Stop() error {
	for _, remove := range c.removeHandlers {
		remove()
	}
	c.removeHandlers = nil

	c.wait()

	if c.session == nil {
		return nil
	}
	return c.session.Close()
}

// spawn runs fn as an independent task. Its result is only logged.
func (c *DefaultDiscord) spawn(fn func()) {
	c.tasks.Add(1)
	go func() {
		defer c.tasks.Done()
		fn()
	}()
}

func (c *DefaultDiscord) wait() {
	c.tasks.Wait()
}

func (c *DefaultDiscord) handleReady(_ *discordgo.Session, r *discordgo.Ready) {
	ids := make([]string, 0, len(r.Guilds))
	for _, g := range r.Guilds {
		ids = append(ids, g.ID)
	}
	tag := ""
	if r.User != nil {
		tag = r.User.String()
	}
	c.onReady(tag, ids)
}

func (c *DefaultDiscord) onReady(tag string, guildIDs []string) {
	c.mu.Lock()
	for _, id := range guildIDs {
		c.knownGuilds[id] = struct{}{}
	}
	c.mu.Unlock()

	c.logger.InfoW("logged in", "user", tag, "guilds", len(guildIDs))
	if c.announceLogin {
		c.NotifyOperators("Logged in.")
	}

	if err := c.store.LoadConfig(c.ctx); err != nil {
		if errors.Is(err, store.ErrFirstLoad) {
			c.Crash(err)
			return
		}
		c.logger.WarnW("config reload on ready failed", "error", err)
	}
}

// ConfigLoaded applies the activity and the per-guild nicknames of a
// freshly loaded configuration.
func (c *DefaultDiscord) ConfigLoaded(cfg *models.Config) {
	activity := cfg.Activity
	c.spawn(func() {
		if err := c.platform.SetActivity(activity); err != nil {
			c.reportError(fmt.Errorf("set activity: %w", err))
			return
		}
		c.logger.InfoW("set activity", "activity", activity)
	})

	for _, id := range c.platform.GuildIDs() {
		c.applyNickname(cfg, id)
	}
}

func (c *DefaultDiscord) applyNickname(cfg *models.Config, guildID string) {
	nickname, ok := cfg.NicknameFor(guildID)
	if !ok {
		return
	}
	c.spawn(func() {
		if err := c.platform.SetNickname(guildID, nickname); err != nil {
			c.reportError(fmt.Errorf("set nickname in %s: %w", guildID, err))
			return
		}
		c.logger.InfoW("custom nickname", "guild", guildID, "nickname", nickname)
	})
}

func (c *DefaultDiscord) handleGuildCreate(_ *discordgo.Session, g *discordgo.GuildCreate) {
	if g.Guild == nil {
		return
	}
	c.onGuildCreate(g.ID, g.Name, g.MemberCount)
}

// onGuildCreate also fires for guilds that become available after login;
// only guilds missing from the ready payload are new.
func (c *DefaultDiscord) onGuildCreate(id, name string, members int) {
	c.mu.Lock()
	_, known := c.knownGuilds[id]
	c.knownGuilds[id] = struct{}{}
	c.mu.Unlock()

	if cfg := c.store.Config(); cfg != nil {
		c.applyNickname(cfg, id)
	}
	if known {
		return
	}

	c.logger.InfoW("added to a new server", "guild", name, "id", id, "members", members)
	c.NotifyOperators(fmt.Sprintf(`---------------------------------
Screambot has been added to a new server.
%s (ID: %s)
%d members
---------------------------------`, name, id, members))
}

func (c *DefaultDiscord) handleGuildDelete(_ *discordgo.Session, g *discordgo.GuildDelete) {
	if g.Guild == nil {
		return
	}
	name := g.Name
	if g.BeforeDelete != nil && g.BeforeDelete.Name != "" {
		name = g.BeforeDelete.Name
	}
	c.onGuildDelete(g.ID, name, g.Unavailable)
}

func (c *DefaultDiscord) onGuildDelete(id, name string, unavailable bool) {
	if unavailable {
		c.logger.WarnW("guild became unavailable", "guild", name, "id", id)
		return
	}

	c.mu.Lock()
	delete(c.knownGuilds, id)
	c.mu.Unlock()

	c.logger.InfoW("removed from a server", "guild", name, "id", id)
	c.NotifyOperators(fmt.Sprintf(`---------------------------------
Screambot has been removed from a server.
%s (ID: %s)
---------------------------------`, name, id))
}
