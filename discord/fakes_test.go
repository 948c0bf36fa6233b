package discord

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/tnicklin/screambot/logger"
	"github.com/tnicklin/screambot/models"
	"github.com/tnicklin/screambot/reply"
)

const botID = "bot"

type sent struct {
	channelID string
	content   string
}

type fakePlatform struct {
	mu            sync.Mutex
	sent          []sent
	dms           map[string][]string
	nicknames     map[string]string
	activities    []string
	channels      map[string]models.Channel
	guilds        []string
	failDM        map[string]bool
	failSend      bool
	panicOnLookup bool
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		dms:       map[string][]string{},
		nicknames: map[string]string{},
		channels:  map[string]models.Channel{},
		failDM:    map[string]bool{},
	}
}

func (f *fakePlatform) BotID() string { return botID }

func (f *fakePlatform) Send(channelID, content string) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSend {
		return nil, errors.New("missing access")
	}
	f.sent = append(f.sent, sent{channelID: channelID, content: content})
	return &discordgo.Message{ChannelID: channelID, Content: content}, nil
}

func (f *fakePlatform) DirectMessage(userID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDM[userID] {
		return errors.New("cannot send messages to this user")
	}
	f.dms[userID] = append(f.dms[userID], content)
	return nil
}

func (f *fakePlatform) SetNickname(guildID, nickname string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nicknames[guildID] = nickname
	return nil
}

func (f *fakePlatform) SetActivity(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activities = append(f.activities, text)
	return nil
}

func (f *fakePlatform) LookupChannel(channelID string) (models.Channel, bool) {
	if f.panicOnLookup {
		panic("lookup exploded")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.channels[channelID]
	return ch, ok
}

func (f *fakePlatform) GuildIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.guilds...)
}

func (f *fakePlatform) sentMessages() []sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sent(nil), f.sent...)
}

func (f *fakePlatform) dmsTo(userID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.dms[userID]...)
}

func (f *fakePlatform) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
	f.dms = map[string][]string{}
}

type fakeStore struct {
	mu        sync.Mutex
	config    *models.Config
	ranks     *models.Ranks
	loadErr   error
	loadCalls int
}

func (f *fakeStore) LoadConfig(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadCalls++
	return f.loadErr
}

func (f *fakeStore) LoadRanks(ctx context.Context) error { return nil }

func (f *fakeStore) Config() *models.Config {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.config
}

func (f *fakeStore) Ranks() *models.Ranks {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ranks
}

type exitRecorder struct {
	mu    sync.Mutex
	codes []int
}

func (e *exitRecorder) exit(code int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.codes = append(e.codes, code)
}

func (e *exitRecorder) calls() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]int(nil), e.codes...)
}

type harness struct {
	bot      *DefaultDiscord
	platform *fakePlatform
	store    *fakeStore
	exits    *exitRecorder
}

// Channel fixtures.
var (
	allowedChannel = models.Channel{ID: "100", Name: "general", Guild: &models.GuildRef{ID: "900", Name: "Home"}}
	otherAllowed   = models.Channel{ID: "101", Name: "screams", Guild: &models.GuildRef{ID: "900", Name: "Home"}}
	blockedChannel = models.Channel{ID: "200", Name: "serious", Guild: &models.GuildRef{ID: "900", Name: "Home"}}
	directChannel  = models.Channel{ID: "300"}
)

func testConfig() *models.Config {
	return &models.Config{
		Channels: map[string]models.ChannelEntry{
			"general": {ID: allowedChannel.ID, Name: "general"},
			"screams": {ID: otherAllowed.ID, Name: "screams"},
		},
		Nicknames: map[string]models.NicknameEntry{
			"home": {ID: "900", Name: "Screamer"},
		},
		DoNotReplyIDs:     []string{"muted"},
		RandomReplyChance: 0,
		Activity:          "screaming",
	}
}

func testRanks() *models.Ranks {
	return &models.Ranks{Admins: []string{"admin"}, Devs: []string{"dev", "dev2"}}
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	fp := newFakePlatform()
	for _, ch := range []models.Channel{allowedChannel, otherAllowed, blockedChannel} {
		fp.channels[ch.ID] = ch
	}
	fs := &fakeStore{config: testConfig(), ranks: testRanks()}
	exits := &exitRecorder{}

	bot, err := New(Params{
		Platform: fp,
		Store:    fs,
		Replies:  reply.NewWithSeed(42),
		Logger:   logger.NewNop(),
		Exit:     exits.exit,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return &harness{bot: bot, platform: fp, store: fs, exits: exits}
}

func (h *harness) deliver(msg models.Message) []sent {
	h.bot.route(msg)
	h.bot.wait()
	return h.platform.sentMessages()
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
