package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// ChannelEntry names a channel by id.
type ChannelEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NicknameEntry is the nickname to use in the guild with the given id.
type NicknameEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Config is the operational document. Values are treated as immutable
// once parsed; reloads produce a new Config.
type Config struct {
	Channels          map[string]ChannelEntry  `json:"channels"`
	Nicknames         map[string]NicknameEntry `json:"nicknames"`
	DoNotReplyIDs     []string                 `json:"donotreply"`
	RandomReplyChance float64                  `json:"randomreplychance"`
	Activity          string                   `json:"activity"`
}

// Ranks is the rank document.
type Ranks struct {
	Admins []string `json:"admins"`
	Devs   []string `json:"devs"`
}

// ParseError reports a malformed document.
type ParseError struct {
	Document string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Document, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var errNotObject = errors.New("document must be a JSON object")

// ParseConfig decodes a configuration document.
func ParseConfig(body []byte) (*Config, error) {
	var cfg Config
	if err := decodeObject(body, &cfg); err != nil {
		return nil, &ParseError{Document: "config", Err: err}
	}
	if cfg.RandomReplyChance < 0 || cfg.RandomReplyChance > 100 {
		return nil, &ParseError{
			Document: "config",
			Err:      fmt.Errorf("randomreplychance %v out of range [0, 100]", cfg.RandomReplyChance),
		}
	}
	return &cfg, nil
}

// ParseRanks decodes a rank document.
func ParseRanks(body []byte) (*Ranks, error) {
	var ranks Ranks
	if err := decodeObject(body, &ranks); err != nil {
		return nil, &ParseError{Document: "ranks", Err: err}
	}
	return &ranks, nil
}

func decodeObject(body []byte, v any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return errNotObject
	}
	return json.Unmarshal(trimmed, v)
}

// ChannelAllowed reports whether channelID is one of the configured channels.
func (c *Config) ChannelAllowed(channelID string) bool {
	for _, ch := range c.Channels {
		if ch.ID == channelID {
			return true
		}
	}
	return false
}

// DoNotReply reports whether userID must never be replied to.
func (c *Config) DoNotReply(userID string) bool {
	return slices.Contains(c.DoNotReplyIDs, userID)
}

// NicknameFor returns the nickname configured for guildID. Entries are
// matched on their id, falling back to the map key when the id is empty.
func (c *Config) NicknameFor(guildID string) (string, bool) {
	for key, n := range c.Nicknames {
		id := n.ID
		if id == "" {
			id = key
		}
		if id == guildID {
			return n.Name, true
		}
	}
	return "", false
}

// RankOf returns the highest rank held by userID.
func (r *Ranks) RankOf(userID string) Rank {
	if slices.Contains(r.Devs, userID) {
		return RankDeveloper
	}
	if slices.Contains(r.Admins, userID) {
		return RankAdmin
	}
	return RankNone
}
