package discord

import (
	"errors"
	"fmt"

	"github.com/tnicklin/screambot/models"
)

// ErrChannelNotAllowed is returned when sending to a guild channel that is
// not configured.
var ErrChannelNotAllowed = errors.New("not allowed to scream in this channel")

var errNoRanks = errors.New("developer list not loaded")

// SendError reports a message the platform did not accept.
type SendError struct {
	Channel models.Channel
	Err     error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send to %s: %v", e.Channel.Location(), e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

// CommandError reports a failure while dispatching a command.
type CommandError struct {
	Content string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("a command caused an error: %q: %v", e.Content, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }
