package discord

import (
	"golang.org/x/sync/errgroup"
)

// NotifyOperators DMs every developer in the background.
func (c *DefaultDiscord) NotifyOperators(msg string) {
	c.spawn(func() {
		_ = c.notifyOperators(msg)
	})
}

// notifyOperators DMs every developer and returns the first failure. A
// failed delivery does not stop the others.
func (c *DefaultDiscord) notifyOperators(msg string) error {
	ranks := c.store.Ranks()
	if ranks == nil {
		c.logger.ErrorW("tried to DM the developers before the developer list was loaded, this is not good",
			"message", msg)
		return errNoRanks
	}

	var g errgroup.Group
	g.SetLimit(c.maxDMs)
	for _, id := range ranks.Devs {
		g.Go(func() error {
			if err := c.platform.DirectMessage(id, msg); err != nil {
				c.logger.ErrorW("failed to DM developer", "user", id, "error", err)
				return err
			}
			return nil
		})
	}
	return g.Wait()
}

// reportError logs a non-fatal error and relays it to the developers.
func (c *DefaultDiscord) reportError(err error) {
	c.logger.ErrorW("error", "error", err)
	c.NotifyOperators("ERROR! " + err.Error())
}

// Crash reports a fatal error, waits for the developers to be told, then
// exits.
func (c *DefaultDiscord) Crash(err error) {
	c.logger.ErrorW("fatal error", "error", err)
	_ = c.notifyOperators("ERROR! " + err.Error())
	c.exit(ExitFatal)
}
