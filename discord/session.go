package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/tnicklin/screambot/models"
)

var _ Platform = (*gateway)(nil)

// gateway adapts a discordgo session to Platform.
type gateway struct {
	session *discordgo.Session
}

func (g *gateway) BotID() string {
	if g.session.State == nil || g.session.State.User == nil {
		return ""
	}
	return g.session.State.User.ID
}

func (g *gateway) Send(channelID, content string) (*discordgo.Message, error) {
	return g.session.ChannelMessageSend(channelID, content)
}

func (g *gateway) DirectMessage(userID, content string) error {
	ch, err := g.session.UserChannelCreate(userID)
	if err != nil {
		return err
	}
	_, err = g.session.ChannelMessageSend(ch.ID, content)
	return err
}

func (g *gateway) SetNickname(guildID, nickname string) error {
	return g.session.GuildMemberNickname(guildID, "@me", nickname)
}

func (g *gateway) SetActivity(text string) error {
	return g.session.UpdateGameStatus(0, text)
}

func (g *gateway) LookupChannel(channelID string) (models.Channel, bool) {
	if channelID == "" {
		return models.Channel{}, false
	}
	ch, err := g.session.State.Channel(channelID)
	if err != nil {
		ch, err = g.session.Channel(channelID)
		if err != nil {
			return models.Channel{}, false
		}
	}
	return toChannel(g.session.State, ch), true
}

func (g *gateway) GuildIDs() []string {
	st := g.session.State
	st.RLock()
	defer st.RUnlock()

	ids := make([]string, 0, len(st.Guilds))
	for _, guild := range st.Guilds {
		ids = append(ids, guild.ID)
	}
	return ids
}

func toChannel(st *discordgo.State, ch *discordgo.Channel) models.Channel {
	out := models.Channel{ID: ch.ID, Name: ch.Name}
	if ch.Type == discordgo.ChannelTypeDM || ch.Type == discordgo.ChannelTypeGroupDM || ch.GuildID == "" {
		return out
	}
	out.Guild = &models.GuildRef{ID: ch.GuildID, Name: guildName(st, ch.GuildID)}
	return out
}

func guildName(st *discordgo.State, guildID string) string {
	if st == nil {
		return guildID
	}
	if g, err := st.Guild(guildID); err == nil && g.Name != "" {
		return g.Name
	}
	return guildID
}

// toMessage converts a gateway message. Messages without a guild id came
// through a direct message channel.
func toMessage(st *discordgo.State, botID string, m *discordgo.Message) models.Message {
	msg := models.Message{
		Channel: models.Channel{ID: m.ChannelID},
		Content: m.Content,
	}
	if m.Author != nil {
		msg.AuthorID = m.Author.ID
		msg.AuthorName = m.Author.Username
	}

	if m.GuildID != "" {
		msg.Channel.Guild = &models.GuildRef{ID: m.GuildID, Name: guildName(st, m.GuildID)}
		msg.Channel.Name = m.ChannelID
		if st != nil {
			if ch, err := st.Channel(m.ChannelID); err == nil {
				msg.Channel.Name = ch.Name
			}
		}
	}

	for _, u := range m.Mentions {
		if u != nil && botID != "" && u.ID == botID {
			msg.MentionsBot = true
			break
		}
	}
	return msg
}
