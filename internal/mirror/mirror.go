// Package mirror relays published posts to a Discord channel.
package mirror

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Mirror sends generated posts to one channel. Only Discord's REST
// API is used; no gateway connection is opened.
type Mirror struct {
	session   *discordgo.Session
	channelID string
}

func New(token, channelID string) (*Mirror, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}
	return &Mirror{session: s, channelID: channelID}, nil
}

// Publish implements the bot's Publisher interface.
func (m *Mirror) Publish(ctx context.Context, text string) error {
	_, err := m.session.ChannelMessageSend(m.channelID, text, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("mirroring to discord channel %s: %w", m.channelID, err)
	}
	return nil
}
