package monitor

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// DiscordNotifier posts monitor alerts to a Discord channel.
type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

// NewDiscordNotifier opens a Discord session for alerting.
func NewDiscordNotifier(token, channelID string) (*DiscordNotifier, error) {
	if token == "" || channelID == "" {
		return nil, fmt.Errorf("monitor: discord token and channel are required")
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("monitor: discord session: %w", err)
	}
	if err := session.Open(); err != nil {
		return nil, fmt.Errorf("monitor: discord open: %w", err)
	}

	return &DiscordNotifier{session: session, channelID: channelID}, nil
}

// Alert posts a hit to the configured channel.
func (n *DiscordNotifier) Alert(hit Hit) error {
	embed := &discordgo.MessageEmbed{
		Title: "Misinformation alert",
		Description: fmt.Sprintf("**%s**\nVerdict: %s (confidence %.2f)",
			hit.Headline, hit.Status, hit.Confidence),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Monitor", Value: hit.MonitorID, Inline: true},
			{Name: "Keywords", Value: strings.Join(hit.Keywords, ", "), Inline: true},
		},
		Color: 0xcc3333,
	}
	if hit.Link != "" {
		embed.URL = hit.Link
	}

	_, err := n.session.ChannelMessageSendEmbed(n.channelID, embed)
	if err != nil {
		return fmt.Errorf("monitor: send alert: %w", err)
	}
	return nil
}

// Close shuts down the Discord session.
func (n *DiscordNotifier) Close() error {
	return n.session.Close()
}
