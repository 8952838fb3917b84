package discord

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/ChocoboBot_Go/internal/logger"
)

// Embed colors
const (
	ColorInfo    = 0x3498db
	ColorSuccess = 0x2ecc71
	ColorWarning = 0xf39c12
	ColorMount   = 0x9b59b6
	ColorMinion  = 0x1abc9c
)

// FooterChocoboBot is the standard embed footer
const FooterChocoboBot = "ChocoboBot"

// respondError replaces the deferred response with a plain message
func respondError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &message,
	}); err != nil {
		slog.Error("Failed to edit interaction response", "error", err)
	}
}

// respondFriendlyError logs err and shows the user a readable version of it
func respondFriendlyError(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	logger.FromContext(ctx).Warn("Command failed", "command", commandPath(i.ApplicationCommandData()), "error", err)
	respondError(s, i, formatFriendlyError(err))
}

// handleEmbedResponse defers the interaction, runs action, and sends either the
// resulting embed or a friendly error
func handleEmbedResponse(
	ctx context.Context,
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	action func() (*discordgo.MessageEmbed, error),
) {
	if !deferResponse(s, i) {
		return
	}

	embed, err := action()
	if err != nil {
		respondFriendlyError(ctx, s, i, err)
		return
	}

	sendEmbed(s, i, embed)
}

// deferResponse acknowledges an interaction with a deferred message.
// Required before any upstream call, which can take longer than 3 seconds.
// Returns false if deferral failed (should return early from handler).
func deferResponse(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		slog.Error("Failed to send deferred response", "error", err)
		return false
	}
	return true
}

// getInteractionUser extracts the user from an interaction.
// Handles both guild (i.Member.User) and DM (i.User) contexts.
func getInteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	if i.User != nil {
		return i.User
	}
	return &discordgo.User{}
}

// subcommandOptions returns the invoked subcommand and its options by name
func subcommandOptions(i *discordgo.InteractionCreate) (string, map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	data := i.ApplicationCommandData()
	options := data.Options
	name := ""
	if len(options) > 0 && options[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		name = options[0].Name
		options = options[0].Options
	}

	byName := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		byName[opt.Name] = opt
	}
	return name, byName
}

// commandPath returns "name" or "name sub" for logging and metrics
func commandPath(data discordgo.ApplicationCommandInteractionData) string {
	if len(data.Options) > 0 && data.Options[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		return data.Name + " " + data.Options[0].Name
	}
	return data.Name
}

func stringOption(options map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if opt, ok := options[name]; ok {
		return opt.StringValue()
	}
	return ""
}

func intOption(options map[string]*discordgo.ApplicationCommandInteractionDataOption, name string, def int) int {
	if opt, ok := options[name]; ok {
		return int(opt.IntValue())
	}
	return def
}

func boolOption(options map[string]*discordgo.ApplicationCommandInteractionDataOption, name string, def bool) bool {
	if opt, ok := options[name]; ok {
		return opt.BoolValue()
	}
	return def
}

// sendEmbed edits the deferred response with embed
func sendEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	}); err != nil {
		slog.Error("Failed to send response", "error", err)
	}
}

// createEmbed creates a standard embed; an empty footer defaults to FooterChocoboBot
func createEmbed(title, description string, color int, footerText string) *discordgo.MessageEmbed {
	if footerText == "" {
		footerText = FooterChocoboBot
	}
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Footer: &discordgo.MessageEmbedFooter{
			Text: footerText,
		},
	}
}

// kindOption is the mounts/minions choice shared by several commands
func kindOption(required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "type",
		Description: "Mounts or minions",
		Required:    required,
		Choices: []*discordgo.ApplicationCommandOptionChoice{
			{Name: "Mounts", Value: "mounts"},
			{Name: "Minions", Value: "minions"},
		},
	}
}

// characterOption is the optional name / Lodestone ID reference
func characterOption(required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "character",
		Description: "Character name or Lodestone ID (defaults to your primary character)",
		Required:    required,
	}
}
