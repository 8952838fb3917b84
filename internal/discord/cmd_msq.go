package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/ChocoboBot_Go/internal/domain"
)

// MSQCommand returns the /msq command definition and handler
func MSQCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "msq",
		Description: "Main story helpers",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "recommendations",
				Description: "Content unlocked by your main story progress",
				Options: []*discordgo.ApplicationCommandOption{
					characterOption(false),
				},
			},
		},
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, svc *Services) {
		sub, options := subcommandOptions(i)
		userID := getInteractionUser(i).ID

		handleEmbedResponse(ctx, s, i, func() (*discordgo.MessageEmbed, error) {
			if sub != "recommendations" {
				return nil, fmt.Errorf("%w: unknown subcommand %q", domain.ErrInvalidInput, sub)
			}

			recs, err := svc.Roster.StoryRecommendations(ctx, userID, stringOption(options, "character"))
			if err != nil {
				return nil, err
			}
			return storyEmbed(recs, userID), nil
		})
	}

	return cmd, handler
}

func storyEmbed(recs *domain.StoryRecommendations, userID string) *discordgo.MessageEmbed {
	pos := recs.Position
	embed := createEmbed(
		"MSQ-Based Recommendations for "+recs.Character.Name,
		fmt.Sprintf("Based on your MSQ progress in **%s** (%d%% complete)", pos.Expansion.Name, pos.Progress),
		ColorInfo, "")

	if owner := recs.Character.DiscordUserID; owner != "" && owner != userID {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Character Owner", Value: "<@" + owner + ">", Inline: true})
	}

	for _, group := range recs.Available {
		lines := make([]string, 0, len(group.Content))
		for _, c := range group.Content {
			lines = append(lines, fmt.Sprintf("• %s (%s, Lv. %d)", c.Name, c.Type, c.Level))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  group.Expansion.Name + " Content",
			Value: strings.Join(lines, "\n"),
		})
	}

	if next := recs.Next; next != nil {
		nextExpansion := pos.Expansion.Name
		for _, e := range domain.Expansions {
			if e.ID == next.ExpansionID {
				nextExpansion = e.Name
			}
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Next Unlock",
			Value: fmt.Sprintf("%s (%s, Lv. %d) at %d%% of %s", next.Name, next.Type, next.Level, next.MinProgress, nextExpansion),
		})
	}
	return embed
}
