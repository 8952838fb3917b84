package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/ChocoboBot_Go/internal/domain"
	"github.com/osse101/ChocoboBot_Go/internal/logger"
	"github.com/osse101/ChocoboBot_Go/internal/recommendation"
	"github.com/osse101/ChocoboBot_Go/internal/roster"
)

// MaxRecommendationCount caps the count option of /farm recommend
const MaxRecommendationCount = 25

var (
	minCount = 1.0
	maxCount = float64(MaxRecommendationCount)
)

// FarmCommand returns the /farm command definition and handler
func FarmCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "farm",
		Description: "Find mounts and minions worth farming",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "recommend",
				Description: "Rank the farmable collectibles a character is missing",
				Options: []*discordgo.ApplicationCommandOption{
					kindOption(true),
					characterOption(false),
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "count",
						Description: "How many to show (default 5)",
						MinValue:    &minCount,
						MaxValue:    maxCount,
					},
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        "use_progress",
						Description: "Hide content above the character's level (default true)",
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "missing",
				Description: "Count missing and farmable collectibles",
				Options: []*discordgo.ApplicationCommandOption{
					kindOption(true),
					characterOption(false),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "group",
				Description: "Find what most of a group still needs",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "name",
						Description: "Group name",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "search",
				Description: "Look up how a collectible is obtained",
				Options: []*discordgo.ApplicationCommandOption{
					kindOption(true),
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "name",
						Description: "Collectible name",
						Required:    true,
					},
				},
			},
		},
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, svc *Services) {
		sub, options := subcommandOptions(i)
		switch sub {
		case "recommend":
			handleEmbedResponse(ctx, s, i, func() (*discordgo.MessageEmbed, error) {
				return farmRecommend(ctx, i, svc, options)
			})
		case "missing":
			handleEmbedResponse(ctx, s, i, func() (*discordgo.MessageEmbed, error) {
				return farmMissing(ctx, i, svc, options)
			})
		case "group":
			farmGroup(ctx, s, i, svc, options)
		case "search":
			handleEmbedResponse(ctx, s, i, func() (*discordgo.MessageEmbed, error) {
				return farmSearch(ctx, svc, options)
			})
		}
	}

	return cmd, handler
}

type optionMap = map[string]*discordgo.ApplicationCommandInteractionDataOption

// resolveTarget turns the character option into a lodestone id and display name
func resolveTarget(ctx context.Context, i *discordgo.InteractionCreate, svc *Services, options optionMap) (string, string, error) {
	c, err := svc.Roster.ResolveCharacter(ctx, getInteractionUser(i).ID, stringOption(options, "character"))
	if err != nil {
		return "", "", err
	}
	if c.ID == 0 {
		return c.LodestoneID, "Lodestone " + c.LodestoneID, nil
	}
	return c.LodestoneID, c.FullName(), nil
}

func farmRecommend(ctx context.Context, i *discordgo.InteractionCreate, svc *Services, options optionMap) (*discordgo.MessageEmbed, error) {
	kind, err := domain.ParseCollectibleKind(stringOption(options, "type"))
	if err != nil {
		return nil, err
	}
	lodestoneID, who, err := resolveTarget(ctx, i, svc, options)
	if err != nil {
		return nil, err
	}

	opts := recommendation.Options{
		Count:       intOption(options, "count", recommendation.DefaultCount),
		UseProgress: boolOption(options, "use_progress", true),
	}
	result, err := svc.Recommendations.RecommendForCharacter(ctx, lodestoneID, kind, opts)
	if err != nil {
		return nil, err
	}
	return recommendationEmbed(who, result), nil
}

func farmMissing(ctx context.Context, i *discordgo.InteractionCreate, svc *Services, options optionMap) (*discordgo.MessageEmbed, error) {
	kind, err := domain.ParseCollectibleKind(stringOption(options, "type"))
	if err != nil {
		return nil, err
	}
	lodestoneID, who, err := resolveTarget(ctx, i, svc, options)
	if err != nil {
		return nil, err
	}

	summary, err := svc.Recommendations.MissingForCharacter(ctx, lodestoneID, kind)
	if err != nil {
		return nil, err
	}
	return missingEmbed(who, summary), nil
}

// farmGroup answers with one embed per collectible kind
func farmGroup(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, svc *Services, options optionMap) {
	if !deferResponse(s, i) {
		return
	}
	if i.GuildID == "" {
		respondFriendlyError(ctx, s, i, fmt.Errorf("%w: groups are only available in servers", domain.ErrInvalidInput))
		return
	}

	name := stringOption(options, "name")
	ids, err := svc.Roster.GroupRoster(ctx, i.GuildID, name)
	if err != nil {
		respondFriendlyError(ctx, s, i, err)
		return
	}
	if len(ids) == 0 {
		respondError(s, i, fmt.Sprintf("Group **%s** has no members yet. Add some with `/group add`.", name))
		return
	}

	result, err := svc.Recommendations.RecommendForGroup(ctx, ids)
	if err != nil {
		respondFriendlyError(ctx, s, i, err)
		return
	}

	embeds := make([]*discordgo.MessageEmbed, 0, len(domain.CollectibleKinds))
	for _, kind := range domain.CollectibleKinds {
		embeds = append(embeds, groupEmbed(name, kind, result))
	}
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Embeds: &embeds}); err != nil {
		logger.FromContext(ctx).Error("Failed to send group response", "error", err)
	}
}

func farmSearch(ctx context.Context, svc *Services, options optionMap) (*discordgo.MessageEmbed, error) {
	kind, err := domain.ParseCollectibleKind(stringOption(options, "type"))
	if err != nil {
		return nil, err
	}
	query := roster.SanitizeInput(stringOption(options, "name"))
	if query == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}

	hits, err := svc.Catalog.Search(ctx, kind, query)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, fmt.Errorf("%w: %q", domain.ErrCollectibleNotFound, query)
	}
	if len(hits) > MaxRecommendationCount {
		hits = hits[:MaxRecommendationCount]
	}
	return searchEmbed(kind, query, hits), nil
}
