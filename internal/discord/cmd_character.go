package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/ChocoboBot_Go/internal/domain"
	"github.com/osse101/ChocoboBot_Go/internal/roster"
)

var maxProgress = 100.0

// CharacterCommand returns the /character command definition and handler
func CharacterCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	expansionChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(domain.Expansions))
	for _, e := range domain.Expansions {
		expansionChoices = append(expansionChoices, &discordgo.ApplicationCommandOptionChoice{Name: e.Name, Value: e.Key})
	}
	minProgress := 0.0

	cmd := &discordgo.ApplicationCommand{
		Name:        "character",
		Description: "Manage your registered FFXIV characters",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "register",
				Description: "Register a character",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "Character name", Required: true},
					{Type: discordgo.ApplicationCommandOptionString, Name: "server", Description: "Home world", Required: true},
					{Type: discordgo.ApplicationCommandOptionString, Name: "lodestone_id", Description: "Number from your Lodestone profile URL", Required: true},
					{Type: discordgo.ApplicationCommandOptionBoolean, Name: "primary", Description: "Make this your primary character"},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "List your registered characters",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "primary",
				Description: "Choose your primary character",
				Options: []*discordgo.ApplicationCommandOption{
					characterOption(true),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "remove",
				Description: "Unregister one of your characters",
				Options: []*discordgo.ApplicationCommandOption{
					characterOption(true),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "msq",
				Description: "Record or show main story progress",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "expansion",
						Description: "Expansion to update",
						Choices:     expansionChoices,
					},
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "progress",
						Description: "Percent complete",
						MinValue:    &minProgress,
						MaxValue:    maxProgress,
					},
					characterOption(false),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "find",
				Description: "Find a character's Lodestone ID",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "Character name", Required: true},
					{Type: discordgo.ApplicationCommandOptionString, Name: "server", Description: "Home world"},
				},
			},
		},
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, svc *Services) {
		sub, options := subcommandOptions(i)
		userID := getInteractionUser(i).ID

		handleEmbedResponse(ctx, s, i, func() (*discordgo.MessageEmbed, error) {
			switch sub {
			case "register":
				c, err := svc.Roster.RegisterCharacter(ctx, userID,
					stringOption(options, "name"),
					stringOption(options, "server"),
					stringOption(options, "lodestone_id"),
					boolOption(options, "primary", false))
				if err != nil {
					return nil, err
				}
				return createEmbed("Character Registered", characterLine(*c), ColorSuccess, ""), nil

			case "list":
				characters, err := svc.Roster.ListCharacters(ctx, userID)
				if err != nil {
					return nil, err
				}
				if len(characters) == 0 {
					return nil, domain.ErrNoPrimaryCharacter
				}
				lines := make([]string, 0, len(characters))
				for _, c := range characters {
					lines = append(lines, characterLine(c))
				}
				return createEmbed("Your Characters", strings.Join(lines, "\n"), ColorInfo, ""), nil

			case "primary":
				c, err := svc.Roster.SetPrimary(ctx, userID, stringOption(options, "character"))
				if err != nil {
					return nil, err
				}
				return createEmbed("Primary Character", characterLine(*c), ColorSuccess, ""), nil

			case "remove":
				c, err := svc.Roster.RemoveCharacter(ctx, userID, stringOption(options, "character"))
				if err != nil {
					return nil, err
				}
				return createEmbed("Character Removed", c.FullName()+" is no longer registered.", ColorSuccess, ""), nil

			case "msq":
				return characterMSQ(ctx, svc, userID, options)

			case "find":
				return characterFind(ctx, svc, options)
			}
			return nil, fmt.Errorf("%w: unknown subcommand %q", domain.ErrInvalidInput, sub)
		})
	}

	return cmd, handler
}

// characterMSQ stores progress when an expansion is given, then shows all recorded progress
func characterMSQ(ctx context.Context, svc *Services, userID string, options optionMap) (*discordgo.MessageEmbed, error) {
	ref := stringOption(options, "character")
	if expansion := stringOption(options, "expansion"); expansion != "" {
		if _, err := svc.Roster.SetProgress(ctx, userID, ref, expansion, intOption(options, "progress", 100)); err != nil {
			return nil, err
		}
	}

	c, progress, err := svc.Roster.GetProgress(ctx, userID, ref)
	if err != nil {
		return nil, err
	}

	if len(progress) == 0 {
		return createEmbed("Story Progress", "No progress recorded for "+c.Name+".", ColorInfo, ""), nil
	}
	lines := make([]string, 0, len(progress))
	for _, p := range progress {
		name := p.Expansion
		if e, err := domain.FindExpansion(p.Expansion); err == nil {
			name = e.Name
		}
		mark := "▫️"
		if p.Completed {
			mark = "✅"
		}
		lines = append(lines, fmt.Sprintf("%s %s: %d%%", mark, name, p.Progress))
	}
	return createEmbed("Story Progress · "+c.FullName(), strings.Join(lines, "\n"), ColorInfo, ""), nil
}

func characterFind(ctx context.Context, svc *Services, options optionMap) (*discordgo.MessageEmbed, error) {
	name := roster.SanitizeInput(stringOption(options, "name"))
	server := roster.NormalizeServer(stringOption(options, "server"))

	results, err := svc.Characters.SearchCharacter(ctx, name, server)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrCharacterNotFound, name)
	}

	lines := make([]string, 0, len(results))
	for idx, r := range results {
		if idx == MissingListLimit {
			break
		}
		lines = append(lines, fmt.Sprintf("%s (%s) · `%s`", r.Name, r.Server, r.ID))
	}
	embed := createEmbed("Lodestone Search", strings.Join(lines, "\n"), ColorInfo, "")
	if len(results) == 1 && results[0].Avatar != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: results[0].Avatar}
	}
	return embed, nil
}
