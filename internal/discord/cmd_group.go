package discord

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/ChocoboBot_Go/internal/domain"
)

// GroupCommand returns the /group command definition and handler
func GroupCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	nameOption := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "name",
		Description: "Group name",
		Required:    true,
	}

	cmd := &discordgo.ApplicationCommand{
		Name:        "group",
		Description: "Manage farming groups in this server",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "create",
				Description: "Create a group",
				Options: []*discordgo.ApplicationCommandOption{
					nameOption,
					{Type: discordgo.ApplicationCommandOptionString, Name: "description", Description: "Group description"},
					{Type: discordgo.ApplicationCommandOptionString, Name: "color", Description: "Group color (hex code, e.g. #3498db)"},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "view",
				Description: "Show a group and its members",
				Options:     []*discordgo.ApplicationCommandOption{nameOption},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "add",
				Description: "Add a registered character to a group",
				Options:     []*discordgo.ApplicationCommandOption{nameOption, characterOption(true)},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "remove_character",
				Description: "Remove a character from a group you created",
				Options:     []*discordgo.ApplicationCommandOption{nameOption, characterOption(true)},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "delete",
				Description: "Delete a group you created",
				Options: []*discordgo.ApplicationCommandOption{
					nameOption,
					{Type: discordgo.ApplicationCommandOptionString, Name: "confirm", Description: "Type 'confirm' to delete the group", Required: true},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "List this server's groups",
			},
		},
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, svc *Services) {
		sub, options := subcommandOptions(i)

		handleEmbedResponse(ctx, s, i, func() (*discordgo.MessageEmbed, error) {
			if i.GuildID == "" {
				return nil, fmt.Errorf("%w: groups are only available in servers", domain.ErrInvalidInput)
			}

			userID := getInteractionUser(i).ID

			switch sub {
			case "create":
				g, err := svc.Roster.CreateGroup(ctx, i.GuildID, stringOption(options, "name"), userID,
					stringOption(options, "description"), stringOption(options, "color"))
				if err != nil {
					return nil, err
				}
				embed := createEmbed("Group Created", fmt.Sprintf("**%s** is ready. Add members with `/group add`.", g.Name), groupColor(g), "")
				if g.Description != "" {
					embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Description", Value: g.Description})
				}
				return embed, nil

			case "view":
				g, members, err := svc.Roster.GetGroup(ctx, i.GuildID, stringOption(options, "name"))
				if err != nil {
					return nil, err
				}
				return groupDetailsEmbed(g, members), nil

			case "remove_character":
				name := strings.ToLower(stringOption(options, "name"))
				c, err := svc.Roster.RemoveFromGroup(ctx, i.GuildID, name, userID, stringOption(options, "character"))
				if err != nil {
					return nil, err
				}
				return createEmbed("Member Removed", fmt.Sprintf("%s left **%s**.", c.FullName(), name), ColorSuccess, ""), nil

			case "delete":
				name := strings.ToLower(stringOption(options, "name"))
				if !strings.EqualFold(strings.TrimSpace(stringOption(options, "confirm")), "confirm") {
					return createEmbed("Group Not Deleted", MsgDeleteNotConfirmed, ColorWarning, ""), nil
				}
				if err := svc.Roster.DeleteGroup(ctx, i.GuildID, name, userID); err != nil {
					return nil, err
				}
				return createEmbed("Group Deleted", fmt.Sprintf("**%s** and its member list are gone.", name), ColorSuccess, ""), nil

			case "add":
				name := stringOption(options, "name")
				c, err := svc.Roster.AddToGroup(ctx, i.GuildID, name, stringOption(options, "character"))
				if err != nil {
					return nil, err
				}
				return createEmbed("Member Added", fmt.Sprintf("%s joined **%s**.", c.FullName(), strings.ToLower(name)), ColorSuccess, ""), nil

			case "list":
				groups, err := svc.Roster.ListGroups(ctx, i.GuildID)
				if err != nil {
					return nil, err
				}
				if len(groups) == 0 {
					return createEmbed("Groups", "No groups yet. Create one with `/group create`.", ColorInfo, ""), nil
				}
				lines := make([]string, 0, len(groups))
				for _, g := range groups {
					lines = append(lines, "• "+g.Name)
				}
				return createEmbed("Groups", strings.Join(lines, "\n"), ColorInfo, ""), nil
			}
			return nil, fmt.Errorf("%w: unknown subcommand %q", domain.ErrInvalidInput, sub)
		})
	}

	return cmd, handler
}

// groupColor parses the group's "#rrggbb" color, falling back to ColorInfo
func groupColor(g *domain.Group) int {
	if v, err := strconv.ParseInt(strings.TrimPrefix(g.Color, "#"), 16, 32); err == nil {
		return int(v)
	}
	return ColorInfo
}

func groupDetailsEmbed(g *domain.Group, members []domain.Character) *discordgo.MessageEmbed {
	description := g.Description
	if description == "" {
		description = "No description"
	}
	embed := createEmbed("Group: "+g.Name, description, groupColor(g), "")
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Created By", Value: "<@" + g.CreatedBy + ">", Inline: true},
		{Name: "Members", Value: strconv.Itoa(len(members)), Inline: true},
	}
	if len(members) == 0 {
		return embed
	}

	lines := make([]string, 0, len(members))
	for idx, c := range members {
		if idx == MissingListLimit {
			lines = append(lines, fmt.Sprintf("…and %d more", len(members)-idx))
			break
		}
		lines = append(lines, fmt.Sprintf("• %s · `%s`", c.FullName(), c.LodestoneID))
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Roster", Value: strings.Join(lines, "\n")})
	return embed
}
