package discord

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	for _, name := range []string{"ping", "farm", "character", "group", "msq"} {
		assert.Contains(t, r.Commands, name)
		assert.Contains(t, r.Handlers, name)
	}
}

func TestRegistryHandle(t *testing.T) {
	tc := SetupTestContext(t)
	r := NewCommandRegistry()

	var called string
	r.Register(&discordgo.ApplicationCommand{Name: "test"}, func(_ context.Context, _ *discordgo.Session, i *discordgo.InteractionCreate, _ *Services) {
		sub, _ := subcommandOptions(i)
		called = sub
	})

	before := commandCounter.Load()
	r.Handle(context.Background(), tc.Session, newInteraction("test", "run", "guild-1"), nil)
	assert.Equal(t, "run", called)
	assert.Equal(t, before+1, commandCounter.Load())

	t.Run("unknown command is ignored", func(t *testing.T) {
		before := commandCounter.Load()
		r.Handle(context.Background(), tc.Session, newInteraction("missing", "", "guild-1"), nil)
		assert.Equal(t, before, commandCounter.Load())
	})
}

func TestCommandsEqual(t *testing.T) {
	build := func() []*discordgo.ApplicationCommand {
		r := DefaultRegistry()
		out := make([]*discordgo.ApplicationCommand, 0, len(r.Commands))
		for _, name := range []string{"ping", "farm", "character", "group"} {
			out = append(out, r.Commands[name])
		}
		return out
	}

	t.Run("identical sets", func(t *testing.T) {
		assert.True(t, commandsEqual(build(), build()))
	})

	t.Run("order does not matter", func(t *testing.T) {
		a, b := build(), build()
		b[0], b[1] = b[1], b[0]
		assert.True(t, commandsEqual(a, b))
	})

	t.Run("missing command", func(t *testing.T) {
		assert.False(t, commandsEqual(build()[:3], build()))
	})

	t.Run("nested option description changed", func(t *testing.T) {
		a, b := build(), build()
		changed := *b[1]
		changed.Options = append([]*discordgo.ApplicationCommandOption(nil), b[1].Options...)
		sub := *changed.Options[0]
		sub.Options = append([]*discordgo.ApplicationCommandOption(nil), sub.Options...)
		opt := *sub.Options[0]
		opt.Description = "something else"
		sub.Options[0] = &opt
		changed.Options[0] = &sub
		b[1] = &changed

		assert.False(t, commandsEqual(a, b))
	})

	t.Run("choice values compared as text", func(t *testing.T) {
		a := &discordgo.ApplicationCommandOption{
			Name:    "type",
			Choices: []*discordgo.ApplicationCommandOptionChoice{{Name: "Mounts", Value: "mounts"}},
		}
		b := &discordgo.ApplicationCommandOption{
			Name:    "type",
			Choices: []*discordgo.ApplicationCommandOptionChoice{{Name: "Mounts", Value: "minions"}},
		}
		assert.True(t, optionEqual(a, a))
		assert.False(t, optionEqual(a, b))
	})
}

func TestCommandPath(t *testing.T) {
	i := newInteraction("farm", "recommend", "g", strOpt("type", "mounts"))
	assert.Equal(t, "farm recommend", commandPath(i.ApplicationCommandData()))

	i = newInteraction("ping", "", "g")
	assert.Equal(t, "ping", commandPath(i.ApplicationCommandData()))
}

func TestSubcommandOptions(t *testing.T) {
	i := newInteraction("farm", "recommend", "g", strOpt("type", "mounts"), intOpt("count", 3), boolOpt("use_progress", false))

	sub, options := subcommandOptions(i)

	require.Equal(t, "recommend", sub)
	assert.Equal(t, "mounts", stringOption(options, "type"))
	assert.Equal(t, 3, intOption(options, "count", 5))
	assert.False(t, boolOption(options, "use_progress", true))
	assert.Equal(t, "", stringOption(options, "character"))
	assert.Equal(t, 5, intOption(options, "missing", 5))
}

func TestPingCommand(t *testing.T) {
	tc := SetupTestContext(t)
	_, handler := PingCommand()

	handler(context.Background(), tc.Session, newInteraction("ping", "", ""), nil)

	assert.Equal(t, 1, tc.responds)
}
