package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ChocoboBot_Go/internal/domain"
	"github.com/osse101/ChocoboBot_Go/internal/recommendation"
	"github.com/osse101/ChocoboBot_Go/internal/xivapi"
)

// MockRoundTripper implements http.RoundTripper for intercepting requests
type MockRoundTripper struct {
	RoundTripFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req)
}

// TestContext captures what a handler sent back to Discord
type TestContext struct {
	Session      *discordgo.Session
	DiscordMocks *MockRoundTripper

	mu        sync.Mutex
	responds  int
	edits     []discordgo.WebhookEdit
	lastError error
}

// SetupTestContext returns a session whose REST calls are captured instead of sent
func SetupTestContext(t *testing.T) *TestContext {
	t.Helper()

	session, err := discordgo.New("Bot test-token")
	require.NoError(t, err)

	tc := &TestContext{Session: session}
	tc.DiscordMocks = &MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			tc.mu.Lock()
			defer tc.mu.Unlock()

			switch req.Method {
			case http.MethodPost:
				tc.responds++
			case http.MethodPatch:
				var edit discordgo.WebhookEdit
				tc.lastError = json.NewDecoder(req.Body).Decode(&edit)
				tc.edits = append(tc.edits, edit)
			}
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewBufferString("{}")),
				Header:     make(http.Header),
			}, nil
		},
	}
	session.Client = &http.Client{Transport: tc.DiscordMocks}

	return tc
}

// LastEdit returns the final response edit the handler made
func (tc *TestContext) LastEdit(t *testing.T) discordgo.WebhookEdit {
	t.Helper()
	tc.mu.Lock()
	defer tc.mu.Unlock()

	require.NoError(t, tc.lastError)
	require.NotEmpty(t, tc.edits, "handler sent no response edit")
	return tc.edits[len(tc.edits)-1]
}

// LastContent returns the plain text of the final edit
func (tc *TestContext) LastContent(t *testing.T) string {
	t.Helper()
	edit := tc.LastEdit(t)
	require.NotNil(t, edit.Content)
	return *edit.Content
}

// LastEmbeds returns the embeds of the final edit
func (tc *TestContext) LastEmbeds(t *testing.T) []*discordgo.MessageEmbed {
	t.Helper()
	edit := tc.LastEdit(t)
	require.NotNil(t, edit.Embeds)
	return *edit.Embeds
}

func strOpt(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionString, Value: value}
}

func intOpt(name string, value int) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionInteger, Value: float64(value)}
}

func boolOpt(name string, value bool) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionBoolean, Value: value}
}

// newInteraction builds a guild slash command interaction for "name sub"
func newInteraction(name, sub, guildID string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	data := discordgo.ApplicationCommandInteractionData{Name: name, Options: options}
	if sub != "" {
		data.Options = []*discordgo.ApplicationCommandInteractionDataOption{{
			Name:    sub,
			Type:    discordgo.ApplicationCommandOptionSubCommand,
			Options: options,
		}}
	}

	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:    discordgo.InteractionApplicationCommand,
			GuildID: guildID,
			Data:    data,
			Member: &discordgo.Member{
				User: &discordgo.User{ID: "user-1", Username: "Tester"},
			},
		},
	}
}

// MockRecommendations is a func-field fake of recommendation.Service
type MockRecommendations struct {
	RecommendForCharacterFunc func(ctx context.Context, id string, kind domain.CollectibleKind, opts recommendation.Options) (*domain.RecommendationResult, error)
	RecommendForGroupFunc     func(ctx context.Context, ids []string) (*domain.GroupRecommendationResult, error)
	MissingForCharacterFunc   func(ctx context.Context, id string, kind domain.CollectibleKind) (*recommendation.MissingSummary, error)
}

func (m *MockRecommendations) RecommendForCharacter(ctx context.Context, id string, kind domain.CollectibleKind, opts recommendation.Options) (*domain.RecommendationResult, error) {
	if m.RecommendForCharacterFunc != nil {
		return m.RecommendForCharacterFunc(ctx, id, kind, opts)
	}
	return &domain.RecommendationResult{CharacterID: id, Kind: kind}, nil
}

func (m *MockRecommendations) RecommendForGroup(ctx context.Context, ids []string) (*domain.GroupRecommendationResult, error) {
	if m.RecommendForGroupFunc != nil {
		return m.RecommendForGroupFunc(ctx, ids)
	}
	return &domain.GroupRecommendationResult{TotalCharacters: len(ids), ProcessedCharacters: ids}, nil
}

func (m *MockRecommendations) MissingForCharacter(ctx context.Context, id string, kind domain.CollectibleKind) (*recommendation.MissingSummary, error) {
	if m.MissingForCharacterFunc != nil {
		return m.MissingForCharacterFunc(ctx, id, kind)
	}
	return &recommendation.MissingSummary{CharacterID: id, Kind: kind}, nil
}

// MockRoster is a func-field fake of roster.Service
type MockRoster struct {
	RegisterCharacterFunc    func(userID, name, server, lodestoneID string, primary bool) (*domain.Character, error)
	ListCharactersFunc       func(userID string) ([]domain.Character, error)
	SetPrimaryFunc           func(userID, ref string) (*domain.Character, error)
	RemoveCharacterFunc      func(userID, ref string) (*domain.Character, error)
	ResolveCharacterFunc     func(userID, ref string) (*domain.Character, error)
	CreateGroupFunc          func(guildID, name, createdBy, description, color string) (*domain.Group, error)
	GetGroupFunc             func(guildID, groupName string) (*domain.Group, []domain.Character, error)
	DeleteGroupFunc          func(guildID, groupName, actorID string) error
	AddToGroupFunc           func(guildID, groupName, ref string) (*domain.Character, error)
	RemoveFromGroupFunc      func(guildID, groupName, actorID, ref string) (*domain.Character, error)
	GroupRosterFunc          func(guildID, groupName string) ([]string, error)
	ListGroupsFunc           func(guildID string) ([]domain.Group, error)
	SetProgressFunc          func(userID, ref, expansion string, progress int) (*domain.MSQProgress, error)
	GetProgressFunc          func(userID, ref string) (*domain.Character, []domain.MSQProgress, error)
	StoryRecommendationsFunc func(userID, ref string) (*domain.StoryRecommendations, error)
}

var testCharacter = domain.Character{ID: 1, DiscordUserID: "user-1", Name: "Alpha Bravo", Server: "Odin", LodestoneID: "1001", IsPrimary: true}

func (m *MockRoster) RegisterCharacter(_ context.Context, userID, name, server, lodestoneID string, primary bool) (*domain.Character, error) {
	if m.RegisterCharacterFunc != nil {
		return m.RegisterCharacterFunc(userID, name, server, lodestoneID, primary)
	}
	return &domain.Character{ID: 1, DiscordUserID: userID, Name: name, Server: server, LodestoneID: lodestoneID, IsPrimary: primary}, nil
}

func (m *MockRoster) ListCharacters(_ context.Context, userID string) ([]domain.Character, error) {
	if m.ListCharactersFunc != nil {
		return m.ListCharactersFunc(userID)
	}
	return []domain.Character{testCharacter}, nil
}

func (m *MockRoster) SetPrimary(_ context.Context, userID, ref string) (*domain.Character, error) {
	if m.SetPrimaryFunc != nil {
		return m.SetPrimaryFunc(userID, ref)
	}
	c := testCharacter
	return &c, nil
}

func (m *MockRoster) ResolveCharacter(_ context.Context, userID, ref string) (*domain.Character, error) {
	if m.ResolveCharacterFunc != nil {
		return m.ResolveCharacterFunc(userID, ref)
	}
	c := testCharacter
	return &c, nil
}

func (m *MockRoster) RemoveCharacter(_ context.Context, userID, ref string) (*domain.Character, error) {
	if m.RemoveCharacterFunc != nil {
		return m.RemoveCharacterFunc(userID, ref)
	}
	c := testCharacter
	return &c, nil
}

func (m *MockRoster) CreateGroup(_ context.Context, guildID, name, createdBy, description, color string) (*domain.Group, error) {
	if m.CreateGroupFunc != nil {
		return m.CreateGroupFunc(guildID, name, createdBy, description, color)
	}
	return &domain.Group{ID: 1, GuildID: guildID, Name: name, Description: description, Color: color, CreatedBy: createdBy}, nil
}

func (m *MockRoster) GetGroup(_ context.Context, guildID, groupName string) (*domain.Group, []domain.Character, error) {
	if m.GetGroupFunc != nil {
		return m.GetGroupFunc(guildID, groupName)
	}
	return &domain.Group{ID: 1, GuildID: guildID, Name: groupName, CreatedBy: "user-1"}, []domain.Character{testCharacter}, nil
}

func (m *MockRoster) DeleteGroup(_ context.Context, guildID, groupName, actorID string) error {
	if m.DeleteGroupFunc != nil {
		return m.DeleteGroupFunc(guildID, groupName, actorID)
	}
	return nil
}

func (m *MockRoster) RemoveFromGroup(_ context.Context, guildID, groupName, actorID, ref string) (*domain.Character, error) {
	if m.RemoveFromGroupFunc != nil {
		return m.RemoveFromGroupFunc(guildID, groupName, actorID, ref)
	}
	c := testCharacter
	return &c, nil
}

func (m *MockRoster) AddToGroup(_ context.Context, guildID, groupName, ref string) (*domain.Character, error) {
	if m.AddToGroupFunc != nil {
		return m.AddToGroupFunc(guildID, groupName, ref)
	}
	c := testCharacter
	return &c, nil
}

func (m *MockRoster) GroupRoster(_ context.Context, guildID, groupName string) ([]string, error) {
	if m.GroupRosterFunc != nil {
		return m.GroupRosterFunc(guildID, groupName)
	}
	return []string{"1001"}, nil
}

func (m *MockRoster) ListGroups(_ context.Context, guildID string) ([]domain.Group, error) {
	if m.ListGroupsFunc != nil {
		return m.ListGroupsFunc(guildID)
	}
	return nil, nil
}

func (m *MockRoster) SetProgress(_ context.Context, userID, ref, expansion string, progress int) (*domain.MSQProgress, error) {
	if m.SetProgressFunc != nil {
		return m.SetProgressFunc(userID, ref, expansion, progress)
	}
	return &domain.MSQProgress{CharacterID: 1, Expansion: expansion, Progress: progress}, nil
}

func (m *MockRoster) GetProgress(_ context.Context, userID, ref string) (*domain.Character, []domain.MSQProgress, error) {
	if m.GetProgressFunc != nil {
		return m.GetProgressFunc(userID, ref)
	}
	c := testCharacter
	return &c, nil, nil
}

func (m *MockRoster) StoryRecommendations(_ context.Context, userID, ref string) (*domain.StoryRecommendations, error) {
	if m.StoryRecommendationsFunc != nil {
		return m.StoryRecommendationsFunc(userID, ref)
	}
	pos := domain.CurrentStoryPosition(nil)
	return &domain.StoryRecommendations{Character: testCharacter, Position: pos, Available: domain.AvailableContent(pos, 5)}, nil
}

// MockCatalog is a func-field fake of CatalogSearcher
type MockCatalog struct {
	SearchFunc func(kind domain.CollectibleKind, query string) ([]domain.Collectible, error)
}

func (m *MockCatalog) Search(_ context.Context, kind domain.CollectibleKind, query string) ([]domain.Collectible, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(kind, query)
	}
	return nil, nil
}

// MockCharacterFinder is a func-field fake of CharacterFinder
type MockCharacterFinder struct {
	SearchCharacterFunc func(name, server string) ([]xivapi.SearchResult, error)
}

func (m *MockCharacterFinder) SearchCharacter(_ context.Context, name, server string) ([]xivapi.SearchResult, error) {
	if m.SearchCharacterFunc != nil {
		return m.SearchCharacterFunc(name, server)
	}
	return nil, nil
}

// newTestServices wires the mocks together; tests override the func fields they need
func newTestServices() (*Services, *MockRecommendations, *MockRoster) {
	recs := &MockRecommendations{}
	ros := &MockRoster{}
	return &Services{
		Recommendations: recs,
		Roster:          ros,
		Catalog:         &MockCatalog{},
		Characters:      &MockCharacterFinder{},
	}, recs, ros
}
