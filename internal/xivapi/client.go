// Package xivapi is the character summary gateway backed by XIVAPI.
package xivapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/osse101/ChocoboBot_Go/internal/cache"
	"github.com/osse101/ChocoboBot_Go/internal/domain"
	"github.com/osse101/ChocoboBot_Go/internal/logger"
	"github.com/osse101/ChocoboBot_Go/internal/upstream"
	"github.com/osse101/ChocoboBot_Go/internal/validation"
)

const (
	ServiceName = "xivapi"

	DefaultSummaryTTL = time.Hour
)

// Config configures the XIVAPI client
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	CacheSize  int
	SummaryTTL time.Duration
	// Validator checks character payloads before decoding; nil disables the check
	Validator validation.SchemaValidator
}

// Client fetches character summaries. Safe for concurrent use.
type Client struct {
	api       *upstream.Client
	validator validation.SchemaValidator
	summaries *cache.TTL[string, *domain.CharacterSummary]
	searches  *cache.TTL[string, []SearchResult]
}

// SearchResult is one hit of a character search
type SearchResult struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Server string `json:"server"`
	Avatar string `json:"avatar,omitempty"`
}

type characterResponse struct {
	Character *characterDTO `json:"Character"`
}

type characterDTO struct {
	ID             int    `json:"ID"`
	Name           string `json:"Name"`
	Server         string `json:"Server"`
	ActiveClassJob *struct {
		Level         int `json:"Level"`
		UnlockedState struct {
			Name string `json:"Name"`
		} `json:"UnlockedState"`
	} `json:"ActiveClassJob"`
}

type searchResponse struct {
	Results []struct {
		ID     int    `json:"ID"`
		Name   string `json:"Name"`
		Server string `json:"Server"`
		Avatar string `json:"Avatar"`
	} `json:"Results"`
}

// NewClient creates an XIVAPI client. APIKey is sent as private_key when set.
func NewClient(cfg Config) *Client {
	if cfg.SummaryTTL <= 0 {
		cfg.SummaryTTL = DefaultSummaryTTL
	}
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = upstream.DefaultMaxRetries
	}

	var params url.Values
	if cfg.APIKey != "" {
		params = url.Values{"private_key": {cfg.APIKey}}
	}

	return &Client{
		api: upstream.New(upstream.Config{
			Service:       ServiceName,
			BaseURL:       cfg.BaseURL,
			Timeout:       cfg.Timeout,
			MaxRetries:    maxRetries,
			RetryDelay:    cfg.RetryDelay,
			DefaultParams: params,
		}),
		validator: cfg.Validator,
		summaries: cache.New[string, *domain.CharacterSummary](cache.Config{
			Name: "summaries",
			Size: cfg.CacheSize,
			TTL:  cfg.SummaryTTL,
		}),
		searches: cache.New[string, []SearchResult](cache.Config{
			Name: "character_search",
			Size: cfg.CacheSize,
			TTL:  cfg.SummaryTTL,
		}),
	}
}

// FetchSummary returns the active job level of a character
func (c *Client) FetchSummary(ctx context.Context, characterID string) (*domain.CharacterSummary, error) {
	characterID = strings.TrimSpace(characterID)
	if summary, ok := c.summaries.Get(characterID); ok {
		return summary, nil
	}

	resp, err := c.fetchCharacter(ctx, characterID)
	if err != nil {
		return nil, err
	}
	if resp.Character == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrCharacterNotFound, characterID)
	}

	summary := &domain.CharacterSummary{
		CharacterID: characterID,
		Name:        resp.Character.Name,
		Server:      resp.Character.Server,
	}
	if job := resp.Character.ActiveClassJob; job != nil {
		summary.Level = max(job.Level, 0)
		summary.Job = job.UnlockedState.Name
	}

	c.summaries.Set(characterID, summary)
	return summary, nil
}

func (c *Client) fetchCharacter(ctx context.Context, characterID string) (*characterResponse, error) {
	body, err := c.api.GetBytes(ctx, "character/"+url.PathEscape(characterID), nil)
	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrCharacterNotFound, characterID)
		}
		return nil, err
	}

	if c.validator != nil {
		if err := c.validator.ValidateBytes(body, validation.SchemaXIVAPICharacter); err != nil {
			logger.FromContext(ctx).Error("Unexpected character payload", "character_id", characterID, "error", err)
			return nil, fmt.Errorf("%w: %s: unexpected payload: %v", domain.ErrUpstreamUnavailable, ServiceName, err)
		}
	}

	var resp characterResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %s: decode character: %v", domain.ErrUpstreamUnavailable, ServiceName, err)
	}
	return &resp, nil
}

// SearchCharacter looks characters up by name, optionally restricted to a server
func (c *Client) SearchCharacter(ctx context.Context, name, server string) ([]SearchResult, error) {
	name = strings.TrimSpace(name)
	server = strings.TrimSpace(server)
	if name == "" {
		return nil, fmt.Errorf("%w: character name is required", domain.ErrInvalidInput)
	}

	key := strings.ToLower(name + "@" + server)
	if results, ok := c.searches.Get(key); ok {
		return results, nil
	}

	params := url.Values{"name": {name}}
	if server != "" {
		params.Set("server", server)
	}

	var resp searchResponse
	if err := c.api.GetJSON(ctx, "character/search", params, &resp); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, SearchResult{
			ID:     strconv.Itoa(r.ID),
			Name:   r.Name,
			Server: r.Server,
			Avatar: r.Avatar,
		})
	}

	c.searches.Set(key, results)
	return results, nil
}

// CacheStats reports summary and search cache effectiveness
func (c *Client) CacheStats() map[string]cache.Stats {
	return map[string]cache.Stats{
		"summaries":        c.summaries.GetStats(),
		"character_search": c.searches.GetStats(),
	}
}
