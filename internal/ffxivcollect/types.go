package ffxivcollect

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/osse101/ChocoboBot_Go/internal/domain"
)

// listResponse is the envelope of /mounts and /minions
type listResponse struct {
	Count   int              `json:"count"`
	Results []collectibleDTO `json:"results"`
}

type collectibleDTO struct {
	ID                  int         `json:"id"`
	Name                string      `json:"name"`
	Description         string      `json:"description"`
	EnhancedDescription string      `json:"enhanced_description"`
	Tooltip             string      `json:"tooltip"`
	Image               string      `json:"image"`
	Sources             []sourceDTO `json:"sources"`
}

type sourceDTO struct {
	Type        string    `json:"type"`
	Text        string    `json:"text"`
	RelatedDuty *dutyDTO  `json:"related_duty"`
	DropRate    *dropRate `json:"drop_rate"`
}

type dutyDTO struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// dropRate accepts 3, 3.5, "3", "3%" and "3.5 %"; anything else is unknown
type dropRate struct {
	value *float64
}

func (d *dropRate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil
		}
	} else {
		raw = string(data)
	}

	d.value = ParseDropRate(raw)
	return nil
}

// ParseDropRate parses a percentage; nil when the value is not a number in [0, 100]
func ParseDropRate(raw string) *float64 {
	raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 100 {
		return nil
	}
	return &v
}

// characterResponse is the body of /characters/{id}
type characterResponse struct {
	ID      int            `json:"id"`
	Name    string         `json:"name"`
	Server  string         `json:"server"`
	Mounts  *collectionDTO `json:"mounts"`
	Minions *collectionDTO `json:"minions"`
}

type collectionDTO struct {
	Count int   `json:"count"`
	Total int   `json:"total"`
	IDs   []int `json:"ids"`
}

func (c *collectionDTO) ownedSet() domain.OwnedSet {
	if c == nil {
		return domain.NewOwnedSet()
	}
	return domain.NewOwnedSet(c.IDs...)
}

func (dto collectibleDTO) toDomain(kind domain.CollectibleKind) domain.Collectible {
	sources := make([]domain.AcquisitionSource, 0, len(dto.Sources))
	for _, s := range dto.Sources {
		source := domain.AcquisitionSource{
			Kind: domain.ParseSourceKind(s.Type),
			Text: s.Text,
		}
		if s.RelatedDuty != nil {
			source.Duty = &domain.Duty{Name: s.RelatedDuty.Name, Level: s.RelatedDuty.Level}
		}
		if s.DropRate != nil {
			source.DropRate = s.DropRate.value
		}
		sources = append(sources, source)
	}

	return domain.Collectible{
		ID:                  dto.ID,
		Kind:                kind,
		Name:                dto.Name,
		Description:         dto.Description,
		EnhancedDescription: dto.EnhancedDescription,
		Tooltip:             dto.Tooltip,
		Image:               dto.Image,
		Sources:             sources,
	}
}
