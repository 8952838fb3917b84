package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/osse101/ChocoboBot_Go/internal/domain"
	"github.com/osse101/ChocoboBot_Go/internal/recommendation"
)

// Discord rejects embed descriptions longer than this
const maxDescriptionLength = 4096

// MissingListLimit caps the farmable entries /farm missing shows
const MissingListLimit = 10

func kindTitle(kind domain.CollectibleKind) string {
	return cases.Title(language.English).String(kind.Plural())
}

func kindColor(kind domain.CollectibleKind) int {
	if kind == domain.KindMinion {
		return ColorMinion
	}
	return ColorMount
}

// formatSource renders "Dungeon: The Aery (Lv 55) · 10%"
func formatSource(src domain.AcquisitionSource) string {
	var b strings.Builder
	b.WriteString(src.Kind.Label())
	if src.Duty != nil && src.Duty.Name != "" {
		b.WriteString(": " + src.Duty.Name)
		if src.Duty.Level > 0 {
			fmt.Fprintf(&b, " (Lv %d)", src.Duty.Level)
		}
	} else if src.Text != "" {
		b.WriteString(": " + src.Text)
	}
	if src.DropRate != nil {
		fmt.Fprintf(&b, " · %g%%", *src.DropRate)
	}
	return b.String()
}

func formatSources(sources []domain.AcquisitionSource) string {
	parts := make([]string, 0, len(sources))
	for _, src := range sources {
		parts = append(parts, formatSource(src))
	}
	return strings.Join(parts, "\n └ ")
}

// truncate keeps whole lines while the text fits in limit bytes
func truncate(lines []string, limit int) string {
	var b strings.Builder
	for idx, line := range lines {
		if b.Len()+len(line)+1 > limit {
			fmt.Fprintf(&b, "…and %d more", len(lines)-idx)
			break
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

// recommendationEmbed renders an individual result
func recommendationEmbed(who string, result *domain.RecommendationResult) *discordgo.MessageEmbed {
	title := fmt.Sprintf("%s to farm for %s", kindTitle(result.Kind), who)

	if len(result.Recommendations) == 0 {
		msg := fmt.Sprintf("No farmable %s missing. %d missing in total.", result.Kind.Plural(), result.TotalMissing)
		return createEmbed(title, msg, ColorSuccess, recommendationFooter(result))
	}

	lines := make([]string, 0, len(result.Recommendations))
	for _, rec := range result.Recommendations {
		lines = append(lines, fmt.Sprintf("**%d. %s** (score %.1f)\n └ %s",
			rec.Rank, rec.Collectible.Name, rec.Score, formatSources(rec.Sources)))
	}

	return createEmbed(title, truncate(lines, maxDescriptionLength-64), kindColor(result.Kind), recommendationFooter(result))
}

func recommendationFooter(result *domain.RecommendationResult) string {
	notes := []string{fmt.Sprintf("%d missing · %d farmable", result.TotalMissing, result.FarmableMissing)}
	switch {
	case result.ReachabilitySkipped:
		notes = append(notes, "level filter skipped: "+result.SummaryError)
	case result.ReachabilityBypassed:
		notes = append(notes, fmt.Sprintf("nothing reachable at level %d, showing everything", result.CharacterLevel))
	case result.ReachabilityApplied:
		notes = append(notes, fmt.Sprintf("filtered for level %d", result.CharacterLevel))
	}
	return FooterChocoboBot + " · " + strings.Join(notes, " · ")
}

// missingEmbed renders the unranked missing summary
func missingEmbed(who string, summary *recommendation.MissingSummary) *discordgo.MessageEmbed {
	title := fmt.Sprintf("Missing %s for %s", kindTitle(summary.Kind), who)

	var b strings.Builder
	fmt.Fprintf(&b, "Missing **%d** of %d, **%d** farmable.\n", len(summary.Missing), summary.Total, len(summary.Farmable))
	if len(summary.Farmable) > 0 {
		b.WriteString("\n")
	}

	lines := make([]string, 0, MissingListLimit)
	for idx, c := range summary.Farmable {
		if idx == MissingListLimit {
			lines = append(lines, fmt.Sprintf("…and %d more", len(summary.Farmable)-MissingListLimit))
			break
		}
		lines = append(lines, "• "+c.Name)
	}
	b.WriteString(strings.Join(lines, "\n"))

	return createEmbed(title, b.String(), kindColor(summary.Kind), "")
}

// groupEmbed renders a group result for one kind
func groupEmbed(groupName string, kind domain.CollectibleKind, result *domain.GroupRecommendationResult) *discordgo.MessageEmbed {
	title := fmt.Sprintf("%s to farm for group %s", kindTitle(kind), groupName)
	footer := fmt.Sprintf("%s · processed %d/%d", FooterChocoboBot, len(result.ProcessedCharacters), result.TotalCharacters)

	recs := result.ForKind(kind)
	if len(recs) == 0 {
		msg := "Nobody in this group is missing anything farmable."
		if len(result.ProcessedCharacters) == 0 {
			msg = "No group members could be processed."
		}
		return createEmbed(title, msg+skippedNote(result), ColorWarning, footer)
	}

	lines := make([]string, 0, len(recs))
	for _, rec := range recs {
		lines = append(lines, fmt.Sprintf("**%d. %s** needed by %d/%d\n └ %s",
			rec.Rank, rec.Collectible.Name, rec.MissingCount, rec.ProcessedCount, formatSources(rec.Sources)))
	}

	return createEmbed(title, truncate(lines, maxDescriptionLength-256)+skippedNote(result), kindColor(kind), footer)
}

func skippedNote(result *domain.GroupRecommendationResult) string {
	if len(result.UnprocessedCharacters) == 0 {
		return ""
	}
	ids := make([]string, 0, len(result.UnprocessedCharacters))
	for _, s := range result.UnprocessedCharacters {
		ids = append(ids, s.CharacterID)
	}
	return "\n\n⚠️ Skipped: " + strings.Join(ids, ", ")
}

// searchEmbed renders catalog search hits
func searchEmbed(kind domain.CollectibleKind, query string, hits []domain.Collectible) *discordgo.MessageEmbed {
	title := fmt.Sprintf("%s matching %q", kindTitle(kind), query)

	lines := make([]string, 0, len(hits))
	for _, c := range hits {
		line := "**" + c.Name + "**"
		if len(c.Sources) > 0 {
			line += "\n └ " + formatSources(c.Sources)
		}
		lines = append(lines, line)
	}

	embed := createEmbed(title, truncate(lines, maxDescriptionLength-64), kindColor(kind), "")
	if len(hits) == 1 && hits[0].Image != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: hits[0].Image}
	}
	return embed
}

// characterLine renders a registered character for list output
func characterLine(c domain.Character) string {
	line := fmt.Sprintf("%s · `%s`", c.FullName(), c.LodestoneID)
	if c.IsPrimary {
		line = "⭐ " + line
	}
	return line
}
