package notify

import (
	"fmt"

	"beatmap-cache/feature/beatmap/models"
)

const (
	colorFrozen       = 0x3498db
	colorStatusChange = 0x2ecc71
)

// Payload is the Discord webhook body.
type Payload struct {
	Embeds []Embed `json:"embeds"`
}

type Embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	URL         string       `json:"url,omitempty"`
	Color       int          `json:"color"`
	Fields      []EmbedField `json:"fields"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// BuildPayload renders event as a single embed.
func BuildPayload(event models.StatusEvent, domain string) Payload {
	embed := Embed{
		URL: event.New.URL(domain),
		Fields: []EmbedField{
			{Name: "Old status", Value: event.Old.Status.String(), Inline: true},
			{Name: "New status", Value: event.New.Status.String(), Inline: true},
			{Name: "Set", Value: event.New.SetURL(domain)},
		},
	}

	switch event.Action {
	case models.ActionFrozen:
		embed.Title = "Beatmap frozen"
		embed.Color = colorFrozen
		embed.Description = fmt.Sprintf("%s was reported as pending by the catalog; kept as %s and frozen.",
			event.New.SongName, event.New.Status)
	default:
		embed.Title = "Beatmap status changed"
		embed.Color = colorStatusChange
		embed.Description = fmt.Sprintf("%s is now %s.", event.New.SongName, event.New.Status)
	}

	return Payload{Embeds: []Embed{embed}}
}
