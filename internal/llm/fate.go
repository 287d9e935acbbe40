// Fate event generation: short harbor mishaps and windfalls with a money
// effect, parsed from a JSON reply.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/talgya/maigreifinn/internal/fate"
)

// maxEffect bounds the money effect of a generated fate.
const maxEffect = 100

type fateReply struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Effect      float64 `json:"effect"`
}

// GenerateFate asks Haiku for one random event and converts it to a fate
// outcome. The money effect is clamped to ±100.
func GenerateFate(ctx context.Context, client *Client) (fate.Outcome, error) {
	if !client.Enabled() {
		return fate.Outcome{}, ErrDisabled
	}

	prompt := "Write a short, funny or slightly tragic random event for a board game about Icelandic fishermen. " +
		"Return only JSON with: 'title' (string), 'description' (string), 'effect' (number, between -100 and 100 representing money change)."

	text, err := client.Complete(ctx, harborSystem, prompt, 200)
	if err != nil {
		return fate.Outcome{}, err
	}
	return ParseFate(text)
}

// ParseFate decodes a fate reply, tolerating a markdown code fence.
func ParseFate(text string) (fate.Outcome, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var r fateReply
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &r); err != nil {
		return fate.Outcome{}, fmt.Errorf("parse fate: %w", err)
	}
	if r.Title == "" || r.Description == "" {
		return fate.Outcome{}, fmt.Errorf("parse fate: missing title or description")
	}

	effect := int(r.Effect)
	if effect > maxEffect {
		effect = maxEffect
	}
	if effect < -maxEffect {
		effect = -maxEffect
	}
	return fate.Outcome{
		Label:       r.Title,
		Description: r.Description,
		MoneyDelta:  effect,
		Weight:      1,
	}, nil
}
