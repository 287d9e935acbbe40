// Space description generation via Haiku.
package llm

import (
	"context"
	"fmt"
	"strings"
)

// SpaceRequest holds the data needed to describe one board space.
type SpaceRequest struct {
	SpaceID  int
	Kind     string // "property", "chance", "fishing", ...
	Category string // "boat" or "restaurant" for properties
	Name     string
	Price    int
	Current  string // Existing description, kept on failure
}

const harborSystem = `You are the harbor master of Reykjavík, writing flavor text for a board game about Icelandic fishermen and the restaurants that feed them. Rustic, wry, a little salt-stained.

Write one or two sentences (under 40 words). Do not use quotation marks, markdown, or mention the game.`

// DescribeSpace creates a Haiku-generated description for a board space.
func DescribeSpace(ctx context.Context, client *Client, req SpaceRequest) (string, error) {
	if !client.Enabled() {
		return "", ErrDisabled
	}

	var details []string
	details = append(details, fmt.Sprintf("Name: %s", req.Name))
	details = append(details, fmt.Sprintf("Kind: %s", req.Kind))
	if req.Category != "" {
		details = append(details, fmt.Sprintf("Category: %s", req.Category))
	}
	if req.Price > 0 {
		details = append(details, fmt.Sprintf("Price: %d krónur", req.Price))
	}

	prompt := fmt.Sprintf("Describe this place on the harbor:\n\n%s", strings.Join(details, "\n"))

	text, err := client.Complete(ctx, harborSystem, prompt, 120)
	if err != nil {
		return "", err
	}
	text = strings.Trim(strings.TrimSpace(text), `"`)
	if text == "" {
		return "", fmt.Errorf("empty description for %s", req.Name)
	}
	return text, nil
}
