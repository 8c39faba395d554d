package cards

import "expert-finder/internal/domain/dto"

// Content types the chat client understands.
const (
	AdaptiveCardContentType  = "application/vnd.microsoft.card.adaptive"
	ThumbnailCardContentType = "application/vnd.microsoft.card.thumbnail"
	HeroCardContentType      = "application/vnd.microsoft.card.hero"
)

// Minimal adaptive card payload model. Only the elements this app
// renders are modelled; unknown fields are simply not emitted.
type AdaptiveCard struct {
	Type    string           `json:"type"`
	Version string           `json:"version"`
	Body    []map[string]any `json:"body"`
	Actions []map[string]any `json:"actions,omitempty"`
}

func newAdaptiveCard(body []map[string]any, actions []map[string]any) AdaptiveCard {
	return AdaptiveCard{
		Type:    "AdaptiveCard",
		Version: "1.0",
		Body:    body,
		Actions: actions,
	}
}

func adaptiveAttachment(card AdaptiveCard) dto.Attachment {
	return dto.Attachment{
		ContentType: AdaptiveCardContentType,
		Content:     card,
	}
}

func textBlock(text string) map[string]any {
	return map[string]any{"type": "TextBlock", "text": text, "wrap": true}
}

func headingBlock(text string) map[string]any {
	return map[string]any{"type": "TextBlock", "text": text, "wrap": true, "weight": "Bolder"}
}

func subtleBlock(text string) map[string]any {
	return map[string]any{"type": "TextBlock", "text": text, "wrap": true, "isSubtle": true, "spacing": "None"}
}

func textInput(id, value, placeholder string, multiline bool) map[string]any {
	return map[string]any{
		"type":        "Input.Text",
		"id":          id,
		"value":       value,
		"placeholder": placeholder,
		"isMultiline": multiline,
	}
}

// fetchAction builds a submit action that triggers a task/fetch invoke
// for the given command.
func fetchAction(title, command, cardID string) map[string]any {
	return map[string]any{
		"type":  "Action.Submit",
		"title": title,
		"data": map[string]any{
			"msteams":         map[string]any{"type": "task/fetch"},
			"command":         command,
			"MyProfileCardId": cardID,
		},
	}
}

// messageBackAction builds a submit action that posts the command back
// as a plain message turn.
func messageBackAction(title, command string) map[string]any {
	return map[string]any{
		"type":  "Action.Submit",
		"title": title,
		"data": map[string]any{
			"msteams": map[string]any{
				"type": "messageBack",
				"text": command,
			},
			"command": command,
		},
	}
}

func openURLAction(title, url string) map[string]any {
	return map[string]any{"type": "Action.OpenUrl", "title": title, "url": url}
}
