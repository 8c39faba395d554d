package dto

// MessagingExtensionQuery is the value of a composeExtension/query
// invoke.
type MessagingExtensionQuery struct {
	CommandID  string                             `json:"commandId"`
	Parameters []MessagingExtensionQueryParameter `json:"parameters"`
	State      string                             `json:"state,omitempty"`
}

type MessagingExtensionQueryParameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// MessagingExtensionInitialParameterName is the parameter name the
// client sends on the very first query.
const MessagingExtensionInitialParameterName = "initialRun"

// MessagingExtensionResponse is the invoke response envelope.
type MessagingExtensionResponse struct {
	ComposeExtension *MessagingExtensionResult `json:"composeExtension,omitempty"`
}

type MessagingExtensionResult struct {
	Type             string                             `json:"type"`
	AttachmentLayout string                             `json:"attachmentLayout,omitempty"`
	Text             string                             `json:"text,omitempty"`
	Attachments      []MessagingExtensionAttachment     `json:"attachments,omitempty"`
	SuggestedActions *MessagingExtensionSuggestedAction `json:"suggestedActions,omitempty"`
}

// MessagingExtensionAttachment pairs a detail card with its preview.
type MessagingExtensionAttachment struct {
	Attachment
	Preview *Attachment `json:"preview,omitempty"`
}

type MessagingExtensionSuggestedAction struct {
	Actions []MessagingExtensionAction `json:"actions"`
}

type MessagingExtensionAction struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Value string `json:"value"`
}
