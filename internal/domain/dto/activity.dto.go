package dto

import "encoding/json"

// Activity types and invoke names from the Bot Framework protocol that
// this bot handles.
const (
	ActivityTypeMessage            = "message"
	ActivityTypeInvoke             = "invoke"
	ActivityTypeConversationUpdate = "conversationUpdate"
	ActivityTypeTyping             = "typing"
	ActivityTypeEvent              = "event"

	InvokeNameTaskFetch         = "task/fetch"
	InvokeNameTaskSubmit        = "task/submit"
	InvokeNameComposeQuery      = "composeExtension/query"
	InvokeNameSigninVerifyState = "signin/verifyState"
	InvokeNameTokenExchange     = "signin/tokenExchange"
)

// ActivityKind tags the inbound activity shapes the router dispatches
// on, replacing per-override dynamic dispatch with one switch.
type ActivityKind int

const (
	KindUnknown ActivityKind = iota
	KindMessage
	KindMembersAdded
	KindMembersRemoved
	KindTaskModuleFetch
	KindTaskModuleSubmit
	KindMessagingExtensionQuery
	KindSigninVerifyState
)

// ChannelAccount identifies a user or bot on the channel.
type ChannelAccount struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	AadObjectID string `json:"aadObjectId,omitempty"`
}

// ConversationAccount identifies the conversation an activity belongs to.
type ConversationAccount struct {
	ID               string `json:"id"`
	ConversationType string `json:"conversationType,omitempty"`
	TenantID         string `json:"tenantId,omitempty"`
}

// Activity is the wire shape received on the bot webhook and sent back
// through the connector.
type Activity struct {
	Type           string              `json:"type"`
	ID             string              `json:"id,omitempty"`
	Name           string              `json:"name,omitempty"`
	Text           string              `json:"text,omitempty"`
	Locale         string              `json:"locale,omitempty"`
	ServiceURL     string              `json:"serviceUrl,omitempty"`
	ChannelID      string              `json:"channelId,omitempty"`
	From           ChannelAccount      `json:"from,omitempty"`
	Recipient      ChannelAccount      `json:"recipient,omitempty"`
	Conversation   ConversationAccount `json:"conversation,omitempty"`
	ReplyToID      string              `json:"replyToId,omitempty"`
	MembersAdded   []ChannelAccount    `json:"membersAdded,omitempty"`
	MembersRemoved []ChannelAccount    `json:"membersRemoved,omitempty"`
	Value          json.RawMessage     `json:"value,omitempty"`
	Attachments    []Attachment        `json:"attachments,omitempty"`
}

// Attachment carries a card payload on an activity.
type Attachment struct {
	ContentType string `json:"contentType"`
	Content     any    `json:"content,omitempty"`
	ContentURL  string `json:"contentUrl,omitempty"`
}

// Kind classifies the activity for the router dispatch switch.
func (a *Activity) Kind() ActivityKind {
	switch a.Type {
	case ActivityTypeMessage:
		return KindMessage
	case ActivityTypeConversationUpdate:
		if len(a.MembersAdded) > 0 {
			return KindMembersAdded
		}
		if len(a.MembersRemoved) > 0 {
			return KindMembersRemoved
		}
	case ActivityTypeInvoke:
		switch a.Name {
		case InvokeNameTaskFetch:
			return KindTaskModuleFetch
		case InvokeNameTaskSubmit:
			return KindTaskModuleSubmit
		case InvokeNameComposeQuery:
			return KindMessagingExtensionQuery
		case InvokeNameSigninVerifyState, InvokeNameTokenExchange:
			return KindSigninVerifyState
		}
	}
	return KindUnknown
}

// NewReply builds an outgoing activity addressed back to the sender of
// the inbound one.
func (a *Activity) NewReply(text string) *Activity {
	return &Activity{
		Type:         ActivityTypeMessage,
		Text:         text,
		Locale:       a.Locale,
		ServiceURL:   a.ServiceURL,
		ChannelID:    a.ChannelID,
		From:         a.Recipient,
		Recipient:    a.From,
		Conversation: a.Conversation,
		ReplyToID:    a.ID,
	}
}

// NewCardReply builds an outgoing activity carrying one attachment.
func (a *Activity) NewCardReply(attachment Attachment) *Activity {
	reply := a.NewReply("")
	reply.Attachments = []Attachment{attachment}
	return reply
}
