package discord

import (
	"context"
	"fmt"
	"log/slog"
)

const customIDMaxLen = 100

type interactionType uint

const (
	pingInteraction               interactionType = 1
	ApplicationCommandInteraction interactionType = 2
	MessageComponentInteraction   interactionType = 3
)

type InteractionCallbackType uint

const (
	pongCallback                     InteractionCallbackType = 1
	ChannelMessageWithSource         InteractionCallbackType = 4
	DeferredChannelMessageWithSource InteractionCallbackType = 5
	DeferredUpdateMessage            InteractionCallbackType = 6
	UpdateMessageCallback            InteractionCallbackType = 7
)

type componentType uint

const (
	ActionRowType componentType = 1
	buttonType    componentType = 2
)

type buttonStyle uint

const (
	PrimaryButton   buttonStyle = 1
	SecondaryButton buttonStyle = 2
	DangerButton    buttonStyle = 4
)

// Application command option types
const (
	StringOption = 3
	UserOption   = 6
)

const (
	EphemeralMessage int = 1 << 6
)

// Embed colors
const (
	ColorGold  = 0xf1c40f
	ColorRed   = 0xe74c3c
	ColorGreen = 0x2ecc71
)

type InteractionRequest struct {
	Member        Member `json:"member"`
	ID            string `json:"id"`
	GuildID       string `json:"guild_id"`
	Token         string `json:"token"`
	ApplicationID string `json:"application_id"`
	Data          struct {
		Name     string          `json:"name"`
		CustomID string          `json:"custom_id"`
		Options  []CommandOption `json:"options"`
		Resolved struct {
			Users map[string]User `json:"users"`
		} `json:"resolved"`
	} `json:"data"`
	Type interactionType `json:"type"`
}

// Option returns the value of the named option, empty if absent
func (i InteractionRequest) Option(name string) string {
	for _, option := range i.Data.Options {
		if option.Name == name {
			return option.Value
		}
	}

	return ""
}

// ResolvedUser returns the user resolved by Discord for an user option
func (i InteractionRequest) ResolvedUser(id string) (User, bool) {
	user, ok := i.Data.Resolved.Users[id]
	return user, ok
}

type Member struct {
	User User `json:"user,omitempty"`
}

type User struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
	Bot      bool   `json:"bot,omitempty"`
}

type InteractionDataResponse struct {
	Content         string          `json:"content,omitempty"`
	AllowedMentions AllowedMentions `json:"allowed_mentions"`
	Embeds          []Embed         `json:"embeds"`      // no `omitempty` to pass empty array when cleared
	Components      []Component     `json:"components"`  // no `omitempty` to pass empty array when cleared
	Attachments     []Attachment    `json:"attachments"` // no `omitempty` to pass empty array when cleared
	Flags           int             `json:"flags"`
}

func NewDataResponse(content string) InteractionDataResponse {
	return InteractionDataResponse{
		Content: content,
		AllowedMentions: AllowedMentions{
			Parse: []string{},
		},
	}
}

type InteractionResponse struct {
	Data InteractionDataResponse `json:"data,omitempty"`
	Type InteractionCallbackType `json:"type,omitempty"`
}

func NewResponse(iType InteractionCallbackType, content string) InteractionResponse {
	return InteractionResponse{
		Type: iType,
		Data: NewDataResponse(content),
	}
}

func (i InteractionResponse) Ephemeral() InteractionResponse {
	i.Data.Flags = EphemeralMessage
	return i
}

func (i InteractionResponse) AddEmbed(embed Embed) InteractionResponse {
	i.Data.Embeds = append(i.Data.Embeds, embed)
	return i
}

func (i InteractionResponse) AddComponent(component Component) InteractionResponse {
	i.Data.Components = append(i.Data.Components, component)
	return i
}

// AddAttachment adds an in-memory file to the response, sent as multipart
func (i InteractionResponse) AddAttachment(filename string, content []byte) InteractionResponse {
	i.Data.Attachments = append(i.Data.Attachments, Attachment{
		ID:        len(i.Data.Attachments),
		Filename:  filename,
		Size:      int64(len(content)),
		Ephemeral: i.Data.Flags&EphemeralMessage != 0,
		content:   content,
	})

	return i
}

func AsyncResponse(replace, ephemeral bool) InteractionResponse {
	response := InteractionResponse{
		Type: DeferredChannelMessageWithSource,
	}

	if replace {
		response.Type = DeferredUpdateMessage
	}

	if ephemeral {
		response.Data.Flags = EphemeralMessage
	}

	return response
}

func NewError(replace bool, err error) InteractionResponse {
	return NewEphemeral(replace, fmt.Sprintf("Oh! It's broken 😱. Reason is: %s", err))
}

func NewEphemeral(replace bool, content string) InteractionResponse {
	callback := ChannelMessageWithSource
	if replace {
		callback = UpdateMessageCallback
	}

	instance := InteractionResponse{Type: callback}
	instance.Data.Content = content
	instance.Data.Flags = EphemeralMessage
	instance.Data.Embeds = []Embed{}
	instance.Data.Components = []Component{}
	instance.Data.Attachments = []Attachment{}

	return instance
}

type AllowedMentions struct {
	Parse []string `json:"parse"`
}

type Image struct {
	URL string `json:"url"`
}

type Embed struct {
	Image       *Image  `json:"image,omitempty"`
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Fields      []Field `json:"fields,omitempty"`
	Color       int     `json:"color,omitempty"`
}

func (e Embed) SetColor(color int) Embed {
	e.Color = color
	return e
}

func (e Embed) AddField(field Field) Embed {
	e.Fields = append(e.Fields, field)
	return e
}

type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

func NewField(name, value string) Field {
	return Field{
		Name:  name,
		Value: value,
	}
}

type Component struct {
	Label      string        `json:"label,omitempty"`
	CustomID   string        `json:"custom_id,omitempty"`
	Components []Component   `json:"components,omitempty"`
	Type       componentType `json:"type,omitempty"`
	Style      buttonStyle   `json:"style,omitempty"`
}

func NewActionRow(components ...Component) Component {
	return Component{
		Type:       ActionRowType,
		Components: components,
	}
}

func NewButton(style buttonStyle, label, customID string) Component {
	if len(customID) > customIDMaxLen {
		slog.LogAttrs(context.Background(), slog.LevelWarn, "`custom_id` exceeds max characters", slog.Int("max", customIDMaxLen))
	}

	return Component{
		Type:     buttonType,
		Style:    style,
		Label:    label,
		CustomID: customID,
	}
}

type Attachment struct {
	Filename  string `json:"filename"`
	content   []byte
	ID        int   `json:"id"`
	Size      int64 `json:"size,omitempty"`
	Ephemeral bool  `json:"ephemeral,omitempty"`
}

type Command struct {
	Name        string          `json:"name,omitempty"`
	Description string          `json:"description,omitempty"`
	Options     []CommandOption `json:"options,omitempty"`
	Guilds      []string        `json:"-"`
}

type CommandOption struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Value       string `json:"value,omitempty"`
	Type        int    `json:"type,omitempty"`
	Required    bool   `json:"required,omitempty"`
}
