package fulfillment

import (
	"strings"

	"github.com/xavmarc/meetup-agent/internal/htmltext"
	"github.com/xavmarc/meetup-agent/internal/i18n"
	"github.com/xavmarc/meetup-agent/internal/meetup"
)

const (
	// DefaultGroupImage is shown for groups without a photo.
	DefaultGroupImage = "https://raw.githubusercontent.com/xavmarc/assistant-meetup/master/images/default-meetup.png"
	// DefaultRSVPImage decorates event cards.
	DefaultRSVPImage = "https://raw.githubusercontent.com/xavmarc/assistant-meetup/master/images/rsvp-meetup.jpg"

	attachmentColor  = "#ff0000"
	descriptionLimit = 300
	eventDateLayout  = "02/01/2006 15:04"
)

// Renderer turns domain results into the calling surface's native response
// shape. It is pure: no network access, no context side effects.
type Renderer struct {
	Msg     *i18n.Printer
	Surface Surface
}

// Greeting renders the welcome turn: a two-part greeting on screens, a single
// spoken one on audio, a card on chat.
func (rd Renderer) Greeting() *WebhookResponse {
	hello := rd.Msg.Sprintf("hello")
	help := rd.Msg.Sprintf("help")

	switch rd.Surface {
	case SurfaceScreen:
		return rd.rich(hello, &RichResponse{
			Items: []RichItem{
				{SimpleResponse: rd.simple(hello)},
				{SimpleResponse: rd.simple(help)},
			},
		})
	case SurfaceAudio:
		return rd.speech(hello + help)
	default:
		return rd.slack(hello, []SlackAttachment{{
			Text:     rd.Msg.Sprintf("description"),
			ImageURL: DefaultGroupImage,
			Color:    attachmentColor,
		}})
	}
}

// Prompt renders a plain localized line and keeps the conversation open.
func (rd Renderer) Prompt(text string) *WebhookResponse {
	return rd.text(text, true)
}

// Final renders a plain localized line and ends the conversation.
func (rd Renderer) Final(text string) *WebhookResponse {
	return rd.text(text, false)
}

// Problem is the generic fallback emitted for upstream failures.
func (rd Renderer) Problem() *WebhookResponse {
	return rd.Prompt(rd.Msg.Sprintf("problem"))
}

// GroupCard renders a single group: a rich card on screens, a spoken summary
// on audio, an attachment on chat.
func (rd Renderer) GroupCard(group *meetup.Group) *WebhookResponse {
	found := rd.Msg.Sprintf("found", group.Name)

	switch rd.Surface {
	case SurfaceScreen:
		image, alt := rd.groupImage(group)
		rich := &RichResponse{
			Items: []RichItem{
				{SimpleResponse: &SimpleResponse{TextToSpeech: found, DisplayText: found}},
				{BasicCard: &BasicCard{
					Title:         group.Name,
					FormattedText: htmltext.Summary(group.Description, descriptionLimit),
					Image:         &Image{URL: image, AccessibilityText: alt},
					Buttons: []Button{{
						Title:         rd.Msg.Sprintf("see_group"),
						OpenURLAction: OpenURLAction{URL: group.Link},
					}},
				}},
				{SimpleResponse: rd.simple(rd.Msg.Sprintf("show_next_event", group.Name))},
			},
			Suggestions: rd.confirmSuggestions(),
		}
		return rd.rich(found, rich)
	case SurfaceAudio:
		return rd.speech(found)
	default:
		return rd.slack(found, []SlackAttachment{rd.groupAttachment(group)})
	}
}

// EventCard renders the next upcoming event of a group.
func (rd Renderer) EventCard(event *meetup.Event) *WebhookResponse {
	intro := rd.Msg.Sprintf("next_event", event.Group.Name, event.Name)
	when := rd.Msg.Sprintf("next_event_date", event.StartsAt().Format(eventDateLayout), rd.venueLine(event))

	switch rd.Surface {
	case SurfaceScreen:
		rich := &RichResponse{
			Items: []RichItem{
				{SimpleResponse: rd.simple(intro)},
				{BasicCard: &BasicCard{
					Title:         event.Name,
					FormattedText: when,
					Image:         &Image{URL: DefaultRSVPImage, AccessibilityText: "RSVP"},
					Buttons: []Button{{
						Title:         rd.Msg.Sprintf("show_event"),
						OpenURLAction: OpenURLAction{URL: event.Link},
					}},
				}},
				{SimpleResponse: rd.simple(rd.Msg.Sprintf("signup_prompt"))},
			},
			Suggestions: rd.confirmSuggestions(),
		}
		return rd.rich(intro, rich)
	case SurfaceAudio:
		return rd.speech(intro + when)
	default:
		return rd.slack(rd.Msg.Sprintf("found", event.Name), []SlackAttachment{{
			Title:    intro,
			Text:     when,
			ImageURL: DefaultRSVPImage,
			Color:    attachmentColor,
		}})
	}
}

// venueLine describes where the event happens, or nothing when the venue is
// not published.
func (rd Renderer) venueLine(event *meetup.Event) string {
	if event.Venue == nil {
		return ""
	}
	return rd.Msg.Sprintf("venue", event.Venue.Name, event.Venue.Address, event.Venue.City)
}

// GroupCarousel renders 2-10 search results as a selectable carousel.
func (rd Renderer) GroupCarousel(groups []meetup.Group, prompt string) *WebhookResponse {
	resp := rd.rich(prompt, &RichResponse{
		Items: []RichItem{{SimpleResponse: rd.simple(prompt)}},
	})
	resp.Data.Google.SystemIntent = &SystemIntent{
		Intent: optionIntent,
		Data: SystemIntentData{
			Type:           optionIntentType,
			CarouselSelect: &ItemSelect{Items: rd.groupOptions(groups)},
		},
	}
	return resp
}

// GroupList renders 11-30 search results as a selectable list.
func (rd Renderer) GroupList(groups []meetup.Group, prompt string) *WebhookResponse {
	resp := rd.rich(prompt, &RichResponse{
		Items: []RichItem{{SimpleResponse: rd.simple(prompt)}},
	})
	resp.Data.Google.SystemIntent = &SystemIntent{
		Intent: optionIntent,
		Data: SystemIntentData{
			Type:       optionIntentType,
			ListSelect: &ItemSelect{Items: rd.groupOptions(groups)},
		},
	}
	return resp
}

// GroupAttachments renders search results for the chat surface.
func (rd Renderer) GroupAttachments(text string, groups []meetup.Group) *WebhookResponse {
	attachments := make([]SlackAttachment, 0, len(groups))
	for i := range groups {
		attachments = append(attachments, rd.groupAttachment(&groups[i]))
	}
	return rd.slack(text, attachments)
}

// JoinedNames joins group names for the audio surface.
func (rd Renderer) JoinedNames(groups []meetup.Group) string {
	names := make([]string, 0, len(groups))
	for i := range groups {
		names = append(names, groups[i].Name)
	}
	return strings.Join(names, rd.Msg.Sprintf("join_separator"))
}

func (rd Renderer) text(text string, expectResponse bool) *WebhookResponse {
	if rd.Surface == SurfaceChat {
		return rd.slack(text, nil)
	}
	if rd.Surface == SurfaceAudio {
		resp := rd.speech(text)
		resp.Data.Google.ExpectUserResponse = expectResponse
		return resp
	}
	return rd.rich(text, &RichResponse{
		Items: []RichItem{{SimpleResponse: rd.simple(text)}},
	}, expectResponse)
}

func (rd Renderer) simple(text string) *SimpleResponse {
	return &SimpleResponse{TextToSpeech: text, DisplayText: text}
}

func (rd Renderer) confirmSuggestions() []Suggestion {
	return []Suggestion{
		{Title: rd.Msg.Sprintf("sure")},
		{Title: rd.Msg.Sprintf("no")},
	}
}

func (rd Renderer) rich(text string, rich *RichResponse, expectResponse ...bool) *WebhookResponse {
	expect := true
	if len(expectResponse) > 0 {
		expect = expectResponse[0]
	}
	return &WebhookResponse{
		Speech:      text,
		DisplayText: text,
		Data: &ResponseData{Google: &GooglePayload{
			ExpectUserResponse: expect,
			RichResponse:       rich,
		}},
	}
}

func (rd Renderer) speech(text string) *WebhookResponse {
	ssml := "<speak>" + text + "</speak>"
	return &WebhookResponse{
		Speech:      ssml,
		DisplayText: text,
		Data: &ResponseData{Google: &GooglePayload{
			ExpectUserResponse: true,
			RichResponse: &RichResponse{
				Items: []RichItem{{SimpleResponse: &SimpleResponse{SSML: ssml, DisplayText: text}}},
			},
		}},
	}
}

func (rd Renderer) slack(text string, attachments []SlackAttachment) *WebhookResponse {
	return &WebhookResponse{
		Speech:      text,
		DisplayText: text,
		Data: &ResponseData{Slack: &SlackMessage{
			Text:        text,
			Attachments: attachments,
		}},
	}
}

func (rd Renderer) groupAttachment(group *meetup.Group) SlackAttachment {
	image := DefaultGroupImage
	if group.Photo != nil && group.Photo.HighresLink != "" {
		image = group.Photo.HighresLink
	}
	return SlackAttachment{
		Title:    group.Name,
		Text:     htmltext.Summary(group.Description, descriptionLimit),
		ThumbURL: image,
		Color:    attachmentColor,
	}
}

func (rd Renderer) groupImage(group *meetup.Group) (url, alt string) {
	if group.Photo != nil && group.Photo.HighresLink != "" {
		return group.Photo.HighresLink, rd.Msg.Sprintf("group_logo", group.Name)
	}
	return DefaultGroupImage, rd.Msg.Sprintf("default_logo")
}

func (rd Renderer) groupOptions(groups []meetup.Group) []OptionItem {
	items := make([]OptionItem, 0, len(groups))
	for i := range groups {
		group := &groups[i]
		image, alt := rd.groupImage(group)
		items = append(items, OptionItem{
			OptionInfo:  OptionInfo{Key: group.URLName, Synonyms: []string{group.Name}},
			Title:       group.Name,
			Description: htmltext.Summary(group.Description, descriptionLimit),
			Image:       &Image{URL: image, AccessibilityText: alt},
		})
	}
	return items
}
