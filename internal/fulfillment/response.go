package fulfillment

// WebhookResponse is the outbound fulfillment document. For voice surfaces the
// payload lives under Data.Google, for chat under Data.Slack. Exactly one
// response is produced per inbound request.
type WebhookResponse struct {
	Speech      string        `json:"speech,omitempty"`
	DisplayText string        `json:"displayText,omitempty"`
	Data        *ResponseData `json:"data,omitempty"`
	ContextOut  []Context     `json:"contextOut,omitempty"`
	Source      string        `json:"source,omitempty"`
}

// ResponseData holds the per-channel payloads.
type ResponseData struct {
	Google *GooglePayload `json:"google,omitempty"`
	Slack  *SlackMessage  `json:"slack,omitempty"`
}

// GooglePayload is the assistant response envelope.
type GooglePayload struct {
	ExpectUserResponse bool          `json:"expectUserResponse"`
	RichResponse       *RichResponse `json:"richResponse,omitempty"`
	SystemIntent       *SystemIntent `json:"systemIntent,omitempty"`
}

// RichResponse is an ordered list of display items plus suggestion chips.
type RichResponse struct {
	Items       []RichItem   `json:"items"`
	Suggestions []Suggestion `json:"suggestions,omitempty"`
}

// RichItem is one element of a rich response; exactly one field is set.
type RichItem struct {
	SimpleResponse *SimpleResponse `json:"simpleResponse,omitempty"`
	BasicCard      *BasicCard      `json:"basicCard,omitempty"`
}

// SimpleResponse is a spoken and displayed text pair. SSML and TextToSpeech
// are mutually exclusive.
type SimpleResponse struct {
	TextToSpeech string `json:"textToSpeech,omitempty"`
	SSML         string `json:"ssml,omitempty"`
	DisplayText  string `json:"displayText,omitempty"`
}

// BasicCard is a title/body/image/button card.
type BasicCard struct {
	Title         string   `json:"title,omitempty"`
	FormattedText string   `json:"formattedText,omitempty"`
	Image         *Image   `json:"image,omitempty"`
	Buttons       []Button `json:"buttons,omitempty"`
}

// Image is a displayed image with accessibility text.
type Image struct {
	URL               string `json:"url"`
	AccessibilityText string `json:"accessibilityText,omitempty"`
}

// Button links out of the conversation.
type Button struct {
	Title         string        `json:"title"`
	OpenURLAction OpenURLAction `json:"openUrlAction"`
}

// OpenURLAction is the target of a card button.
type OpenURLAction struct {
	URL string `json:"url"`
}

// Suggestion is a tappable chip below the response.
type Suggestion struct {
	Title string `json:"title"`
}

// SystemIntent asks the platform to collect a selection from the user.
type SystemIntent struct {
	Intent string           `json:"intent"`
	Data   SystemIntentData `json:"data"`
}

// SystemIntentData carries either a carousel or a list select.
type SystemIntentData struct {
	Type           string      `json:"@type"`
	CarouselSelect *ItemSelect `json:"carouselSelect,omitempty"`
	ListSelect     *ItemSelect `json:"listSelect,omitempty"`
}

// ItemSelect is the shared shape of carousels and lists.
type ItemSelect struct {
	Title string       `json:"title,omitempty"`
	Items []OptionItem `json:"items"`
}

// OptionItem is a selectable entry with a stable key.
type OptionItem struct {
	OptionInfo  OptionInfo `json:"optionInfo"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Image       *Image     `json:"image,omitempty"`
}

// OptionInfo identifies an option and its spoken synonyms.
type OptionInfo struct {
	Key      string   `json:"key"`
	Synonyms []string `json:"synonyms,omitempty"`
}

// SlackMessage is the chat-surface payload.
type SlackMessage struct {
	Text        string            `json:"text"`
	Attachments []SlackAttachment `json:"attachments,omitempty"`
}

// SlackAttachment is a single chat card.
type SlackAttachment struct {
	Title    string `json:"title,omitempty"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	ThumbURL string `json:"thumb_url,omitempty"`
	Color    string `json:"color,omitempty"`
}

const (
	optionIntent     = "actions.intent.OPTION"
	optionIntentType = "type.googleapis.com/google.actions.v2.OptionValueSpec"
)

// SetContext writes an outgoing conversation context, replacing any existing
// context with the same name.
func (r *WebhookResponse) SetContext(name string, lifespan int, parameters map[string]string) {
	for i := range r.ContextOut {
		if r.ContextOut[i].Name == name {
			r.ContextOut[i] = Context{Name: name, Parameters: parameters, Lifespan: lifespan}
			return
		}
	}
	r.ContextOut = append(r.ContextOut, Context{Name: name, Parameters: parameters, Lifespan: lifespan})
}

// OutContext looks up an outgoing context by name.
func (r *WebhookResponse) OutContext(name string) *Context {
	for i := range r.ContextOut {
		if r.ContextOut[i].Name == name {
			return &r.ContextOut[i]
		}
	}
	return nil
}
