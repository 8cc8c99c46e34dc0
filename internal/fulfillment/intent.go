package fulfillment

// Intent identifies which conversational action fired. The set is fixed by the
// Dialogflow agent definition.
type Intent string

const (
	IntentWelcome             Intent = "welcome-meetup"
	IntentBye                 Intent = "bye-meetup"
	IntentAsk                 Intent = "ask-meetup"
	IntentSearchMeetup        Intent = "search-meetup"
	IntentMeetupSelected      Intent = "meetup-selected"
	IntentFindNextEvent       Intent = "find-next-event"
	IntentConfirmationRSVPYes Intent = "confirmation-rsvp-yes"
	IntentConfirmationEventNo Intent = "confirmation-event-no"
	IntentConfirmationRSVPNo  Intent = "confirmation-rsvp-no"
)

// Conversation context names shared across turns.
const (
	ContextMeetup = "context-meetup"
	ContextEvent  = "context-event"

	// ContextOption is the platform-owned context carrying the user's pick
	// from a carousel or list.
	ContextOption = "actions_intent_option"
)

// ContextLifespan is the turn count a stored context survives. Expiry is
// enforced by the assistant platform, not here.
const ContextLifespan = 5

// Parameter names used by the Dialogflow agent.
const (
	ParamName   = "name"
	ParamType   = "type"
	ParamCity   = "city"
	ParamID     = "id"
	ParamOption = "OPTION"
)
