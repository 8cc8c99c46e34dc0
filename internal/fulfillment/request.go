package fulfillment

// WebhookRequest is the inbound Dialogflow fulfillment payload. Only the
// fields the handlers read are modelled; the platform owns the full contract.
type WebhookRequest struct {
	ID              string           `json:"id,omitempty"`
	Lang            string           `json:"lang,omitempty"`
	Result          *QueryResult     `json:"result,omitempty"`
	OriginalRequest *OriginalRequest `json:"originalRequest,omitempty"`
}

// QueryResult carries the matched intent, its parameters, and the contexts
// visible this turn.
type QueryResult struct {
	Action        string            `json:"action,omitempty"`
	ResolvedQuery string            `json:"resolvedQuery,omitempty"`
	Parameters    map[string]string `json:"parameters,omitempty"`
	Contexts      []Context         `json:"contexts,omitempty"`
	Metadata      *Metadata         `json:"metadata,omitempty"`
}

// Metadata names the matched intent.
type Metadata struct {
	IntentName string `json:"intentName,omitempty"`
}

// Context is a short-lived cross-turn key/value record. The platform expires
// it after Lifespan turns.
type Context struct {
	Name       string            `json:"name"`
	Parameters map[string]string `json:"parameters,omitempty"`
	Lifespan   int               `json:"lifespan"`
}

// OriginalRequest identifies the calling channel and its capabilities.
type OriginalRequest struct {
	Source string               `json:"source,omitempty"`
	Data   *OriginalRequestData `json:"data,omitempty"`
}

// OriginalRequestData is the assistant-platform-specific request envelope.
type OriginalRequestData struct {
	Surface *SurfaceInfo `json:"surface,omitempty"`
	User    *User        `json:"user,omitempty"`
}

// SurfaceInfo lists the capabilities of the device the user talks to.
type SurfaceInfo struct {
	Capabilities []Capability `json:"capabilities,omitempty"`
}

// Capability is a single named device capability.
type Capability struct {
	Name string `json:"name"`
}

// User carries the assistant user profile fields we read.
type User struct {
	Locale string `json:"locale,omitempty"`
}

// Intent returns the matched intent, preferring the action field and falling
// back to the intent name.
func (r *WebhookRequest) Intent() Intent {
	if r.Result == nil {
		return ""
	}
	if r.Result.Action != "" {
		return Intent(r.Result.Action)
	}
	if r.Result.Metadata != nil {
		return Intent(r.Result.Metadata.IntentName)
	}
	return ""
}

// Source returns the originating channel identifier, empty when absent.
func (r *WebhookRequest) Source() string {
	if r.OriginalRequest == nil {
		return ""
	}
	return r.OriginalRequest.Source
}

// Locale returns the user locale, preferring the assistant user profile over
// the request language.
func (r *WebhookRequest) Locale() string {
	if r.OriginalRequest != nil && r.OriginalRequest.Data != nil &&
		r.OriginalRequest.Data.User != nil && r.OriginalRequest.Data.User.Locale != "" {
		return r.OriginalRequest.Data.User.Locale
	}
	return r.Lang
}

// HasScreen reports whether the calling device advertises screen output.
func (r *WebhookRequest) HasScreen() bool {
	if r.OriginalRequest == nil || r.OriginalRequest.Data == nil || r.OriginalRequest.Data.Surface == nil {
		return false
	}
	for _, c := range r.OriginalRequest.Data.Surface.Capabilities {
		if c.Name == capabilityScreenOutput {
			return true
		}
	}
	return false
}

// Parameter returns a query parameter value, empty when absent.
func (r *WebhookRequest) Parameter(name string) string {
	if r.Result == nil {
		return ""
	}
	return r.Result.Parameters[name]
}

// Context looks up an inbound context by name.
func (r *WebhookRequest) Context(name string) *Context {
	if r.Result == nil {
		return nil
	}
	for i := range r.Result.Contexts {
		if r.Result.Contexts[i].Name == name {
			return &r.Result.Contexts[i]
		}
	}
	return nil
}

// ContextParameter reads a single parameter out of a named inbound context.
func (r *WebhookRequest) ContextParameter(contextName, param string) string {
	ctx := r.Context(contextName)
	if ctx == nil {
		return ""
	}
	return ctx.Parameters[param]
}
