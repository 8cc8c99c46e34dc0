package fulfillment

// Surface identifies the rendering capability of the calling channel. It is
// derived once per request and read-only afterwards.
type Surface string

const (
	// SurfaceScreen is a voice assistant with a display.
	SurfaceScreen Surface = "screen"
	// SurfaceAudio is a voice assistant without a display.
	SurfaceAudio Surface = "audio"
	// SurfaceChat is a text chat channel such as Slack.
	SurfaceChat Surface = "chat"
)

const (
	sourceGoogle           = "google"
	capabilityScreenOutput = "actions.capability.SCREEN_OUTPUT"
)

// DetectSurface derives the surface from the inbound payload. Requests from the
// voice assistant split on the screen capability; everything else is chat.
func DetectSurface(req *WebhookRequest) Surface {
	if req.Source() != sourceGoogle {
		return SurfaceChat
	}
	if req.HasScreen() {
		return SurfaceScreen
	}
	return SurfaceAudio
}

// Voice reports whether the surface is handled by the voice assistant.
func (s Surface) Voice() bool {
	return s == SurfaceScreen || s == SurfaceAudio
}
