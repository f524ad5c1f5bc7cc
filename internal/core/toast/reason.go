package toast

// Reason records why a toast left the screen.
type Reason string

const (
	ReasonExpired   Reason = "expired"   // its timer ran out
	ReasonDismissed Reason = "dismissed" // closed individually
	ReasonCleared   Reason = "cleared"   // its group was cleared
	ReasonEvicted   Reason = "evicted"   // pushed out by a full group
)
