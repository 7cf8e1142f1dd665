package telephony

import "context"

// Caller places a one-shot outbound voice call that speaks the given
// script and hangs up. Fire and forget: success means the vendor
// accepted the call, not that it was answered.
type Caller interface {
	PlaceCall(ctx context.Context, toNumber, script string) error
}
