package network

// Transport is the peer data channel a race session talks through.
// Delivery is best effort: no acknowledgement, no retry.
type Transport interface {
	// Send hands one tagged text payload to the channel.
	Send(payload string) error
	// OnReceive registers the callback for inbound payloads. The callback
	// may run on a transport goroutine and must not block.
	OnReceive(fn func(payload string))
}
