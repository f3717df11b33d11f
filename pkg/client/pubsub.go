package client

// Publish sends message to channel, returning the number of
// subscribers that received it.
func (cl *Client) Publish(channel, message string) (int64, error) {
	reply, queued, err := cl.exec("PUBLISH", channel, message)
	if err != nil || queued {
		return 0, err
	}
	return expectInteger("PUBLISH", reply)
}

// Subscribe issues SUBSCRIBE for one or more channels and consumes
// the server's per-channel acknowledgement frames, switching the
// connection into subscriber mode. It bypasses exec's one reply per
// command assumption because the server sends one acknowledgement
// array per channel argument.
func (cl *Client) Subscribe(channels ...string) error {
	return cl.subscribeLike("SUBSCRIBE", channels, nil)
}

// Unsubscribe issues UNSUBSCRIBE for one or more channels (or every
// subscribed channel, if none are given) and consumes the resulting
// acknowledgement frames.
func (cl *Client) Unsubscribe(channels ...string) error {
	return cl.subscribeLike("UNSUBSCRIBE", channels, cl.conn.SubscribedChannels)
}

// PSubscribe issues PSUBSCRIBE for one or more glob patterns.
func (cl *Client) PSubscribe(patterns ...string) error {
	return cl.subscribeLike("PSUBSCRIBE", patterns, nil)
}

// PUnsubscribe issues PUNSUBSCRIBE for one or more glob patterns (or
// every subscribed pattern, if none are given).
func (cl *Client) PUnsubscribe(patterns ...string) error {
	return cl.subscribeLike("PUNSUBSCRIBE", patterns, cl.conn.SubscribedPatterns)
}

// subscribeLike writes cmd with targets and then drains exactly as
// many acknowledgement frames as the server will send. For an
// explicit target list that count is len(targets). For an "unsubscribe
// from everything" call (targets is empty), Redis instead sends one
// ack per channel/pattern the connection is currently subscribed to —
// current reports that set just before the command is written. If the
// connection is not subscribed to anything, Redis still sends exactly
// one ack (with a nil channel) to acknowledge the no-op, so the count
// is never allowed to collapse to zero.
func (cl *Client) subscribeLike(cmd string, targets []string, current func() []string) error {
	expected := len(targets)
	if expected == 0 && current != nil {
		expected = len(current())
	}
	args := append([]string{cmd}, targets...)
	if err := cl.conn.WriteCommand(args...); err != nil {
		return err
	}
	if expected == 0 {
		expected = 1
	}
	stream := cl.conn.Stream()
	for i := 0; i < expected; i++ {
		if _, err := stream.Next(); err != nil {
			return err
		}
	}
	return nil
}
