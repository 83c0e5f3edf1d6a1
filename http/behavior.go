package http

// Behavior is middleware around a send. It contributes headers to the wire
// request and observes the request lifecycle.
//
// Behaviors are treated as immutable configuration: the same value may be
// attached to many requests and run concurrently. Embed BaseBehavior to pick
// up no-op defaults and override only the hooks you need.
type Behavior interface {
	// AdditionalHeaders returns headers stamped onto the wire request.
	AdditionalHeaders() map[string]string

	// BeforeSend runs once, right before the transport is called. It cannot
	// abort the send.
	BeforeSend(req *WireRequest)

	// AfterSuccess runs when the transport completed. A non-nil error turns
	// the send into a rejection even though bytes were exchanged.
	AfterSuccess(req *WireRequest, resp *ResponseMeta, body []byte) error

	// AfterFailure runs when the transport failed. resp is nil unless the
	// transport had received a response before failing. It cannot recover.
	AfterFailure(req *WireRequest, resp *ResponseMeta, err error)
}

// BaseBehavior implements every Behavior method as a no-op.
type BaseBehavior struct{}

func (BaseBehavior) AdditionalHeaders() map[string]string {
	return nil
}

func (BaseBehavior) BeforeSend(*WireRequest) {}

func (BaseBehavior) AfterSuccess(*WireRequest, *ResponseMeta, []byte) error {
	return nil
}

func (BaseBehavior) AfterFailure(*WireRequest, *ResponseMeta, error) {}

// EmptyBehavior does nothing. It is the client default.
type EmptyBehavior struct {
	BaseBehavior
}

// SkipObserver is implemented by behaviors that keep per-request state.
// When an earlier behavior's AfterSuccess rejects the send, the remaining
// behaviors never see AfterSuccess or AfterFailure; those implementing
// SkipObserver get AfterSkipped with the rejecting error instead.
type SkipObserver interface {
	AfterSkipped(req *WireRequest, resp *ResponseMeta, err error)
}

// composite is implemented by behaviors that are an ordered list of others.
// Combine expands them so lists never nest.
type composite interface {
	Behaviors() []Behavior
}

// CombinedBehavior runs an ordered list of behaviors.
//
// Headers are folded left to right, so a later behavior overrides an earlier
// one on the same key. Hooks run in list order. AfterSuccess stops at the
// first failing behavior and returns its error; behaviors after it are
// notified through SkipObserver.
type CombinedBehavior struct {
	behaviors []Behavior
}

// Combine returns a CombinedBehavior whose list is the concatenation of the
// operands' lists. Composite operands are flattened and nil operands are
// skipped.
func Combine(behaviors ...Behavior) *CombinedBehavior {
	var list []Behavior
	for _, b := range behaviors {
		switch v := b.(type) {
		case nil:
		case composite:
			list = append(list, v.Behaviors()...)
		default:
			list = append(list, b)
		}
	}
	return &CombinedBehavior{behaviors: list}
}

// Behaviors returns a copy of the list.
func (c *CombinedBehavior) Behaviors() []Behavior {
	if c == nil {
		return nil
	}
	out := make([]Behavior, len(c.behaviors))
	copy(out, c.behaviors)
	return out
}

// Len is the number of behaviors in the list.
func (c *CombinedBehavior) Len() int {
	if c == nil {
		return 0
	}
	return len(c.behaviors)
}

func (c *CombinedBehavior) AdditionalHeaders() map[string]string {
	headers := make(map[string]string)
	for _, b := range c.behaviors {
		for k, v := range b.AdditionalHeaders() {
			headers[k] = v
		}
	}
	return headers
}

func (c *CombinedBehavior) BeforeSend(req *WireRequest) {
	for _, b := range c.behaviors {
		b.BeforeSend(req)
	}
}

func (c *CombinedBehavior) AfterSuccess(req *WireRequest, resp *ResponseMeta, body []byte) error {
	for i, b := range c.behaviors {
		if err := b.AfterSuccess(req, resp, body); err != nil {
			for _, skipped := range c.behaviors[i+1:] {
				if o, ok := skipped.(SkipObserver); ok {
					o.AfterSkipped(req, resp, err)
				}
			}
			return err
		}
	}
	return nil
}

func (c *CombinedBehavior) AfterFailure(req *WireRequest, resp *ResponseMeta, err error) {
	for _, b := range c.behaviors {
		b.AfterFailure(req, resp, err)
	}
}
