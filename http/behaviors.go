package http

const (
	contentTypeHeader = "Content-Type"
	acceptHeader      = "Accept"
	mimeJSON          = "application/json"
)

// AuthenticatingBehavior contributes one static credential header, such as
// an access token.
type AuthenticatingBehavior struct {
	BaseBehavior
	HeaderName string
	Value      string
}

// NewAuthenticatingBehavior creates a behavior sending headerName: value.
func NewAuthenticatingBehavior(headerName, value string) AuthenticatingBehavior {
	return AuthenticatingBehavior{HeaderName: headerName, Value: value}
}

// BearerToken sends "Authorization: Bearer <token>".
func BearerToken(token string) AuthenticatingBehavior {
	return NewAuthenticatingBehavior("Authorization", "Bearer "+token)
}

func (b AuthenticatingBehavior) AdditionalHeaders() map[string]string {
	return map[string]string{b.HeaderName: b.Value}
}

// JSONBehavior marks the request as sending and accepting JSON.
type JSONBehavior struct {
	BaseBehavior
}

func (JSONBehavior) AdditionalHeaders() map[string]string {
	return map[string]string{
		contentTypeHeader: mimeJSON,
		acceptHeader:      mimeJSON,
	}
}

// HeaderBehavior contributes a single header. RequestBuilder.WithHeader and
// the WithHeader client option are built on it.
type HeaderBehavior struct {
	BaseBehavior
	Key   string
	Value string
}

func (b HeaderBehavior) AdditionalHeaders() map[string]string {
	return map[string]string{b.Key: b.Value}
}

// ResponseCheck inspects a completed exchange and returns an error to reject
// it.
type ResponseCheck func(req *WireRequest, resp *ResponseMeta, body []byte) error

// ErrorHandlingBehavior runs a caller-supplied check on every completed
// exchange. It is how a status code or payload becomes a rejection.
type ErrorHandlingBehavior struct {
	BaseBehavior
	check ResponseCheck
}

// NewErrorHandlingBehavior wraps check.
func NewErrorHandlingBehavior(check ResponseCheck) ErrorHandlingBehavior {
	return ErrorHandlingBehavior{check: check}
}

func (b ErrorHandlingBehavior) AfterSuccess(req *WireRequest, resp *ResponseMeta, body []byte) error {
	if b.check == nil {
		return nil
	}
	return b.check(req, resp, body)
}

// StatusCheckBehavior rejects every response outside the 2xx range with a
// StatusError.
func StatusCheckBehavior() ErrorHandlingBehavior {
	return NewErrorHandlingBehavior(func(_ *WireRequest, resp *ResponseMeta, body []byte) error {
		if resp.IsSuccess() {
			return nil
		}
		return newStatusError(resp, body)
	})
}

func newStatusError(resp *ResponseMeta, body []byte) *StatusError {
	return &StatusError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       append([]byte(nil), body...),
	}
}
