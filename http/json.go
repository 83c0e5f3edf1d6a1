package http

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/soryu/requestbuilder/pkg/jsonpath"
	"github.com/soryu/requestbuilder/pkg/promise"
)

// JSONCodec serializes request bodies and deserializes response bodies.
type JSONCodec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// StdJSONCodec is the encoding/json codec.
type StdJSONCodec struct{}

func (StdJSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (StdJSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// JSONData encodes v with the standard codec.
func JSONData(v any) ([]byte, error) {
	return encodeJSON(StdJSONCodec{}, v)
}

// ParseJSONResponse decodes the body of a 2xx response into the generic
// encoding/json representation. A non-2xx response yields a *StatusError
// carrying the raw body, an unparsable body a *CodecError wrapping
// ErrInvalidJSON, and an empty body nil.
func ParseJSONResponse(resp Response) (any, error) {
	return decodeJSON[any](StdJSONCodec{}, resp)
}

// DecodeJSON is ParseJSONResponse for a concrete type.
func DecodeJSON[T any](resp Response) (T, error) {
	return decodeJSON[T](StdJSONCodec{}, resp)
}

// ExtractJSON returns the value at path in the response body, for example
// "$.data.id".
func ExtractJSON(resp Response, path string) (string, error) {
	return jsonpath.Extract(resp.Data, path)
}

// SendJSON marks the request as JSON, encodes body with the client's codec
// unless it is nil, sends, and parses the response with ParseJSONResponse.
// An encoding failure rejects with a *CodecError before the transport is
// called.
func (b *RequestBuilder) SendJSON(body any) *promise.Promise[any] {
	return SendJSONAs[any](b, body)
}

// SendJSONAs is SendJSON decoding the response into T.
func SendJSONAs[T any](b *RequestBuilder, body any) *promise.Promise[T] {
	if b.client == nil {
		return promise.Rejected[T](ErrUnboundRequest)
	}
	c := b.client

	b.WithBehavior(JSONBehavior{})
	if body != nil {
		data, err := encodeJSON(c.codec, body)
		if err != nil {
			return promise.Rejected[T](err, promise.On(c.executor))
		}
		b.WithBody(data)
	}

	return promise.Then(c.Send(b), func(resp Response) (T, error) {
		return decodeJSON[T](c.codec, resp)
	})
}

func encodeJSON(codec JSONCodec, v any) ([]byte, error) {
	data, err := codec.Marshal(v)
	if err != nil {
		return nil, &CodecError{Op: "encode", Err: err}
	}
	return data, nil
}

func decodeJSON[T any](codec JSONCodec, resp Response) (T, error) {
	var v T
	if resp.Meta == nil {
		return v, ErrInvalidResponse
	}
	if !resp.Meta.IsSuccess() {
		return v, newStatusError(resp.Meta, resp.Data)
	}
	if len(bytes.TrimSpace(resp.Data)) == 0 {
		return v, nil
	}
	if err := codec.Unmarshal(resp.Data, &v); err != nil {
		return v, &CodecError{Op: "decode", Err: fmt.Errorf("%w: %v", ErrInvalidJSON, err)}
	}
	return v, nil
}
