package http

import (
	"github.com/soryu/requestbuilder/pkg/jsonpath"
	"github.com/soryu/requestbuilder/pkg/jsonschema"
)

// SchemaBehavior rejects 2xx responses whose body does not conform to a JSON
// Schema. Non-2xx responses are left to other behaviors.
type SchemaBehavior struct {
	BaseBehavior
	schema *jsonschema.Schema
}

// NewSchemaBehavior compiles source once; the result may be shared by any
// number of requests.
func NewSchemaBehavior(source string) (SchemaBehavior, error) {
	schema, err := jsonschema.Compile(source)
	if err != nil {
		return SchemaBehavior{}, err
	}
	return SchemaBehavior{schema: schema}, nil
}

func (b SchemaBehavior) AfterSuccess(_ *WireRequest, resp *ResponseMeta, body []byte) error {
	if !resp.IsSuccess() {
		return nil
	}
	if err := b.schema.Validate(body); err != nil {
		return &SchemaError{Err: err}
	}
	return nil
}

// JSONErrorFieldBehavior rejects responses whose JSON body carries a
// non-null value at path, for APIs that report failures inside a 200. The
// value found becomes the APIError message.
type JSONErrorFieldBehavior struct {
	BaseBehavior
	path string
}

// NewJSONErrorFieldBehavior watches path, written as $.error or error.message.
func NewJSONErrorFieldBehavior(path string) JSONErrorFieldBehavior {
	return JSONErrorFieldBehavior{path: path}
}

func (b JSONErrorFieldBehavior) AfterSuccess(_ *WireRequest, resp *ResponseMeta, body []byte) error {
	if !jsonpath.Exists(body, b.path) {
		return nil
	}
	message, err := jsonpath.Extract(body, b.path)
	if err != nil {
		return nil
	}
	return &APIError{
		StatusCode: resp.StatusCode,
		Path:       b.path,
		Message:    message,
	}
}
