// Package http builds HTTP requests fluently and sends them through a
// pluggable transport, returning promises.
//
// A Client owns a base URL, a Transport, a default Behavior and the executor
// on which every continuation of a send runs. Requests are accumulated with a
// RequestBuilder and sent with Send, which settles exactly once:
//
//	client, err := http.NewClient("https://api.example.com",
//	    http.WithDefaultBehavior(http.BearerToken(token)),
//	)
//	if err != nil {
//	    return err
//	}
//
//	client.Get("/users").
//	    WithQueryParam("limit", "10").
//	    WithBehavior(http.StatusCheckBehavior()).
//	    Send().
//	    Catch(func(err error) (http.Response, error) {
//	        var se *http.StatusError
//	        if errors.As(err, &se) && se.StatusCode == 404 {
//	            return http.Response{}, nil
//	        }
//	        return http.Response{}, err
//	    })
//
// Behaviors:
//
// A Behavior contributes headers and observes the send. Attached behaviors
// form one flat ordered list: headers merge left to right with later values
// winning, and hooks run in list order. The client's default behavior always
// comes first, so a request can override any header it sets. AfterSuccess is
// the only hook that can fail; its error rejects the send even though the
// exchange completed. StatusCheckBehavior, SchemaBehavior and
// JSONErrorFieldBehavior are built that way.
//
// JSON:
//
// SendJSON and SendJSONAs encode the body, send, and decode the response.
// Non-2xx responses reject with *StatusError and unparsable bodies with a
// *CodecError wrapping ErrInvalidJSON:
//
//	type user struct {
//	    ID   int    `json:"id"`
//	    Name string `json:"name"`
//	}
//	created := http.SendJSONAs[user](client.Post("/users", nil), user{Name: "ann"})
//
// Thread Safety:
//
// Client and behaviors are safe for concurrent use. A RequestBuilder belongs
// to a single goroutine until it is sent.
package http
