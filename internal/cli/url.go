package cli

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/soryu/requestbuilder/http"
)

// parseURL splits a full URL into the client base URL, the endpoint path
// and the query items in the order they appear. A missing scheme defaults to
// http. The fragment is dropped.
func parseURL(fullURL string) (string, string, []http.QueryItem, error) {
	if !strings.HasPrefix(fullURL, "http://") && !strings.HasPrefix(fullURL, "https://") {
		fullURL = "http://" + fullURL
	}

	parsedURL, err := url.Parse(fullURL)
	if err != nil {
		return "", "", nil, fmt.Errorf("invalid URL %q: %w", fullURL, err)
	}
	if parsedURL.Host == "" {
		return "", "", nil, fmt.Errorf("invalid URL %q: missing host", fullURL)
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	if parsedURL.User != nil {
		baseURL = fmt.Sprintf("%s://%s@%s", parsedURL.Scheme, parsedURL.User.String(), parsedURL.Host)
	}

	query, err := parseQuery(parsedURL.RawQuery)
	if err != nil {
		return "", "", nil, err
	}

	return baseURL, endpointPath(parsedURL), query, nil
}

// parseEndpoint splits an endpoint relative to a profile base, such as
// "/users?page=2", into its path and query items.
func parseEndpoint(endpoint string) (string, []http.QueryItem, error) {
	parsedURL, err := url.Parse(endpoint)
	if err != nil {
		return "", nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if parsedURL.IsAbs() {
		return "", nil, fmt.Errorf("endpoint %q must be relative to the profile base URL", endpoint)
	}

	query, err := parseQuery(parsedURL.RawQuery)
	if err != nil {
		return "", nil, err
	}
	return endpointPath(parsedURL), query, nil
}

func endpointPath(u *url.URL) string {
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return path
}

// parseQuery keeps the order of rawQuery, which url.ParseQuery does not.
func parseQuery(rawQuery string) ([]http.QueryItem, error) {
	var items []http.QueryItem
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		name, value, _ := strings.Cut(pair, "=")
		name, err := url.QueryUnescape(name)
		if err != nil {
			return nil, fmt.Errorf("invalid query item %q: %w", pair, err)
		}
		value, err = url.QueryUnescape(value)
		if err != nil {
			return nil, fmt.Errorf("invalid query item %q: %w", pair, err)
		}
		items = append(items, http.QueryItem{Name: name, Value: value})
	}
	return items, nil
}

// parseHeader splits "Name: value".
func parseHeader(header string) (string, string, error) {
	parts := strings.SplitN(header, ":", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
		return "", "", fmt.Errorf("invalid header %q, expected 'Name: value'", header)
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
}

// parseQueryFlag splits "name=value".
func parseQueryFlag(item string) (http.QueryItem, error) {
	name, value, ok := strings.Cut(item, "=")
	if !ok || name == "" {
		return http.QueryItem{}, fmt.Errorf("invalid query item %q, expected name=value", item)
	}
	return http.QueryItem{Name: name, Value: value}, nil
}

// parseExtract splits "[name=]path". Without a name the path is the name.
func parseExtract(arg string) (string, string) {
	if name, path, ok := strings.Cut(arg, "="); ok && name != "" && !strings.HasPrefix(name, "$") {
		return name, path
	}
	return arg, arg
}
