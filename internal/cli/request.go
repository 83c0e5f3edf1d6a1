package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/soryu/requestbuilder/http"
	"github.com/soryu/requestbuilder/internal/config"
	"github.com/soryu/requestbuilder/internal/output"
	"github.com/soryu/requestbuilder/pkg/log"
)

// requestOptions is everything a request command reads from its flags.
type requestOptions struct {
	method     string
	target     string
	body       []byte
	jsonBody   bool
	configPath string
	profile    string
	headers    []string
	query      []string
	extract    []string
	schemaPath string
	errorField string
	failStatus bool
	verbose    bool
	noColor    bool
	format     output.OutputFormat
	logLevel   string
	timeout    time.Duration
	timeoutSet bool
}

func readRequestOptions(cmd *cobra.Command, method, target string) (*requestOptions, error) {
	flags := cmd.Flags()
	opts := &requestOptions{method: method, target: target}

	opts.configPath, _ = flags.GetString("config")
	opts.profile, _ = flags.GetString("profile")
	opts.headers, _ = flags.GetStringArray("header")
	opts.query, _ = flags.GetStringArray("query")
	opts.extract, _ = flags.GetStringArray("extract")
	opts.schemaPath, _ = flags.GetString("schema")
	opts.errorField, _ = flags.GetString("error-field")
	opts.failStatus, _ = flags.GetBool("fail")
	opts.verbose, _ = flags.GetBool("verbose")
	opts.noColor, _ = flags.GetBool("no-color")
	opts.logLevel, _ = flags.GetString("log-level")
	opts.timeout, _ = flags.GetDuration("timeout")
	opts.timeoutSet = flags.Changed("timeout")

	if !output.UseColor(os.Stdout, opts.noColor) {
		opts.noColor = true
	}

	formatName, _ := flags.GetString("output")
	format, err := output.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}
	opts.format = format

	return opts, nil
}

// readBody reads --data and --json. --json marks the request as JSON and
// must hold valid JSON. A value starting with @ names a file.
func readBody(cmd *cobra.Command, opts *requestOptions) error {
	data, _ := cmd.Flags().GetString("data")
	jsonData, _ := cmd.Flags().GetString("json")

	if data != "" && jsonData != "" {
		return errors.New("--data and --json cannot be used together")
	}

	switch {
	case data != "":
		body, err := readValue(data)
		if err != nil {
			return err
		}
		opts.body = body
	case jsonData != "":
		body, err := readValue(jsonData)
		if err != nil {
			return err
		}
		if !json.Valid(body) {
			return fmt.Errorf("--json value is not valid JSON")
		}
		opts.body = body
		opts.jsonBody = true
	}
	return nil
}

func readValue(value string) ([]byte, error) {
	if len(value) > 1 && value[0] == '@' {
		data, err := os.ReadFile(value[1:])
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", value[1:], err)
		}
		return data, nil
	}
	return []byte(value), nil
}

// newClient resolves the target against the profile, when one is used, and
// returns a client plus the endpoint path and query items of the target.
func newClient(opts *requestOptions, logger log.Logger) (*http.Client, string, []http.QueryItem, error) {
	clientOpts := []http.ClientOption{http.WithLogger(logger)}

	var baseURL, path string
	var query []http.QueryItem
	var err error

	if opts.configPath != "" {
		cfg, err := config.LoadConfig(opts.configPath)
		if err != nil {
			return nil, "", nil, err
		}
		profile, err := cfg.Profile(opts.profile)
		if err != nil {
			return nil, "", nil, err
		}
		profileOpts, err := profile.ClientOptions()
		if err != nil {
			return nil, "", nil, err
		}
		clientOpts = append(clientOpts, profileOpts...)

		baseURL = profile.BaseURL
		path, query, err = parseEndpoint(opts.target)
		if err != nil {
			return nil, "", nil, err
		}
	} else {
		if opts.profile != "" {
			return nil, "", nil, errors.New("--profile requires --config")
		}
		baseURL, path, query, err = parseURL(opts.target)
		if err != nil {
			return nil, "", nil, err
		}
	}

	if opts.timeoutSet || opts.configPath == "" {
		clientOpts = append(clientOpts, http.WithTimeout(opts.timeout))
	}

	client, err := http.NewClient(baseURL, clientOpts...)
	if err != nil {
		return nil, "", nil, err
	}
	return client, path, query, nil
}

// buildRequest attaches the flags to a builder bound to client.
func buildRequest(client *http.Client, opts *requestOptions, path string, query []http.QueryItem, logger log.Logger) (*http.RequestBuilder, error) {
	b := client.Request(opts.method, path).WithQueryItems(query...)

	for _, item := range opts.query {
		q, err := parseQueryFlag(item)
		if err != nil {
			return nil, err
		}
		b.WithQueryItems(q)
	}

	if opts.jsonBody {
		b.WithBehavior(http.JSONBehavior{})
	}
	for _, header := range opts.headers {
		key, value, err := parseHeader(header)
		if err != nil {
			return nil, err
		}
		b.WithHeader(key, value)
	}

	if opts.body != nil {
		b.WithBody(opts.body)
	}

	b.WithBehavior(http.NewLoggingBehavior(logger))

	if opts.failStatus {
		b.WithBehavior(http.StatusCheckBehavior())
	}
	if opts.schemaPath != "" {
		source, err := os.ReadFile(opts.schemaPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema file: %w", err)
		}
		schema, err := http.NewSchemaBehavior(string(source))
		if err != nil {
			return nil, err
		}
		b.WithBehavior(schema)
	}
	if opts.errorField != "" {
		b.WithBehavior(http.NewJSONErrorFieldBehavior(opts.errorField))
	}

	return b, nil
}

// runRequest builds, sends and prints one request.
func runRequest(cmd *cobra.Command, opts *requestOptions) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	logger := log.NewConsoleAdapter(stderr, log.ParseLevel(opts.logLevel))

	client, path, query, err := newClient(opts, logger)
	if err != nil {
		return err
	}

	b, err := buildRequest(client, opts, path, query, logger)
	if err != nil {
		return err
	}

	formatter := output.GetFormatter(opts.format, opts.verbose, opts.noColor)

	if opts.format == output.FormatText || opts.verbose {
		req, err := b.Request()
		if err != nil {
			return err
		}
		fmt.Fprint(stdout, formatter.FormatRequest(req))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// The transport timeout bounds the wait.
	resp, err := b.Send().Wait(ctx)
	if err != nil {
		fmt.Fprint(stderr, formatter.FormatError(err))
		return &reportedError{err: err}
	}

	fmt.Fprint(stdout, formatter.FormatResponse(resp))

	return printExtractions(stdout, resp, opts)
}

func printExtractions(w io.Writer, resp http.Response, opts *requestOptions) error {
	var failed []string
	for _, spec := range opts.extract {
		name, path := parseExtract(spec)
		value, err := http.ExtractJSON(resp, path)
		if err != nil {
			fmt.Fprintf(w, "%s %s: %v\n", output.ErrorIcon(opts.noColor), name, err)
			failed = append(failed, name)
			continue
		}
		fmt.Fprintf(w, "%s %s = %s\n", output.SuccessIcon(opts.noColor), name, value)
	}

	if len(failed) > 0 {
		return &reportedError{err: fmt.Errorf("failed to extract %d value(s)", len(failed))}
	}
	return nil
}
