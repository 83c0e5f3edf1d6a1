package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = NewRootCmd()

// NewRootCmd builds the command tree. Each call returns independent flag
// state, which keeps tests isolated.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "reqb",
		Short:   "Build and send HTTP requests from the terminal",
		Version: version,
		Long: `reqb sends HTTP requests through the requestbuilder client. Requests
can target a full URL or an endpoint of a profile from a config file, attach
headers, query items and bodies, validate responses against a JSON Schema and
extract values from JSON bodies.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "Profiles file (YAML or JSON)")
	flags.StringP("profile", "p", "", "Profile to use from the config file")
	flags.StringArrayP("header", "H", []string{}, "HTTP headers to include (can be used multiple times)")
	flags.StringArrayP("query", "q", []string{}, "Query items as name=value (can be used multiple times)")
	flags.StringArrayP("extract", "e", []string{}, "Extract a value from the JSON response as [name=]path")
	flags.String("schema", "", "Validate the JSON response against this JSON Schema file")
	flags.String("error-field", "", "Fail when the JSON response has a non-null value at this path")
	flags.BoolP("fail", "f", false, "Fail on responses outside the 2xx range")
	flags.BoolP("verbose", "v", false, "Enable verbose output")
	flags.DurationP("timeout", "t", 30*time.Second, "Request timeout")
	flags.Bool("no-color", false, "Disable colored output")
	flags.StringP("output", "o", "text", "Output format: text, json or yaml")
	flags.String("log-level", "disabled", "Log level: debug, info, warn, error or disabled")

	root.AddCommand(newGetCmd())
	root.AddCommand(newPostCmd())
	root.AddCommand(newPutCmd())
	root.AddCommand(newDeleteCmd())

	return root
}

// reportedError marks a failure that has already been written to the
// output.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string {
	return e.err.Error()
}

func (e *reportedError) Unwrap() error {
	return e.err
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return execute(RootCmd, os.Stderr)
}

func execute(cmd *cobra.Command, stderr io.Writer) error {
	err := cmd.Execute()
	if err == nil {
		return nil
	}
	var reported *reportedError
	if !errors.As(err, &reported) {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return err
}
