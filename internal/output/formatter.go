package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/soryu/requestbuilder/http"
)

// Formatter is responsible for formatting HTTP requests and responses in text format
type Formatter struct {
	Verbose bool
	NoColor bool
	scheme  *ColorScheme
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(verbose, noColor bool) *Formatter {
	scheme := ForceColorScheme()
	if noColor {
		scheme = NoColorScheme()
	}
	return &Formatter{
		Verbose: verbose,
		NoColor: noColor,
		scheme:  scheme,
	}
}

// FormatRequest formats a wire request for display
func (f *Formatter) FormatRequest(req *http.WireRequest) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("▶ REQUEST: %s %s\n",
		f.scheme.Method.Sprint(req.Method),
		f.scheme.URL.Sprint(req.URL.String())))

	if f.Verbose || len(req.Header) > 0 {
		buf.WriteString("  Headers:\n")
		f.writeHeaders(&buf, req.Header)
	}

	if len(req.Body) > 0 {
		buf.WriteString("  Body: ")
		buf.WriteString(formatJSONString(string(req.Body)))
		buf.WriteString("\n")
	}

	return buf.String()
}

// FormatResponse formats a response for display
func (f *Formatter) FormatResponse(resp http.Response) string {
	var buf strings.Builder
	meta := resp.Meta

	buf.WriteString(fmt.Sprintf("◀ RESPONSE: %s (%dms)\n",
		f.scheme.Status(meta.StatusCode).Sprint(meta.Status),
		meta.ResponseTimeMillis()))

	if f.Verbose {
		timing := meta.Timing
		buf.WriteString("  Timing:\n")
		buf.WriteString(fmt.Sprintf("    DNS Lookup:         %dms\n", timing.DNSLookupTime.Milliseconds()))
		buf.WriteString(fmt.Sprintf("    TCP Connection:     %dms\n", timing.TCPConnectTime.Milliseconds()))
		buf.WriteString(fmt.Sprintf("    TLS Handshake:      %dms\n", timing.TLSHandshakeTime.Milliseconds()))
		buf.WriteString(fmt.Sprintf("    Time to First Byte: %dms\n", timing.TimeToFirstByte.Milliseconds()))
		buf.WriteString(fmt.Sprintf("    Content Transfer:   %dms\n", timing.ContentTransferTime.Milliseconds()))
		buf.WriteString(fmt.Sprintf("    Total:              %dms\n", timing.TotalTime.Milliseconds()))

		buf.WriteString("  Headers:\n")
		f.writeHeaders(&buf, meta.Header)
	}

	if len(resp.Data) > 0 {
		buf.WriteString("  Body:\n")
		buf.WriteString(formatJSONString(string(resp.Data)))
		buf.WriteString("\n")
	}

	return buf.String()
}

// FormatError formats a failed send
func (f *Formatter) FormatError(err error) string {
	return fmt.Sprintf("%s %s\n", ErrorIcon(f.NoColor), f.scheme.Error.Sprint(err.Error()))
}

func (f *Formatter) writeHeaders(buf *strings.Builder, header map[string][]string) {
	keys := make([]string, 0, len(header))
	for key := range header {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		for _, value := range header[key] {
			buf.WriteString(fmt.Sprintf("    %s: %s\n",
				f.scheme.HeaderKey.Sprint(key),
				f.scheme.HeaderValue.Sprint(value)))
		}
	}
}

// formatJSONString attempts to pretty-print a JSON string
func formatJSONString(s string) string {
	var prettyJSON bytes.Buffer
	err := json.Indent(&prettyJSON, []byte(s), "  ", "  ")
	if err != nil {
		return s
	}
	return prettyJSON.String()
}
