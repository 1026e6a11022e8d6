package client

import (
	"net/http"
	"net/http/httputil"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// debugTransport logs full request/response dumps at debug level.
//
// Enable it with USERFRONT_DEBUG=true or DEBUG=true, or WithDebugLogging.
// The Authorization header is redacted; bodies are not, so keep it out of
// production.
type debugTransport struct{ base http.RoundTripper }

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if reqDump, err := httputil.DumpRequestOut(req, true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Str("request_dump", redactAuthorization(reqDump)).Msg("HTTP request")
	}

	resp, err := dt.base.RoundTrip(req)
	if err != nil {
		log.Error().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("HTTP request failed")
		return nil, err
	}

	if respDump, err := httputil.DumpResponse(resp, true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("status_code", resp.StatusCode).Str("response_dump", string(respDump)).Msg("HTTP response")
	}
	return resp, nil
}

// redactAuthorization blanks the credential in a raw HTTP dump. Only the
// header block is touched.
func redactAuthorization(dump []byte) string {
	head, body, found := strings.Cut(string(dump), "\r\n\r\n")
	lines := strings.Split(head, "\r\n")
	for i, line := range lines {
		if name, _, ok := strings.Cut(line, ":"); ok && strings.EqualFold(strings.TrimSpace(name), "Authorization") {
			lines[i] = name + ": [REDACTED]"
		}
	}
	out := strings.Join(lines, "\r\n")
	if found {
		out += "\r\n\r\n" + body
	}
	return out
}

// debugLoggingRequested checks if HTTP debug logging should be enabled.
// Either USERFRONT_DEBUG=true or DEBUG=true turns it on.
func debugLoggingRequested() bool {
	return os.Getenv("USERFRONT_DEBUG") == "true" || os.Getenv("DEBUG") == "true"
}
