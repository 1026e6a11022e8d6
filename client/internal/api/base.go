package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	apierrors "github.com/userfront/userfront/client/internal/errors"
)

// HTTPClient interface for dependency injection
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// doJSON sends req and decodes a 2xx body into a generic JSON document.
// Numbers are kept as json.Number so integer identifiers of any size keep
// every digit. An empty body decodes to nil, like a JSON null.
func doJSON(httpClient HTTPClient, req *http.Request, op string) (any, error) {
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, apierrors.NewNetworkError(op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apierrors.NewHTTPError(op, resp)
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: decode response: %w", op, err)
	}
	return doc, nil
}

// kindOf names the JSON kind of a decoded document for log messages.
func kindOf(doc any) string {
	switch doc.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "bool"
	default:
		return fmt.Sprintf("%T", doc)
	}
}
