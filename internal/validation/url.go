package validation

import (
	"fmt"
	"net/url"
	"strings"
)

// URLError names the config key whose URL was rejected.
type URLError struct {
	Key    string
	Value  string
	Reason string
}

func (e URLError) Error() string {
	return fmt.Sprintf("%s %s (got %q)", e.Key, e.Reason, e.Value)
}

// BaseURL checks the server's public URL. It may carry a path prefix but no
// query or fragment; production requires https.
func BaseURL(value, key string, requireHTTPS bool) error {
	u, err := absoluteHTTP(value, key, requireHTTPS)
	if err != nil {
		return err
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return URLError{Key: key, Value: value, Reason: "must not contain a query or fragment"}
	}
	return nil
}

// Origin checks a CORS origin: scheme and host only, exactly as browsers
// send it in the Origin header.
func Origin(value, key string) error {
	u, err := absoluteHTTP(value, key, false)
	if err != nil {
		return err
	}
	if (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" {
		return URLError{Key: key, Value: value, Reason: "must be scheme://host[:port] only"}
	}
	if strings.HasSuffix(value, "/") {
		return URLError{Key: key, Value: value, Reason: "must not end with a slash"}
	}
	return nil
}

func absoluteHTTP(value, key string, requireHTTPS bool) (*url.URL, error) {
	u, err := url.Parse(value)
	if err != nil || u.Host == "" {
		return nil, URLError{Key: key, Value: value, Reason: "must be an absolute URL"}
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
	case "http":
		if requireHTTPS {
			return nil, URLError{Key: key, Value: value, Reason: "must use https in production"}
		}
	default:
		return nil, URLError{Key: key, Value: value, Reason: "must use http or https"}
	}
	return u, nil
}
