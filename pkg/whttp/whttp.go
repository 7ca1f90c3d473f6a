// Package whttp is the fetch capability behind the scrape pipeline: one
// blocking GET returning the raw body plus a few cheap-to-compute facts
// about it (HTML title, whether the body is a JSON document).
package whttp

import (
	"crypto/tls"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
	"golang.org/x/net/html"
)

const DefaultUserAgent = "KNO-URL/1.0"

// Options configures the shared fetch client.
type Options struct {
	Timeout  time.Duration
	Insecure bool // skip TLS certificate verification
	Proxy    string
}

// Response is the outcome of one page fetch.
type Response struct {
	StatusCode int
	Body       string
	Title      string // HTML <title>, if any
	IsJSON     bool   // body parses as a JSON document
}

// NewClient builds a retrying HTTP client for page fetches.
func NewClient(opts Options) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.Logger = log.New(io.Discard, "", 0)
	client.RetryMax = 2
	if opts.Timeout > 0 {
		client.HTTPClient.Timeout = opts.Timeout
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: opts.Insecure,
		},
	}
	if opts.Proxy != "" {
		if proxyURL, err := url.Parse(opts.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}
	client.HTTPClient.Transport = transport

	return client
}

// Fetch retrieves the raw markup at rawURL. The body comes back verbatim;
// no charset or DOM processing happens here.
func Fetch(client *retryablehttp.Client, rawURL, userAgent string) (*Response, error) {
	req, err := retryablehttp.NewRequest("GET", rawURL, nil)
	if err != nil {
		return nil, err
	}

	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Cache-Control", "no-transform")
	req.Header.Set("Accept-Language", "en")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	res := &Response{
		StatusCode: resp.StatusCode,
		Body:       string(bodyBytes),
	}

	if title, ok := htmlTitle(res.Body); ok {
		res.Title = strings.ToValidUTF8(strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(title, "\n", ""), "\r", "")), "")
	}
	res.IsJSON = gjson.Valid(res.Body)

	return res, nil
}

func isTitleElement(n *html.Node) bool {
	return n.Type == html.ElementNode && n.Data == "title"
}

func traverse(n *html.Node) (string, bool) {
	if isTitleElement(n) {
		if n.FirstChild != nil {
			return n.FirstChild.Data, true
		}
		return "", true
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		result, ok := traverse(c)
		if ok {
			return result, ok
		}
	}

	return "", false
}

func htmlTitle(body string) (string, bool) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return "", false
	}

	return traverse(doc)
}
