package proxy

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Forwarder relays requests verbatim to a fixed upstream origin: same
// method, same path and query, same JSON body, same Authorization header.
// The upstream response is parsed as JSON and re-emitted with the upstream
// status code, so a malformed upstream body never leaks through as-is.
type Forwarder struct {
	upstream string
	client   *http.Client
	log      *logrus.Logger
}

func NewForwarder(upstream string, log *logrus.Logger) *Forwarder {
	return &Forwarder{
		upstream: strings.TrimRight(upstream, "/"),
		client:   &http.Client{Timeout: 30 * time.Second},
		log:      log,
	}
}

// Handler is mounted as the router's NoRoute handler so every path is
// forwarded.
func (f *Forwarder) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		target := f.upstream + c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			target += "?" + c.Request.URL.RawQuery
		}

		var body io.Reader
		if c.Request.Body != nil {
			data, err := io.ReadAll(c.Request.Body)
			if err != nil {
				c.JSON(400, gin.H{"error": "Failed to read request body"})
				return
			}
			if len(data) > 0 {
				body = bytes.NewReader(data)
			}
		}

		req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, target, body)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to build upstream request"})
			return
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		if auth := c.GetHeader("Authorization"); auth != "" {
			req.Header.Set("Authorization", auth)
		}

		resp, err := f.client.Do(req)
		if err != nil {
			f.log.WithError(err).WithField("target", target).Warn("upstream request failed")
			c.JSON(502, gin.H{"error": "Upstream unavailable"})
			return
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			c.JSON(502, gin.H{"error": "Upstream unavailable"})
			return
		}

		var parsed interface{}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &parsed); err != nil {
				f.log.WithField("target", target).Warn("upstream returned invalid JSON")
				c.JSON(500, gin.H{"error": "Upstream returned an invalid response"})
				return
			}
		}

		c.JSON(resp.StatusCode, parsed)
	}
}
