package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/buger/jsonparser"
	"github.com/gofrs/uuid"

	"github.com/metis-placement/metis.go/internal/codec"
	"github.com/metis-placement/metis.go/pkg/connection"
	"github.com/metis-placement/metis.go/pkg/constants"
	"github.com/metis-placement/metis.go/pkg/logger"
)

// Connection is the HTTP Remote. It is safe for concurrent use.
type Connection struct {
	BaseURL     string
	Marshaler   codec.Marshaler
	Unmarshaler codec.Unmarshaler

	session    connection.Session
	logger     logger.Logger
	httpClient *http.Client
}

var _ connection.Remote = (*Connection)(nil)

func New(p *connection.Config) *Connection {
	con := Connection{
		Marshaler:   p.Marshaler,
		Unmarshaler: p.Unmarshaler,
		BaseURL:     p.BaseURL,
		session:     p.Session,
		logger:      p.Logger,
		httpClient:  p.HTTPClient,
	}
	if con.logger == nil {
		con.logger = logger.Nop()
	}
	if con.session == nil {
		con.session = connection.NewStaticSession("", constants.DefaultLocale)
	}

	if con.httpClient == nil {
		timeout := p.Timeout
		if timeout == 0 {
			timeout = constants.DefaultHTTPTimeout
		}
		con.httpClient = &http.Client{Timeout: timeout}
	}

	return &con
}

func (c *Connection) SetTimeout(timeout time.Duration) *Connection {
	c.httpClient.Timeout = timeout
	return c
}

func (c *Connection) SetHTTPClient(client *http.Client) *Connection {
	c.httpClient = client
	return c
}

// Resolve turns path into a request URL. Absolute URLs from record locators pass
// through untouched.
func (c *Connection) Resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.BaseURL + path
}

func (c *Connection) Send(ctx context.Context, method, path string, body, dst any) error {
	if c.BaseURL == "" && !strings.Contains(path, "://") {
		return constants.ErrNoBaseURL
	}

	target := c.Resolve(path)

	var reader io.Reader = http.NoBody
	if body != nil {
		reqBody, err := c.Marshaler.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s: %w", method, target, err)
		}
		reader = bytes.NewReader(reqBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	req.Header.Set(constants.HeaderAccept, constants.ContentTypeJSON)
	if body != nil {
		req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	}
	req.Header.Set(constants.HeaderAcceptLanguage, connection.NegotiateLocale(c.session.Locale()))
	if id, err := uuid.NewV4(); err == nil {
		req.Header.Set(constants.HeaderRequestID, id.String())
	}
	if connection.IsMutating(method) {
		if token := c.session.CSRFToken(); token != "" {
			req.Header.Set(constants.HeaderCSRFToken, token)
		}
	}

	respData, err := c.MakeRequest(req)
	if err != nil {
		return err
	}

	if dst == nil || len(bytes.TrimSpace(respData)) == 0 {
		return nil
	}
	if err := c.Unmarshaler.Unmarshal(respData, dst); err != nil {
		return fmt.Errorf("decoding %s %s: %w", method, target, err)
	}
	return nil
}

// MakeRequest executes req and returns the body of a 2xx response. Any other outcome
// is an *connection.APIError.
func (c *Connection) MakeRequest(req *http.Request) ([]byte, error) {
	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", req.Method, "url", req.URL.String(), "error", err)
		return nil, &connection.APIError{Method: req.Method, URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &connection.APIError{Method: req.Method, URL: req.URL.String(), Err: err}
	}

	c.logger.Debug("request done",
		"method", req.Method,
		"url", req.URL.String(),
		"status", resp.StatusCode,
		"request_id", req.Header.Get(constants.HeaderRequestID),
		"elapsed", time.Since(started))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return respBytes, nil
	}

	return nil, &connection.APIError{
		Method:     req.Method,
		URL:        req.URL.String(),
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		Body:       ParseErrorBody(resp.Header.Get(constants.HeaderContentType), respBytes),
	}
}

// ParseErrorBody extracts the message of an error response. JSON bodies carry either
// a "detail"/"message" string or one array of messages per field; anything else is
// kept as plain text.
func ParseErrorBody(contentType string, data []byte) connection.ErrorBody {
	var out connection.ErrorBody
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return out
	}

	mediaType := strings.TrimSpace(strings.Split(contentType, ";")[0])
	if mediaType != constants.ContentTypeJSON || data[0] != '{' {
		out.Message = string(data)
		return out
	}

	_ = jsonparser.ObjectEach(data, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
		name := string(key)
		switch dataType {
		case jsonparser.String:
			msg, err := jsonparser.ParseString(value)
			if err != nil {
				msg = string(value)
			}
			if name == "detail" || name == "message" {
				out.Message = msg
				return nil
			}
			out.AddField(name, msg)
		case jsonparser.Array:
			_, _ = jsonparser.ArrayEach(value, func(item []byte, itemType jsonparser.ValueType, _ int, _ error) {
				if itemType != jsonparser.String {
					out.AddField(name, string(item))
					return
				}
				msg, err := jsonparser.ParseString(item)
				if err != nil {
					msg = string(item)
				}
				out.AddField(name, msg)
			})
		default:
			out.AddField(name, string(value))
		}
		return nil
	})

	return out
}
