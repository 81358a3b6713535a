package connection

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/metis-placement/metis.go/internal/codec"
	"github.com/metis-placement/metis.go/pkg/constants"
	"github.com/metis-placement/metis.go/pkg/logger"
)

type Config struct {
	URL         url.URL
	BaseURL     string
	Marshaler   codec.Marshaler
	Unmarshaler codec.Unmarshaler
	Logger      logger.Logger
	Session     Session
	HTTPClient  *http.Client
	Timeout     time.Duration
}

// NewConfig creates a Config for the API served at u, such as "https://metis.example/api/v1".
// It is not absolutely necessary to create a Config using this function, but it sets
// the JSON codec, a stdout logger and an empty session.
func NewConfig(u *url.URL) *Config {
	c := codec.JSON()
	base := fmt.Sprintf("%s://%s%s", u.Scheme, u.Host, trimSlash(u.Path))
	return &Config{
		URL:         *u,
		BaseURL:     base,
		Marshaler:   c,
		Unmarshaler: c,
		Logger:      logger.New(slog.NewTextHandler(os.Stdout, nil)),
		Session:     NewStaticSession("", constants.DefaultLocale),
		Timeout:     constants.DefaultHTTPTimeout,
	}
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return constants.ErrNoBaseURL
	}
	if c.Marshaler == nil {
		return constants.ErrNoMarshaler
	}
	if c.Unmarshaler == nil {
		return constants.ErrNoUnmarshaler
	}
	return nil
}

func trimSlash(p string) string {
	for len(p) > 0 && p[len(p)-1] == '/' {
		p = p[:len(p)-1]
	}
	return p
}
