package metis

import (
	"context"
	"fmt"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/metis-placement/metis.go/internal/codec"
	"github.com/metis-placement/metis.go/pkg/connection"
	"github.com/metis-placement/metis.go/pkg/connection/gorillaws"
	metishttp "github.com/metis-placement/metis.go/pkg/connection/http"
	"github.com/metis-placement/metis.go/pkg/constants"
	"github.com/metis-placement/metis.go/pkg/logger"
	"github.com/metis-placement/metis.go/pkg/metrics"
	"github.com/metis-placement/metis.go/pkg/models"
	"github.com/metis-placement/metis.go/pkg/relay"
	"github.com/metis-placement/metis.go/pkg/storage"
	"github.com/metis-placement/metis.go/pkg/store/educationoffice"
	"github.com/metis-placement/metis.go/pkg/store/office"
	"github.com/metis-placement/metis.go/pkg/store/placeoffice"
	"github.com/metis-placement/metis.go/pkg/store/proposeplace"
	"github.com/metis-placement/metis.go/pkg/store/studentarea"
	"github.com/metis-placement/metis.go/pkg/store/user"
)

type Client struct {
	remote  connection.Remote
	bus     *relay.Bus
	codec   codec.Codec
	logger  logger.Logger
	metrics metrics.Recorder
	storage *storage.Storage
}

type Option func(*Client)

func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithMetrics(m metrics.Recorder) Option {
	return func(c *Client) { c.metrics = m }
}

// WithStorage enables caching where a store supports it.
func WithStorage(s *storage.Storage) Option {
	return func(c *Client) { c.storage = s }
}

func WithBus(b *relay.Bus) Option {
	return func(c *Client) { c.bus = b }
}

func WithCodec(cd codec.Codec) Option {
	return func(c *Client) { c.codec = cd }
}

func New(remote connection.Remote, opts ...Option) *Client {
	c := &Client{
		remote:  remote,
		codec:   codec.JSON(),
		logger:  logger.Nop(),
		metrics: metrics.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.bus == nil {
		c.bus = relay.New(c.logger)
	}
	return c
}

// FromEndpointURLString creates a Client over HTTP for the API served at rawURL.
// session may be nil for anonymous read access.
func FromEndpointURLString(rawURL string, session connection.Session, opts ...Option) (*Client, error) {
	u, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid endpoint %q: unsupported scheme %q", rawURL, u.Scheme)
	}

	c := New(nil, opts...)
	cfg := connection.NewConfig(u)
	cfg.Logger = c.logger
	cfg.Marshaler = c.codec
	cfg.Unmarshaler = c.codec
	if session != nil {
		cfg.Session = session
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c.remote = metishttp.New(cfg)
	return c, nil
}

func (c *Client) Remote() connection.Remote { return c.remote }

func (c *Client) Bus() *relay.Bus { return c.bus }

func (c *Client) Logger() logger.Logger { return c.logger }

// Reference is the data an education office page is seeded with.
type Reference struct {
	Education models.Education `json:"education"`
	Programs  []models.Program `json:"programs"`
	Projects  []models.Project `json:"projects"`
}

// LoadReference fetches the education at locator, then its programs and projects
// side by side.
func (c *Client) LoadReference(ctx context.Context, locator string) (Reference, error) {
	var ref Reference
	if c.remote == nil {
		return ref, constants.ErrNoBaseURL
	}

	edu, err := connection.Get[models.Education](ctx, c.remote, locator)
	if err != nil {
		return ref, fmt.Errorf("fetching education: %w", err)
	}
	ref.Education = edu
	if edu.RelPrograms == "" || edu.RelProjects == "" {
		return ref, fmt.Errorf("education %d: %w", edu.ID, constants.ErrNoLocator)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		programs, err := connection.Get[[]models.Program](ctx, c.remote, edu.RelPrograms)
		if err != nil {
			return fmt.Errorf("fetching programs: %w", err)
		}
		ref.Programs = programs
		return nil
	})
	g.Go(func() error {
		projects, err := connection.Get[[]models.Project](ctx, c.remote, edu.RelProjects)
		if err != nil {
			return fmt.Errorf("fetching projects: %w", err)
		}
		ref.Projects = projects
		return nil
	})
	if err := g.Wait(); err != nil {
		return ref, err
	}
	return ref, nil
}

func (c *Client) EducationOffice() *educationoffice.Store {
	return educationoffice.New(educationoffice.Config{
		Remote:  c.remote,
		Codec:   c.codec,
		Logger:  c.logger,
		Metrics: c.metrics,
	})
}

// BindEducationOffice creates an education office store seeded with ref and
// subscribed to the client's bus. Call release to unsubscribe.
func (c *Client) BindEducationOffice(ref Reference) (s *educationoffice.Store, release func(), err error) {
	s = c.EducationOffice()
	s.SetData(ref.Education, ref.Programs, ref.Projects)
	release, err = s.Bind(c.bus)
	if err != nil {
		return nil, nil, err
	}
	return s, release, nil
}

func (c *Client) Office() *office.Store {
	return office.New()
}

func (c *Client) StudentArea() *studentarea.Store {
	return studentarea.New(studentarea.Config{Remote: c.remote, Logger: c.logger, Metrics: c.metrics})
}

func (c *Client) PlaceOffice() *placeoffice.Store {
	return placeoffice.New()
}

func (c *Client) ProposePlace() *proposeplace.Store {
	return proposeplace.New(proposeplace.Config{Remote: c.remote, Codec: c.codec, Logger: c.logger, Metrics: c.metrics})
}

func (c *Client) User() *user.Store {
	return user.New(user.Config{
		Remote:  c.remote,
		Codec:   c.codec,
		Logger:  c.logger,
		Metrics: c.metrics,
		Storage: c.storage,
	})
}

// NotificationSink is a store that accepts pushed changes.
type NotificationSink interface {
	ApplyNotification(ctx context.Context, n connection.Notification) error
}

// Follow runs feed and applies every notification to sink until the feed stops.
// Notifications that fail to apply are logged and skipped.
func (c *Client) Follow(ctx context.Context, feed *gorillaws.Feed, sink NotificationSink) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return feed.Run(ctx)
	})
	g.Go(func() error {
		for n := range feed.Notifications() {
			if err := sink.ApplyNotification(ctx, n); err != nil {
				c.logger.Warn("dropping notification", "action", n.Action, "collection", n.Collection, "error", err)
			}
		}
		return nil
	})
	return g.Wait()
}
