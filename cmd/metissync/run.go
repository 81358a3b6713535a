package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/metis-placement/metis.go"
	"github.com/metis-placement/metis.go/internal/config"
	"github.com/metis-placement/metis.go/pkg/connection"
	"github.com/metis-placement/metis.go/pkg/connection/gorillaws"
	"github.com/metis-placement/metis.go/pkg/logger"
	"github.com/metis-placement/metis.go/pkg/metrics"
	"github.com/metis-placement/metis.go/pkg/storage"
	"github.com/metis-placement/metis.go/pkg/store/educationoffice"
)

const referenceTTL = 5 * time.Minute

type fetchSummary struct {
	State string `json:"state"`
	Error string `json:"error,omitempty"`
}

type summary struct {
	Education string                  `json:"education"`
	Project   int                     `json:"project"`
	State     string                  `json:"state"`
	Counts    map[string]int          `json:"counts"`
	Fetches   map[string]fetchSummary `json:"fetches"`
}

var stages = []string{
	educationoffice.StageStudents,
	educationoffice.StageProjectPlaces,
	educationoffice.StageInternships,
	educationoffice.StageEmails,
	educationoffice.StageQuestionings,
}

func run(ctx context.Context, cfg config.Config, out io.Writer) error {
	log, err := logger.Build().FromPath(cfg.Log.Path).FromWriter(os.Stderr).Level(cfg.Log.Level).Make()
	if err != nil {
		return err
	}
	defer log.Close()

	opts := []metis.Option{metis.WithLogger(log)}

	g, ctx := errgroup.WithContext(ctx)
	if cfg.Metrics.Addr != "" {
		reg := prometheus.NewRegistry()
		rec, err := metrics.NewPrometheus("metis", reg)
		if err != nil {
			return err
		}
		opts = append(opts, metis.WithMetrics(rec))
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			return srv.Close()
		})
	}

	st, err := openStorage(cfg.Storage)
	if err != nil {
		return err
	}
	if st != nil {
		opts = append(opts, metis.WithStorage(st))
	}

	session := connection.NewStaticSession(cfg.API.CSRFToken, cfg.API.Locale)
	client, err := metis.FromEndpointURLString(cfg.API.BaseURL, session, opts...)
	if err != nil {
		return err
	}

	g.Go(func() error {
		return syncScope(ctx, client, st, cfg, session, out)
	})
	return ignoreCanceled(g.Wait())
}

func syncScope(ctx context.Context, client *metis.Client, st *storage.Storage, cfg config.Config, session connection.Session, out io.Writer) error {
	ref, err := reference(ctx, client, st, cfg.Scope.Education)
	if err != nil {
		return err
	}

	s, release, err := client.BindEducationOffice(ref)
	if err != nil {
		return err
	}
	defer release()

	var syncErr error
	if cfg.Scope.Project != 0 {
		syncErr = s.SelectProject(ctx, cfg.Scope.Project)
	} else {
		syncErr = s.Init(ctx)
	}

	// The summary is printed either way; it shows which stage failed.
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summarize(cfg.Scope.Education, s)); err != nil {
		return err
	}
	if syncErr != nil {
		return fmt.Errorf("sync incomplete: %w", syncErr)
	}

	if !cfg.Scope.Follow {
		return errStop
	}
	if cfg.API.PushURL == "" {
		return fmt.Errorf("follow: push_url is not set")
	}
	feed := gorillaws.New(cfg.API.PushURL, &connection.Config{Session: session, Logger: client.Logger()})
	return client.Follow(ctx, feed, s)
}

// errStop ends the errgroup, and with it the metrics server, once the summary is printed.
var errStop = errors.New("done")

func ignoreCanceled(err error) error {
	if errors.Is(err, errStop) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func reference(ctx context.Context, client *metis.Client, st *storage.Storage, locator string) (metis.Reference, error) {
	key := "reference:" + locator
	var ref metis.Reference
	if st != nil {
		ok, err := st.Get(ctx, key, &ref)
		if err == nil && ok {
			return ref, nil
		}
	}
	ref, err := client.LoadReference(ctx, locator)
	if err != nil {
		return ref, err
	}
	if st != nil {
		if err := st.Set(ctx, key, ref, referenceTTL); err != nil {
			client.Logger().Warn("caching reference", "error", err)
		}
	}
	return ref, nil
}

func summarize(education string, s *educationoffice.Store) summary {
	out := summary{
		Education: education,
		Project:   s.SelectedProjectID(),
		State:     s.State().String(),
		Counts: map[string]int{
			"students":      len(s.ProjectStudents()),
			"projectPlaces": len(s.RawProjectPlaces()),
			"internships":   len(s.RawInternships()),
			"emails":        len(s.RawEmails()),
			"questionings":  len(s.RawQuestionings()),
			"contacts":      len(s.Contacts()),
		},
		Fetches: map[string]fetchSummary{},
	}
	for _, stage := range stages {
		f := s.Fetch(stage)
		fs := fetchSummary{State: f.State.String()}
		if f.Err != nil {
			fs.Error = f.Err.Error()
		}
		out.Fetches[stage] = fs
	}
	return out
}

func openStorage(cfg config.StorageConfig) (*storage.Storage, error) {
	switch cfg.Backend {
	case "", "none":
		return nil, nil
	case "memory":
		return storage.New(storage.NewMemory()), nil
	case "file":
		return storage.New(storage.NewFile(cfg.Path)), nil
	case "redis":
		client, err := storage.ParseRedisURL(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return storage.New(storage.NewRedis(client, "metis:")), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
