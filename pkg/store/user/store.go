// Package user holds the signed-in account and its notification menu.
package user

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/metis-placement/metis.go/internal/codec"
	"github.com/metis-placement/metis.go/pkg/connection"
	"github.com/metis-placement/metis.go/pkg/constants"
	"github.com/metis-placement/metis.go/pkg/logger"
	"github.com/metis-placement/metis.go/pkg/metrics"
	"github.com/metis-placement/metis.go/pkg/models"
	"github.com/metis-placement/metis.go/pkg/storage"
)

const (
	Name              = "user"
	StageAccount      = "account"
	StageNotification = "notifications"

	// AccountKey is the storage key of the cached account.
	AccountKey = "user.account"

	NotificationIcon  = "star"
	NotificationColor = "grey"
)

type Config struct {
	Remote  connection.Remote
	Codec   codec.Codec
	Logger  logger.Logger
	Metrics metrics.Recorder

	// Storage caches the account for AccountTTL. Nil disables caching.
	Storage    *storage.Storage
	AccountTTL time.Duration

	PollInterval time.Duration
}

type Store struct {
	mu sync.Mutex

	remote   connection.Remote
	codec    codec.Codec
	logger   logger.Logger
	metrics  metrics.Recorder
	storage  *storage.Storage
	ttl      time.Duration
	interval time.Duration

	account       *models.Account
	notifications []models.UserNotification
}

func New(cfg Config) *Store {
	if cfg.Codec == nil {
		cfg.Codec = codec.JSON()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.Nop()
	}
	if cfg.AccountTTL == 0 {
		cfg.AccountTTL = constants.DefaultAccountTTL
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = constants.DefaultNotificationPollInterval
	}
	return &Store{
		remote:   cfg.Remote,
		codec:    cfg.Codec,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		storage:  cfg.Storage,
		ttl:      cfg.AccountTTL,
		interval: cfg.PollInterval,
	}
}

// User is the last loaded account.
func (s *Store) User() (models.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.account == nil {
		return models.Account{}, false
	}
	return *s.account, true
}

func (s *Store) Notifications() []models.UserNotification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.notifications)
}

// GetUser loads the account, from storage when a cached copy has not expired.
func (s *Store) GetUser(ctx context.Context) (models.Account, error) {
	if s.storage != nil {
		var cached models.Account
		ok, err := s.storage.Get(ctx, AccountKey, &cached)
		if err != nil {
			s.logger.Warn("ignoring cached account", "error", err)
		}
		if ok && err == nil {
			s.setAccount(cached)
			return cached, nil
		}
	}
	return s.RefreshUser(ctx)
}

// RefreshUser loads the account from the server and caches it.
func (s *Store) RefreshUser(ctx context.Context) (models.Account, error) {
	if s.remote == nil {
		return models.Account{}, constants.ErrNoBaseURL
	}
	started := time.Now()
	account, err := connection.Get[models.Account](ctx, s.remote, constants.PathAccount)
	s.metrics.FetchSettled(Name, StageAccount, time.Since(started), err)
	if err != nil {
		return models.Account{}, fmt.Errorf("fetching account: %w", err)
	}
	s.setAccount(account)
	s.cache(ctx, account)
	return account, nil
}

// UpdateUser sends only the named fields of the loaded account and keeps the
// account the server returns.
func (s *Store) UpdateUser(ctx context.Context, fields ...string) (models.Account, error) {
	if s.remote == nil {
		return models.Account{}, constants.ErrNoBaseURL
	}
	current, ok := s.User()
	if !ok {
		return models.Account{}, constants.ErrNoAccount
	}

	body, err := s.pick(current, fields)
	if err != nil {
		return models.Account{}, err
	}
	account, err := connection.Patch[models.Account](ctx, s.remote, constants.PathAccount, body)
	if err != nil {
		return models.Account{}, fmt.Errorf("updating account: %w", err)
	}
	s.metrics.Mutation(Name, StageAccount, string(connection.UpdateAction))
	s.setAccount(account)
	s.cache(ctx, account)
	return account, nil
}

func (s *Store) pick(account models.Account, fields []string) (map[string]models.RawJSON, error) {
	data, err := s.codec.Marshal(account)
	if err != nil {
		return nil, err
	}
	all := map[string]models.RawJSON{}
	if err := s.codec.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	out := make(map[string]models.RawJSON, len(fields))
	for _, f := range fields {
		v, ok := all[f]
		if !ok {
			return nil, fmt.Errorf("account %q: %w", f, constants.ErrUnknownField)
		}
		out[f] = v
	}
	return out, nil
}

// GetNotifications replaces the notification menu.
func (s *Store) GetNotifications(ctx context.Context) error {
	if s.remote == nil {
		return constants.ErrNoBaseURL
	}
	started := time.Now()
	items, err := connection.Get[[]models.UserNotification](ctx, s.remote, constants.PathNotifications)
	s.metrics.FetchSettled(Name, StageNotification, time.Since(started), err)
	if err != nil {
		return fmt.Errorf("fetching notifications: %w", err)
	}
	for i := range items {
		items[i].Icon = NotificationIcon
		items[i].Color = NotificationColor
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = items
	return nil
}

// StartPolling fetches the notifications now and then every poll interval until
// the returned func is called or ctx ends. Failed polls are logged.
func (s *Store) StartPolling(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	poll := func() {
		if err := s.GetNotifications(ctx); err != nil && ctx.Err() == nil {
			s.logger.Error("polling notifications", "error", err)
		}
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	c.Schedule(cron.Every(s.interval), cron.FuncJob(poll))
	c.Start()
	go poll()

	var once sync.Once
	stop = func() {
		once.Do(func() {
			cancel()
			<-c.Stop().Done()
		})
	}
	context.AfterFunc(ctx, stop)
	return stop
}

func (s *Store) setAccount(a models.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.account = &a
}

func (s *Store) cache(ctx context.Context, a models.Account) {
	if s.storage == nil {
		return
	}
	if err := s.storage.Set(ctx, AccountKey, a, s.ttl); err != nil {
		s.logger.Warn("caching account", "error", err)
	}
}
