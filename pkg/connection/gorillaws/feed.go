// Package gorillaws receives server pushed record changes over a websocket.
//
// A Feed keeps one connection open, decodes every text frame into a
// connection.Notification and hands it to the caller through Notifications. When the
// connection drops the Feed redials according to its Retryer. Changes that happen while
// disconnected are not replayed; callers reload their scope after a reconnect if they
// need to.
package gorillaws

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	gorilla "github.com/gorilla/websocket"

	"github.com/metis-placement/metis.go/internal/codec"
	"github.com/metis-placement/metis.go/pkg/connection"
	"github.com/metis-placement/metis.go/pkg/constants"
	"github.com/metis-placement/metis.go/pkg/logger"
)

// DefaultDialer is gorilla's default dialer with compression enabled.
var DefaultDialer = &gorilla.Dialer{
	Proxy:             gorilla.DefaultDialer.Proxy,
	HandshakeTimeout:  gorilla.DefaultDialer.HandshakeTimeout,
	EnableCompression: true,
}

type Feed struct {
	URL         string
	Dialer      *gorilla.Dialer
	Unmarshaler codec.Unmarshaler
	Session     connection.Session
	Retryer     Retryer

	// OnConnect runs after every successful dial, including redials.
	OnConnect func(ctx context.Context)

	logger        logger.Logger
	notifications chan connection.Notification

	mu      sync.Mutex
	conn    *gorilla.Conn
	closed  bool
	closeCh chan struct{}
	once    sync.Once
}

// New creates a Feed for the websocket endpoint at url.
func New(url string, p *connection.Config) *Feed {
	f := &Feed{
		URL:           url,
		Dialer:        DefaultDialer,
		Unmarshaler:   p.Unmarshaler,
		Session:       p.Session,
		Retryer:       NewBackoff(),
		logger:        p.Logger,
		notifications: make(chan connection.Notification, 64),
		closeCh:       make(chan struct{}),
	}
	if f.logger == nil {
		f.logger = logger.Nop()
	}
	if f.Unmarshaler == nil {
		f.Unmarshaler = codec.JSON()
	}
	return f
}

// Notifications is closed when Run returns.
func (f *Feed) Notifications() <-chan connection.Notification {
	return f.notifications
}

// Run dials and reads until ctx is done, Close is called, or the Retryer gives up.
func (f *Feed) Run(ctx context.Context) error {
	defer close(f.notifications)

	attempt := 0
	for {
		conn, err := f.dial(ctx)
		if err == nil {
			attempt = 0
			f.Retryer.Reset()
			if f.OnConnect != nil {
				f.OnConnect(ctx)
			}
			err = f.readLoop(ctx, conn)
		}

		if f.isClosed() {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		delay, retry := f.Retryer.NextDelay(attempt, err)
		if !retry {
			return fmt.Errorf("push feed gave up after %d attempts: %w", attempt+1, err)
		}
		attempt++
		f.logger.Warn("push feed disconnected", "error", err, "retry_in", delay)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-f.closeCh:
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

func (f *Feed) dial(ctx context.Context) (*gorilla.Conn, error) {
	header := http.Header{}
	if f.Session != nil {
		header.Set(constants.HeaderAcceptLanguage, connection.NegotiateLocale(f.Session.Locale()))
		if token := f.Session.CSRFToken(); token != "" {
			header.Set(constants.HeaderCSRFToken, token)
		}
	}

	conn, res, err := f.Dialer.DialContext(ctx, f.URL, header)
	if res != nil && res.Body != nil {
		res.Body.Close()
	}
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		conn.Close()
		return nil, constants.ErrClosed
	}
	f.conn = conn
	return conn, nil
}

func (f *Feed) readLoop(ctx context.Context, conn *gorilla.Conn) error {
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()
	defer func() {
		f.mu.Lock()
		if f.conn == conn {
			f.conn = nil
		}
		f.mu.Unlock()
		conn.Close()
	}()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if msgType != gorilla.TextMessage && msgType != gorilla.BinaryMessage {
			continue
		}

		var n connection.Notification
		if err := f.Unmarshaler.Unmarshal(data, &n); err != nil {
			f.logger.Error("undecodable push message", "error", err)
			continue
		}

		select {
		case f.notifications <- n:
		case <-ctx.Done():
			return ctx.Err()
		case <-f.closeCh:
			return constants.ErrClosed
		}
	}
}

func (f *Feed) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Close stops Run. It is safe to call more than once.
func (f *Feed) Close() error {
	var err error
	f.once.Do(func() {
		f.mu.Lock()
		f.closed = true
		conn := f.conn
		f.conn = nil
		f.mu.Unlock()
		close(f.closeCh)

		if conn == nil {
			return
		}
		deadline := time.Now().Add(time.Second)
		msg := gorilla.FormatCloseMessage(gorilla.CloseNormalClosure, "")
		if werr := conn.WriteControl(gorilla.CloseMessage, msg, deadline); werr != nil && !errors.Is(werr, gorilla.ErrCloseSent) {
			err = werr
		}
		if cerr := conn.Close(); cerr != nil && err == nil {
			err = cerr
		}
	})
	return err
}
