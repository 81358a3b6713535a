package connection

import (
	"net/http"
	"net/url"
	"sync"

	"golang.org/x/text/language"

	"github.com/metis-placement/metis.go/pkg/constants"
)

// Session supplies per-request context. Remotes read both values on every request, so
// a rotated token or a changed language takes effect immediately.
type Session interface {
	CSRFToken() string
	Locale() string
}

// StaticSession is a Session whose values are set by the caller.
type StaticSession struct {
	mu       sync.RWMutex
	token    string
	language string
}

func NewStaticSession(token, locale string) *StaticSession {
	return &StaticSession{token: token, language: locale}
}

func (s *StaticSession) CSRFToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *StaticSession) Locale() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.language
}

func (s *StaticSession) SetCSRFToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *StaticSession) SetLocale(locale string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.language = locale
}

// CookieSession reads the anti-forgery token from the csrftoken cookie the server set
// in Jar for URL.
type CookieSession struct {
	Jar      http.CookieJar
	URL      *url.URL
	Language string
}

func (s *CookieSession) CSRFToken() string {
	if s.Jar == nil || s.URL == nil {
		return ""
	}
	for _, c := range s.Jar.Cookies(s.URL) {
		if c.Name == constants.CSRFCookieName {
			return c.Value
		}
	}
	return ""
}

func (s *CookieSession) Locale() string {
	return s.Language
}

// SupportedLocales are the languages the API translates messages into. The first one
// is the fallback.
var SupportedLocales = []language.Tag{language.English, language.Dutch}

var localeMatcher = language.NewMatcher(SupportedLocales)

// NegotiateLocale maps any BCP 47 tag onto a supported locale, falling back to English
// for empty or unparsable input.
func NegotiateLocale(locale string) string {
	if locale == "" {
		return constants.DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return constants.DefaultLocale
	}
	_, idx, _ := localeMatcher.Match(tag)
	return SupportedLocales[idx].String()
}
