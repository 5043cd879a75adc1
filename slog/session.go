// Package slog decorates ctscrape services with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/ctscrape"
)

// Ensure LoggingBrowser implements ctscrape.Browser.
var _ ctscrape.Browser = (*LoggingBrowser)(nil)

// LoggingBrowser wraps a Browser so every session it opens is logged.
type LoggingBrowser struct {
	next   ctscrape.Browser
	logger *slog.Logger
}

// NewLoggingBrowser creates a new LoggingBrowser.
func NewLoggingBrowser(next ctscrape.Browser, logger *slog.Logger) *LoggingBrowser {
	return &LoggingBrowser{next: next, logger: logger}
}

// Open logs the launch and wraps the returned session.
func (b *LoggingBrowser) Open(ctx context.Context, headless bool) (s ctscrape.Session, err error) {
	defer func(begin time.Time) {
		b.logger.Info("browser launch",
			"headless", headless,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())

	s, err = b.next.Open(ctx, headless)
	if err != nil {
		return nil, err
	}
	return NewLoggingSession(s, b.logger), nil
}

// Ensure LoggingSession implements ctscrape.Session.
var _ ctscrape.Session = (*LoggingSession)(nil)

// LoggingSession wraps a Session with navigation logging.
type LoggingSession struct {
	next   ctscrape.Session
	logger *slog.Logger
}

// NewLoggingSession creates a new LoggingSession.
func NewLoggingSession(next ctscrape.Session, logger *slog.Logger) *LoggingSession {
	return &LoggingSession{next: next, logger: logger}
}

// Navigate logs the URL being loaded and delegates to the wrapped session.
func (s *LoggingSession) Navigate(ctx context.Context, url string) (page ctscrape.Page, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("navigate",
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Navigate(ctx, url)
}

// Close delegates to the wrapped session.
func (s *LoggingSession) Close() error {
	err := s.next.Close()
	s.logger.Debug("browser closed", "err", err)
	return err
}
