package notice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Notices clients may dismiss
const (
	AgeVerification = "age-verification"
	SafetyTips      = "safety-tips"
)

var (
	ErrUnknownNotice = errors.New("unknown notice")
	ErrInvalidClient = errors.New("client id must be a UUID")
)

var known = map[string]bool{
	AgeVerification: true,
	SafetyTips:      true,
}

// Service decides whether a client still has to see a notice
type Service interface {
	ShouldShow(ctx context.Context, clientID, notice string) (bool, error)
	Dismiss(ctx context.Context, clientID, notice string) error
}

type noticeService struct {
	store  Store
	logger *slog.Logger
}

func NewNoticeService(store Store, logger *slog.Logger) Service {
	return &noticeService{
		store:  store,
		logger: logger.With("component", "notice-service"),
	}
}

// NewClientID returns a fresh client id for callers without one
func NewClientID() string {
	return uuid.NewString()
}

// ShouldShow only returns an error for invalid input. A store that cannot be
// read shows the notice again rather than hiding it.
func (s *noticeService) ShouldShow(ctx context.Context, clientID, notice string) (bool, error) {
	key, err := flagKey(clientID, notice)
	if err != nil {
		return false, err
	}

	dismissed, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.Warn("failed to read dismissal flag, showing notice", "notice", notice, "error", err)
		return true, nil
	}
	return !dismissed, nil
}

func (s *noticeService) Dismiss(ctx context.Context, clientID, notice string) error {
	key, err := flagKey(clientID, notice)
	if err != nil {
		return err
	}

	if err := s.store.Set(ctx, key, true); err != nil {
		s.logger.Error("failed to store dismissal", "notice", notice, "error", err)
		return fmt.Errorf("failed to dismiss notice: %w", err)
	}

	s.logger.Debug("notice dismissed", "notice", notice, "client", clientID)
	return nil
}

func flagKey(clientID, notice string) (string, error) {
	if !known[notice] {
		return "", fmt.Errorf("%w: %q", ErrUnknownNotice, notice)
	}
	id, err := uuid.Parse(clientID)
	if err != nil {
		return "", ErrInvalidClient
	}
	return id.String() + ":" + notice + ":dismissed", nil
}
