package notice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

type failingStore struct {
	err error
}

func (f *failingStore) Get(context.Context, string) (bool, error) { return false, f.err }
func (f *failingStore) Set(context.Context, string, bool) error   { return f.err }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNoticeService_DismissFlow(t *testing.T) {
	ctx := context.Background()
	svc := NewNoticeService(NewMemoryStore(), discardLogger())
	client := NewClientID()
	other := NewClientID()

	show, err := svc.ShouldShow(ctx, client, AgeVerification)
	if err != nil || !show {
		t.Fatalf("ShouldShow() before dismissal = %v, %v; want true, nil", show, err)
	}

	if err := svc.Dismiss(ctx, client, AgeVerification); err != nil {
		t.Fatalf("Dismiss() unexpected error = %v", err)
	}

	if show, _ := svc.ShouldShow(ctx, client, AgeVerification); show {
		t.Error("ShouldShow() = true after dismissal")
	}
	if show, _ := svc.ShouldShow(ctx, client, SafetyTips); !show {
		t.Error("dismissing one notice hid another")
	}
	if show, _ := svc.ShouldShow(ctx, other, AgeVerification); !show {
		t.Error("dismissal leaked to another client")
	}
}

func TestNoticeService_Validation(t *testing.T) {
	ctx := context.Background()
	svc := NewNoticeService(NewMemoryStore(), discardLogger())

	tests := []struct {
		name    string
		client  string
		notice  string
		wantErr error
	}{
		{"unknown notice", NewClientID(), "newsletter", ErrUnknownNotice},
		{"bad client", "not-a-uuid", AgeVerification, ErrInvalidClient},
		{"empty client", "", SafetyTips, ErrInvalidClient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.ShouldShow(ctx, tt.client, tt.notice); !errors.Is(err, tt.wantErr) {
				t.Errorf("ShouldShow() error = %v, want %v", err, tt.wantErr)
			}
			if err := svc.Dismiss(ctx, tt.client, tt.notice); !errors.Is(err, tt.wantErr) {
				t.Errorf("Dismiss() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNoticeService_StoreFailure(t *testing.T) {
	ctx := context.Background()
	svc := NewNoticeService(&failingStore{err: errors.New("connection refused")}, discardLogger())
	client := NewClientID()

	show, err := svc.ShouldShow(ctx, client, AgeVerification)
	if err != nil || !show {
		t.Errorf("ShouldShow() with failing store = %v, %v; want true, nil", show, err)
	}
	if err := svc.Dismiss(ctx, client, AgeVerification); err == nil {
		t.Error("Dismiss() expected error from failing store")
	}
}

func TestNoticeService_ClientIDCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	svc := NewNoticeService(NewMemoryStore(), discardLogger())

	lower := "0b9ad3c4-7a1e-4f0e-9a55-3f2c1d7e8b90"
	upper := "0B9AD3C4-7A1E-4F0E-9A55-3F2C1D7E8B90"

	if err := svc.Dismiss(ctx, upper, SafetyTips); err != nil {
		t.Fatalf("Dismiss() unexpected error = %v", err)
	}
	if show, _ := svc.ShouldShow(ctx, lower, SafetyTips); show {
		t.Error("client id spelling changed the flag key")
	}
}
