package services

import (
	"context"
	"errors"
	"testing"

	"tutorbook/internal/core"
)

type publishCall struct {
	owner       int64
	year, month int
}

type fakePublisher struct {
	calls []publishCall
	err   error
}

func (f *fakePublisher) PublishReportExport(_ context.Context, ownerID int64, year, month int) error {
	f.calls = append(f.calls, publishCall{ownerID, year, month})
	return f.err
}

func TestExportService_RequestMonthlyExport(t *testing.T) {
	brokerDown := errors.New("connection refused")

	tests := []struct {
		name        string
		publisher   *fakePublisher
		owner       int64
		year, month int
		wantErr     error
		wantCalls   int
	}{
		{name: "publishes valid request", publisher: &fakePublisher{}, owner: 7, year: 2024, month: 2, wantCalls: 1},
		{name: "missing owner", publisher: &fakePublisher{}, owner: 0, year: 2024, month: 2, wantErr: core.ErrMissingOwner},
		{name: "missing month", publisher: &fakePublisher{}, owner: 7, year: 2024, wantErr: core.ErrMissingPeriod},
		{name: "month out of range", publisher: &fakePublisher{}, owner: 7, year: 2024, month: 13, wantErr: core.ErrInvalidMonth},
		{name: "broker failure is wrapped", publisher: &fakePublisher{err: brokerDown}, owner: 7, year: 2024, month: 2, wantErr: brokerDown, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewExportService(tt.publisher, nil)
			err := svc.RequestMonthlyExport(context.Background(), tt.owner, tt.year, tt.month)

			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if errors.Is(err, brokerDown) && !errors.Is(err, ErrExportUnavailable) {
				t.Errorf("broker failure should be marked unavailable: %v", err)
			}
			if len(tt.publisher.calls) != tt.wantCalls {
				t.Fatalf("publish calls = %d, want %d", len(tt.publisher.calls), tt.wantCalls)
			}
			if tt.wantCalls == 1 {
				want := publishCall{tt.owner, tt.year, tt.month}
				if tt.publisher.calls[0] != want {
					t.Errorf("published %+v, want %+v", tt.publisher.calls[0], want)
				}
			}
		})
	}
}

func TestExportService_Disabled(t *testing.T) {
	svc := NewExportService(nil, nil)
	if svc.Enabled() {
		t.Error("service without publisher should be disabled")
	}

	err := svc.RequestMonthlyExport(context.Background(), 7, 2024, 2)
	if !errors.Is(err, ErrExportDisabled) {
		t.Errorf("err = %v, want ErrExportDisabled", err)
	}

	// Validation still runs first.
	err = svc.RequestMonthlyExport(context.Background(), 7, 2024, 0)
	if !errors.Is(err, core.ErrMissingPeriod) {
		t.Errorf("err = %v, want ErrMissingPeriod", err)
	}
}
