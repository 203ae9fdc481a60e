package expiry

import (
	"testing"
	"time"

	"github.com/nbkdev/control-center/internal/core/domain"
)

var today = time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC)

func day(offset int) string {
	return today.AddDate(0, 0, offset).Format("2006-01-02")
}

func TestComputeDateExpiryAbsentDateIsNotTracked(t *testing.T) {
	if got := ComputeDateExpiry("", 30, today); got != nil {
		t.Fatalf("expected nil for absent date, got %+v", got)
	}
	if got := ComputeDateExpiry("next tuesday", 30, today); got != nil {
		t.Fatalf("expected nil for unparseable date, got %+v", got)
	}
}

func TestComputeDateExpiryClassifiesWindow(t *testing.T) {
	cases := []struct {
		offset int
		want   Status
	}{
		{offset: 5, want: StatusExpiringSoon},
		{offset: -1, want: StatusExpired},
		{offset: 0, want: StatusExpiringSoon},
		{offset: 30, want: StatusExpiringSoon},
		{offset: 31, want: StatusActive},
	}
	for _, tc := range cases {
		got := ComputeDateExpiry(day(tc.offset), 30, today)
		if got == nil {
			t.Fatalf("offset %d: expected result, got nil", tc.offset)
		}
		if got.Status != tc.want || got.DaysLeft != tc.offset {
			t.Fatalf("offset %d: expected {%s %d}, got %+v", tc.offset, tc.want, tc.offset, got)
		}
	}
}

func TestComputeDateExpiryAcceptsTimestamps(t *testing.T) {
	got := ComputeDateExpiry("2024-01-20T23:00:00Z", 30, today)
	if got == nil || got.DaysLeft != 5 {
		t.Fatalf("expected 5 days left from timestamp, got %+v", got)
	}
}

func TestComputeSubscriptionStatusCancelledOverridesDate(t *testing.T) {
	got := ComputeSubscriptionStatus(domain.ManualStatusCancelled, day(1), today)
	if got.Status != StatusCancelled {
		t.Fatalf("expected Cancelled, got %s", got.Status)
	}
	if got.DaysLeft == nil || *got.DaysLeft != 1 {
		t.Fatalf("expected days left to still be reported, got %v", got.DaysLeft)
	}
}

func TestComputeSubscriptionStatusUsesSevenDayWindow(t *testing.T) {
	if got := ComputeSubscriptionStatus("", day(7), today); got.Status != StatusExpiringSoon {
		t.Fatalf("expected Expiring Soon at 7 days, got %s", got.Status)
	}
	if got := ComputeSubscriptionStatus("", day(8), today); got.Status != StatusActive {
		t.Fatalf("expected Active at 8 days, got %s", got.Status)
	}
	if got := ComputeSubscriptionStatus("", day(-3), today); got.Status != StatusExpired {
		t.Fatalf("expected Expired, got %s", got.Status)
	}
}

func TestComputeSubscriptionStatusWithoutDateIsActive(t *testing.T) {
	got := ComputeSubscriptionStatus("", "", today)
	if got.Status != StatusActive || got.DaysLeft != nil {
		t.Fatalf("expected Active without days left, got %+v", got)
	}
}

func TestComputeProjectRenewals(t *testing.T) {
	got := ComputeProjectRenewals(domain.Project{DomainRenewalDate: day(-2)}, today)
	if got.Domain == nil || got.Domain.Status != StatusExpired {
		t.Fatalf("expected expired domain, got %+v", got.Domain)
	}
	if got.Hosting != nil {
		t.Fatalf("expected untracked hosting, got %+v", got.Hosting)
	}
}
