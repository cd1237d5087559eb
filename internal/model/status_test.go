package model

import "testing"

func TestItemStatus_IsActive(t *testing.T) {
	tests := []struct {
		status   ItemStatus
		expected bool
	}{
		{StatusPending, false},
		{StatusQueued, true},
		{StatusDownloading, true},
		{StatusCompleted, false},
		{StatusCancelled, false},
	}

	for _, test := range tests {
		result := test.status.IsActive()
		if result != test.expected {
			t.Errorf("ItemStatus(%s).IsActive() = %v, expected %v", test.status, result, test.expected)
		}
	}
}

func TestItemStatus_IsStartable(t *testing.T) {
	tests := []struct {
		status   ItemStatus
		expected bool
	}{
		{StatusPending, true},
		{StatusQueued, false},
		{StatusDownloading, false},
		{StatusCompleted, false},
		{StatusCancelled, true},
	}

	for _, test := range tests {
		result := test.status.IsStartable()
		if result != test.expected {
			t.Errorf("ItemStatus(%s).IsStartable() = %v, expected %v", test.status, result, test.expected)
		}
	}
}

func TestItemStatus_IsFinished(t *testing.T) {
	tests := []struct {
		status   ItemStatus
		expected bool
	}{
		{StatusPending, false},
		{StatusQueued, false},
		{StatusDownloading, false},
		{StatusCompleted, true},
		{StatusCancelled, true},
	}

	for _, test := range tests {
		result := test.status.IsFinished()
		if result != test.expected {
			t.Errorf("ItemStatus(%s).IsFinished() = %v, expected %v", test.status, result, test.expected)
		}
	}
}

func TestItemStatus_String(t *testing.T) {
	if got := StatusDownloading.String(); got != "Downloading" {
		t.Errorf("ItemStatus.String() = %s, expected Downloading", got)
	}
}

func TestItemStatus_Rank(t *testing.T) {
	order := []ItemStatus{StatusPending, StatusQueued, StatusDownloading, StatusCompleted, StatusCancelled, ItemStatus("Unknown")}
	for i := 1; i < len(order); i++ {
		if order[i-1].Rank() >= order[i].Rank() {
			t.Errorf("%s should rank before %s", order[i-1], order[i])
		}
	}
}
