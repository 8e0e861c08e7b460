package models

import (
	"testing"
	"time"
)

func TestNormalizeDueDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2024-01-15", want: "01/15/24"},
		{in: " 2024-12-31 ", want: "12/31/24"},
		{in: "01/15/24", want: "01/15/24"},
		{in: "15/01/24", wantErr: true},
		{in: "tomorrow", wantErr: true},
		{in: "2024-02-30", wantErr: true},
	}

	for _, tt := range tests {
		got, err := NormalizeDueDate(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NormalizeDueDate(%q) err=nil, want error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeDueDate(%q) err=%v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeDueDate(%q)=%q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParsePriority(t *testing.T) {
	for in, want := range map[string]Priority{
		"High":    PriorityHigh,
		"medium":  PriorityMedium,
		" LOW ":   PriorityLow,
		"Medium ": PriorityMedium,
	} {
		got, err := ParsePriority(in)
		if err != nil {
			t.Fatalf("ParsePriority(%q) err=%v", in, err)
		}
		if got != want {
			t.Errorf("ParsePriority(%q)=%q, want %q", in, got, want)
		}
	}

	if _, err := ParsePriority("Urgent"); err == nil {
		t.Error("expected error for unknown priority")
	}
}

func TestCompleteAt(t *testing.T) {
	task := Task{Name: "Buy milk", Description: "2% milk", DueDate: "01/15/24", Priority: PriorityHigh}
	at := time.Date(2024, time.January, 14, 15, 4, 0, 0, time.Local)

	done := task.CompleteAt(at)
	if !done.Completed {
		t.Error("completed flag not set")
	}
	if done.CompletionDate != "01/14/24" {
		t.Errorf("CompletionDate=%q, want 01/14/24", done.CompletionDate)
	}
	if done.CompletionTime != "03:04 PM" {
		t.Errorf("CompletionTime=%q, want 03:04 PM", done.CompletionTime)
	}
	if done.Name != task.Name || done.DueDate != task.DueDate || done.Priority != task.Priority {
		t.Errorf("task fields not carried over: %+v", done)
	}
}

func TestPositionsWithPriority(t *testing.T) {
	tasks := []Task{
		{Name: "a", Priority: PriorityHigh},
		{Name: "b", Priority: PriorityLow},
		{Name: "c", Priority: PriorityHigh},
	}

	got := PositionsWithPriority(tasks, PriorityHigh)
	if len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Errorf("positions=%v, want [0 2]", got)
	}
	if got := PositionsWithPriority(tasks, PriorityMedium); len(got) != 0 {
		t.Errorf("expected no Medium tasks, got %v", got)
	}
}
