package normalizer

import (
	"errors"
	"testing"

	"hotelstar/internal/logger"
	"hotelstar/internal/models"
	"hotelstar/internal/quality"
	"hotelstar/internal/reference"
)

func TestNewProcessor(t *testing.T) {
	p := NewProcessor(reference.Default(), nil, logger.Discard())
	if p == nil {
		t.Fatal("NewProcessor returned nil")
	}
}

func batch() []models.RawBooking {
	a := rawBooking()

	dup := rawBooking()
	dup.Row = 2

	unknownRoom := rawBooking()
	unknownRoom.Row = 3
	unknownRoom.ConfirmationCode = "CNF-1003"
	unknownRoom.RoomType = "pent"

	badDate := rawBooking()
	badDate.Row = 4
	badDate.ConfirmationCode = "CNF-1004"
	badDate.CheckOutDate = "March 8"
	badDate.DailyRate = "150"

	odd := rawBooking()
	odd.Row = 5
	odd.ConfirmationCode = "CNF-1005"
	odd.IsCancelled = "maybe"

	return []models.RawBooking{a, dup, unknownRoom, badDate, odd}
}

func TestProcessor_Process_DefaultPolicy(t *testing.T) {
	p := NewProcessor(reference.Default(), quality.DefaultPolicy(), logger.Discard())
	report := quality.NewReport("test")

	clean, err := p.Process(batch(), report)
	if err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	if len(clean) != 2 {
		t.Fatalf("clean = %d, want 2", len(clean))
	}

	if clean[0].Row != 1 || clean[1].Row != 5 {
		t.Errorf("clean rows = %d,%d want 1,5", clean[0].Row, clean[1].Row)
	}

	if clean[1].IsCancelled {
		t.Error("unknown cancellation must default to not cancelled")
	}

	if report.RawRows != 5 || report.DuplicateRows != 1 || report.RejectedRows != 2 || report.CleanRows != 2 {
		t.Errorf("report counts = %+v", report)
	}

	if report.Count(quality.KindUnknownRateKey) != 1 ||
		report.Count(quality.KindUnparsedDate) != 1 ||
		report.Count(quality.KindUnknownCancellation) != 1 {
		t.Errorf("issues = %+v", report.Issues)
	}

	for _, issue := range report.Issues {
		if issue.Action != quality.ActionDefault {
			t.Errorf("issue action = %s, want default", issue.Action)
		}
	}

	if report.Imputed["daily_rate"] != 2 {
		t.Errorf("imputed daily_rate = %d, want 2", report.Imputed["daily_rate"])
	}
}

func TestProcessor_Process_DuplicateAnomalyCountedOnce(t *testing.T) {
	a := rawBooking()
	a.IsCancelled = "maybe"

	dup := a
	dup.Row = 2

	p := NewProcessor(reference.Default(), nil, logger.Discard())
	report := quality.NewReport("test")

	clean, err := p.Process([]models.RawBooking{a, dup}, report)
	if err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	if len(clean) != 1 || report.DuplicateRows != 1 {
		t.Fatalf("clean = %d, duplicates = %d; want 1, 1", len(clean), report.DuplicateRows)
	}

	if got := report.Count(quality.KindUnknownCancellation); got != 1 {
		t.Errorf("Count(unknown_cancellation) = %d, want 1", got)
	}

	if report.Issues[0].Row != 1 {
		t.Errorf("issue row = %d, want the surviving row 1", report.Issues[0].Row)
	}
}

func TestProcessor_Process_DropPolicy(t *testing.T) {
	policy := quality.DefaultPolicy()
	policy[quality.KindUnknownCancellation] = quality.ActionDrop

	p := NewProcessor(reference.Default(), policy, logger.Discard())
	report := quality.NewReport("test")

	clean, err := p.Process(batch(), report)
	if err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	if len(clean) != 1 || clean[0].Row != 1 {
		t.Errorf("clean = %+v, want only row 1", clean)
	}

	if report.PolicyDropped != 1 {
		t.Errorf("PolicyDropped = %d, want 1", report.PolicyDropped)
	}
}

func TestProcessor_Process_FailPolicy(t *testing.T) {
	policy := quality.Policy{quality.KindUnparsedDate: quality.ActionFail}

	p := NewProcessor(reference.Default(), policy, logger.Discard())

	clean, err := p.Process(batch(), quality.NewReport("test"))
	if !errors.Is(err, quality.ErrUnrecoverable) {
		t.Fatalf("Process error = %v, want ErrUnrecoverable", err)
	}

	var issue quality.Issue
	if !errors.As(err, &issue) || issue.Row != 4 {
		t.Errorf("failing issue = %+v, want row 4", issue)
	}

	if clean != nil {
		t.Error("Process expected nil result on failure")
	}
}

func TestProcessor_Process_Idempotent(t *testing.T) {
	p := NewProcessor(reference.Default(), nil, logger.Discard())

	first, err := p.Process(batch(), quality.NewReport("a"))
	if err != nil {
		t.Fatal(err)
	}

	second, err := p.Process(batch(), quality.NewReport("b"))
	if err != nil {
		t.Fatal(err)
	}

	if len(first) != len(second) {
		t.Fatalf("runs differ in length: %d vs %d", len(first), len(second))
	}

	for i := range first {
		if first[i].Key() != second[i].Key() {
			t.Errorf("row %d differs between runs", i)
		}
	}
}
