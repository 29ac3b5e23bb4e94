package membership

import "testing"

func TestPlan_Validate(t *testing.T) {
	tests := []struct {
		name    string
		plan    Plan
		wantErr error
	}{
		{"valid", Plan{Type: "Mensual", Price: 800, Duration: "1 mes", DurationDays: 30}, nil},
		{"label only", Plan{Type: "Trimestral", Price: 2100, Duration: "Trimestral"}, nil},
		{"empty type", Plan{Type: " ", Price: 800, Duration: "1 mes"}, ErrEmptyType},
		{"negative price", Plan{Type: "Mensual", Price: -1, Duration: "1 mes"}, ErrNegativePrice},
		{"empty duration", Plan{Type: "Mensual", Price: 800, Duration: " ", DurationDays: 30}, ErrEmptyDuration},
		{"negative days", Plan{Type: "Mensual", Price: 800, Duration: "1 mes", DurationDays: -3}, ErrInvalidLength},
	}
	for _, tt := range tests {
		if err := tt.plan.Validate(); err != tt.wantErr {
			t.Errorf("%s: Validate() = %v, want %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestAssignment_Validate(t *testing.T) {
	base := Assignment{UserID: "u1", Type: "Mensual", StartDate: "2024-03-01", EndDate: "2024-03-31", Active: true}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid assignment: %v", err)
	}

	noUser := base
	noUser.UserID = ""
	if err := noUser.Validate(); err != ErrMissingUser {
		t.Errorf("missing user: %v", err)
	}

	backwards := base
	backwards.EndDate = "2024-02-01"
	if err := backwards.Validate(); err != ErrEndBeforeStart {
		t.Errorf("end before start: %v", err)
	}

	open := base
	open.EndDate = ""
	if err := open.Validate(); err != nil {
		t.Errorf("open-ended: %v", err)
	}
}

func TestClassify(t *testing.T) {
	today := "2024-03-10"
	tests := []struct {
		name string
		a    Assignment
		want Status
	}{
		{"inactive", Assignment{Active: false, EndDate: "2024-03-11"}, StatusInactive},
		{"open ended", Assignment{Active: true}, StatusCurrent},
		{"ended yesterday", Assignment{Active: true, EndDate: "2024-03-09"}, StatusPending},
		{"ends today", Assignment{Active: true, EndDate: "2024-03-10"}, StatusExpiring},
		{"ends at window edge", Assignment{Active: true, EndDate: "2024-03-15"}, StatusExpiring},
		{"ends after window", Assignment{Active: true, EndDate: "2024-03-16"}, StatusCurrent},
	}
	for _, tt := range tests {
		if got := Classify(tt.a, today, DefaultExpiringWindowDays); got != tt.want {
			t.Errorf("%s: Classify = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	plans := []Plan{{ID: "p1", Type: "Mensual"}, {ID: "p2", Type: "Anual"}}
	assignments := []Assignment{
		{MembershipID: "p1", Type: "Mensual", Active: true, TotalPaid: 800},
		{MembershipID: "p1", Type: "Mensual", Active: false, TotalPaid: 800},
		{Type: "Semanal", Active: true, TotalPaid: 250},
	}
	stats := Summarize(plans, assignments)
	if len(stats) != 3 {
		t.Fatalf("len = %d, want 3", len(stats))
	}
	if stats[0].ActiveCount != 1 || stats[0].Revenue != 1600 {
		t.Errorf("p1 stats = %+v", stats[0])
	}
	if stats[1].ActiveCount != 0 || stats[1].Revenue != 0 {
		t.Errorf("p2 stats = %+v", stats[1])
	}
	if stats[2].Type != "Semanal" || stats[2].ActiveCount != 1 {
		t.Errorf("type-only stats = %+v", stats[2])
	}
}

func TestEndFor(t *testing.T) {
	tests := []struct {
		name    string
		plan    Plan
		start   string
		want    string
		wantErr bool
	}{
		{"day count", Plan{Duration: "1 mes", DurationDays: 30}, "2025-02-14", "2025-03-16", false},
		{"label only is open-ended", Plan{Duration: "Trimestral"}, "2025-02-14", "", false},
		{"bad start", Plan{Duration: "Trimestral"}, "14/02/2025", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EndFor(tt.plan, tt.start)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("EndFor = %q, want %q", got, tt.want)
			}
		})
	}
}
