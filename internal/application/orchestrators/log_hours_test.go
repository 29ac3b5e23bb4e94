package orchestrators

import (
	"context"
	"testing"

	"dojo/internal/domain/profile"
	"dojo/internal/domain/traininglog"
)

func TestExecuteLogHours_UpdatesRollups(t *testing.T) {
	profiles := newMockProfiles(profile.New("u1", "ana@dojo.mx", "Ana", testTime))
	logs := &mockTrainingLogs{entries: []traininglog.Entry{
		{ID: "old", UserID: "u1", ClassName: "BJJ", Date: "2024-06-01", Hours: 1.5},
		{ID: "ancient", UserID: "u1", ClassName: "BJJ", Date: "2024-04-01", Hours: 2},
	}}
	deps := LogHoursDeps{Logs: logs, Profiles: profiles, Now: testNow, GenerateID: sequentialIDs()}

	res, err := ExecuteLogHours(context.Background(), LogHoursInput{
		UserID: "u1", ClassName: " BJJ ", Date: "2024-06-10", Hours: 1,
	}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := profiles.byID["u1"]
	if len(p.ClassProgress) != 1 || p.ClassProgress[0].Name != "BJJ" || p.ClassProgress[0].TotalHours != 4.5 {
		t.Errorf("class progress = %+v", p.ClassProgress)
	}
	if p.Training.TotalHours != 1 {
		t.Errorf("training total = %v, want 1 (only the new entry is added)", p.Training.TotalHours)
	}
	if p.Streak != 2 || p.Training.Streak != 2 {
		t.Errorf("streak = %d/%d, want 2", p.Streak, p.Training.Streak)
	}
	if res.Entry.ClassName != "BJJ" {
		t.Errorf("class name not trimmed: %q", res.Entry.ClassName)
	}
}

func TestExecuteLogHours_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input LogHoursInput
	}{
		{"missing class", LogHoursInput{UserID: "u1", Date: "2024-06-10", Hours: 1}},
		{"bad date", LogHoursInput{UserID: "u1", ClassName: "BJJ", Date: "10/06/2024", Hours: 1}},
		{"zero hours", LogHoursInput{UserID: "u1", ClassName: "BJJ", Date: "2024-06-10"}},
		{"too many hours", LogHoursInput{UserID: "u1", ClassName: "BJJ", Date: "2024-06-10", Hours: 13}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := &mockTrainingLogs{}
			_, err := ExecuteLogHours(context.Background(), tt.input, LogHoursDeps{
				Logs: logs, Profiles: newMockProfiles(profile.New("u1", "a@dojo.mx", "Ana", testTime)), Now: testNow,
			})
			if !IsValidation(err) {
				t.Errorf("err = %v, want validation error", err)
			}
			if len(logs.entries) != 0 {
				t.Error("invalid entry was appended")
			}
		})
	}
}
