package gymclass

import "testing"

func TestClass_Validate(t *testing.T) {
	tests := []struct {
		name    string
		class   Class
		wantErr error
	}{
		{"valid", Class{Name: "BJJ Fundamentos", Coach: "Josue", Capacity: 20, Enrolled: 5}, nil},
		{"no name", Class{Coach: "Josue", Capacity: 20}, ErrEmptyName},
		{"no coach", Class{Name: "BJJ", Capacity: 20}, ErrEmptyCoach},
		{"zero capacity", Class{Name: "BJJ", Coach: "Josue"}, ErrInvalidCapacity},
		{"over capacity", Class{Name: "BJJ", Coach: "Josue", Capacity: 2, Enrolled: 3}, ErrOverCapacity},
	}
	for _, tt := range tests {
		if err := tt.class.Validate(); err != tt.wantErr {
			t.Errorf("%s: Validate() = %v, want %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestClass_SpotsLeft(t *testing.T) {
	c := Class{Capacity: 20, Enrolled: 12}
	if got := c.SpotsLeft(); got != 8 {
		t.Errorf("SpotsLeft = %d, want 8", got)
	}
}
