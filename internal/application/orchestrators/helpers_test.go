package orchestrators

import (
	"testing"
	"time"

	"dojo/internal/domain/profile"
)

func tijuana(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Tijuana")
	if err != nil {
		t.Fatalf("load zone: %v", err)
	}
	return loc
}

func newProfileFixture() profile.Profile {
	p := profile.New("u1", "ana@dojo.mx", "Ana", testTime)
	p.Address = "Av. Revolución 100"
	p.Role = "admin"
	p.BeltLevel = "blue"
	return p
}
