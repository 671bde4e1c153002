package validation

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Name      string    `json:"name" validate:"required,max=5"`
	Email     string    `json:"studentEmail" validate:"required,email"`
	Count     *int      `json:"count" validate:"omitempty,min=0"`
	StartDate time.Time `json:"startDate" validate:"required"`
	EndDate   time.Time `json:"endDate" validate:"required,gtfield=StartDate"`
}

func validPayload() samplePayload {
	start := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	return samplePayload{
		Name:      "Chess",
		Email:     "a@example.edu",
		StartDate: start,
		EndDate:   start.Add(time.Hour),
	}
}

func TestStructValid(t *testing.T) {
	require.NoError(t, Struct("Invalid data", validPayload()))
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	p := validPayload()
	p.Name = ""
	p.Email = "nope"

	err := Struct("Invalid data", p)

	verr, ok := As(err)
	require.True(t, ok)
	require.Equal(t, "Invalid data", verr.Message)
	require.Equal(t, map[string]string{
		"name":         "is required",
		"studentEmail": "must be a valid email address",
	}, verr.Details())
}

func TestStructMessages(t *testing.T) {
	negative := -1

	tests := []struct {
		name   string
		mutate func(*samplePayload)
		field  string
		msg    string
	}{
		{"string max", func(p *samplePayload) { p.Name = "toolong" }, "name", "must be at most 5 characters"},
		{"number min", func(p *samplePayload) { p.Count = &negative }, "count", "must be at least 0"},
		{"end before start", func(p *samplePayload) { p.EndDate = p.StartDate.Add(-time.Hour) }, "endDate", "must be after startDate"},
		{"end equals start", func(p *samplePayload) { p.EndDate = p.StartDate }, "endDate", "must be after startDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayload()
			tt.mutate(&p)

			verr, ok := As(Struct("Invalid data", p))
			require.True(t, ok)
			require.Equal(t, tt.msg, verr.Details()[tt.field])
		})
	}
}

func TestNilPointerSkipped(t *testing.T) {
	p := validPayload()
	p.Count = nil

	require.NoError(t, Struct("Invalid data", p))
}

func TestAsUnwraps(t *testing.T) {
	base := New("Invalid event data", "endDate", "must be after startDate")
	wrapped := fmt.Errorf("update event: %w", base)

	verr, ok := As(wrapped)
	require.True(t, ok)
	require.Same(t, base, verr)
	require.Equal(t, "Invalid event data: endDate must be after startDate", verr.Error())

	_, ok = As(fmt.Errorf("other"))
	require.False(t, ok)
}
