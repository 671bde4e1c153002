package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedLoadsDemoDirectory(t *testing.T) {
	s := newTestStore()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	require.NoError(t, s.Seed(ctx, now))

	clubList, err := s.Clubs().List(ctx)
	require.NoError(t, err)
	require.Len(t, clubList, 4)
	assert.Equal(t, "Sports Club", clubList[0].Name)
	assert.Equal(t, 456, clubList[0].MemberCount)

	eventList, err := s.Events().List(ctx)
	require.NoError(t, err)
	require.Len(t, eventList, 4)
	assert.Equal(t, "Spring Concert ft. Local Bands", eventList[0].Title)
	assert.Equal(t, now.Add(7*24*time.Hour), eventList[0].StartDate)
	assert.Equal(t, 156, eventList[0].RSVPCount)
	assert.Equal(t, "AI/ML Tech Talk", eventList[3].Title)

	for _, e := range eventList {
		_, err := s.Clubs().Get(ctx, e.ClubID)
		require.NoError(t, err, "event %s references a missing club", e.Title)
	}

	annList, err := s.Announcements().List(ctx)
	require.NoError(t, err)
	assert.Len(t, annList, 2)
}

func TestSeedSkipsPopulatedStore(t *testing.T) {
	s := newTestStore()
	createClub(t, s, "Chess Club")

	require.NoError(t, s.Seed(context.Background(), time.Now()))

	list, err := s.Clubs().List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
