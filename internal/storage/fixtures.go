package storage

import (
	"context"
	"time"

	"github.com/Togather-Foundation/clubhub/internal/domain/announcements"
	"github.com/Togather-Foundation/clubhub/internal/domain/clubs"
	"github.com/Togather-Foundation/clubhub/internal/domain/events"
)

// Seeder loads the demo directory into an empty backend.
type Seeder interface {
	Seed(ctx context.Context, now time.Time) error
}

// SeedClub is one demo club together with its events and announcements.
// Counts are seeded directly; they do not correspond to follower or
// registration rows.
type SeedClub struct {
	Club          clubs.CreateParams
	MemberCount   int
	Events        []SeedEvent
	Announcements []announcements.CreateParams
}

type SeedEvent struct {
	Event     events.CreateParams
	RSVPCount int
}

// Fixtures returns the demo directory with event dates relative to now.
// ClubID fields on nested records are filled in by the backend.
func Fixtures(now time.Time) []SeedClub {
	now = now.UTC()
	day := 24 * time.Hour
	nextWeek := now.Add(7 * day)
	twoWeeks := now.Add(14 * day)

	return []SeedClub{
		{
			Club: clubs.CreateParams{
				Name:        "Tech Club",
				Description: "Explore the latest in technology, coding, and innovation. Join us for workshops, hackathons, and tech talks.",
				Category:    "Technology",
				BannerImage: "/tech-banner.jpg",
				LogoImage:   "/tech-logo.jpg",
			},
			MemberCount: 342,
			Events: []SeedEvent{
				{
					Event: events.CreateParams{
						Title:        "Web Development Workshop",
						Description:  "Learn modern web development techniques with React and Node.js.",
						Category:     "Workshop",
						CoverImage:   "/workshop.jpg",
						Location:     "Computer Lab 3",
						StartDate:    nextWeek.Add(3 * day),
						EndDate:      nextWeek.Add(3*day + 2*time.Hour),
						MaxAttendees: intPtr(50),
					},
					RSVPCount: 42,
				},
				{
					Event: events.CreateParams{
						Title:        "AI/ML Tech Talk",
						Description:  "Industry experts discuss the latest trends in artificial intelligence and machine learning.",
						Category:     "Workshop",
						CoverImage:   "/tech-talk.jpg",
						Location:     "Auditorium B",
						StartDate:    twoWeeks,
						EndDate:      twoWeeks.Add(2 * time.Hour),
						MaxAttendees: intPtr(100),
					},
					RSVPCount: 67,
				},
			},
			Announcements: []announcements.CreateParams{
				{
					Title:   "New Workshop Series Starting",
					Content: "We're excited to announce a new series of hands-on workshops covering React, Node.js, and cloud deployment!",
				},
			},
		},
		{
			Club: clubs.CreateParams{
				Name:        "Music Society",
				Description: "For music lovers and performers. Regular concerts, jam sessions, and music appreciation events.",
				Category:    "Music",
				BannerImage: "/music-banner.jpg",
				LogoImage:   "/music-logo.jpg",
			},
			MemberCount: 275,
			Events: []SeedEvent{
				{
					Event: events.CreateParams{
						Title:        "Spring Concert ft. Local Bands",
						Description:  "Join us for an unforgettable evening of live music featuring talented local bands.",
						Category:     "Music",
						CoverImage:   "/concert.jpg",
						Location:     "Main Auditorium, Building A",
						StartDate:    nextWeek,
						EndDate:      nextWeek.Add(3 * time.Hour),
						MaxAttendees: intPtr(300),
					},
					RSVPCount: 156,
				},
			},
			Announcements: []announcements.CreateParams{
				{
					Title:   "Tickets Now Available",
					Content: "Get your tickets for the Spring Concert now! Limited seats available.",
				},
			},
		},
		{
			Club: clubs.CreateParams{
				Name:        "Art & Design Society",
				Description: "Express creativity through various art forms including painting, digital design, and sculpture.",
				Category:    "Arts",
				BannerImage: "/art-banner.jpg",
				LogoImage:   "/art-logo.jpg",
			},
			MemberCount: 218,
		},
		{
			Club: clubs.CreateParams{
				Name:        "Sports Club",
				Description: "Stay active with various sports activities, tournaments, and fitness programs for all skill levels.",
				Category:    "Sports",
				BannerImage: "/sports-banner.jpg",
				LogoImage:   "/sports-logo.jpg",
			},
			MemberCount: 456,
			Events: []SeedEvent{
				{
					Event: events.CreateParams{
						Title:        "Basketball Championship Finals",
						Description:  "Championship game of the season. Come support your team!",
						Category:     "Sports",
						CoverImage:   "/basketball.jpg",
						Location:     "Sports Complex",
						StartDate:    nextWeek.Add(5 * day),
						EndDate:      nextWeek.Add(5*day + 2*time.Hour),
						MaxAttendees: intPtr(500),
					},
					RSVPCount: 203,
				},
			},
		},
	}
}

func intPtr(v int) *int {
	return &v
}
