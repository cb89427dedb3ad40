package scoring_test

import (
	"testing"
	"time"

	"github.com/okian/birdhunt/internal/domain/model"
	"github.com/okian/birdhunt/internal/domain/scoring"
	"github.com/okian/birdhunt/internal/domain/weekclock"
	. "github.com/smartystreets/goconvey/convey"
)

func clockAt(t time.Time) *weekclock.Clock {
	return weekclock.New(weekclock.WithLocation(time.UTC), weekclock.WithNow(func() time.Time { return t }))
}

func entry(user, bird string, points, year, week int) model.Sighting {
	return model.Sighting{User: user, Bird: bird, Points: points, Week: week, Year: year}
}

func TestTotals(t *testing.T) {
	// ISO 2026-W01
	clock := clockAt(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))

	Convey("Given alice and bob logging Blue Jay in the current week", t, func() {
		entries := []model.Sighting{
			entry("alice", "Blue Jay", 10, 2026, 1),
			entry("bob", "Blue Jay", 10, 2026, 1),
		}

		Convey("Then weekly totals hold one sighting each", func() {
			So(scoring.WeeklyTotals(entries, clock), ShouldResemble, map[string]int{"alice": 10, "bob": 10})
		})
	})

	Convey("Given entries spread over several weeks", t, func() {
		entries := []model.Sighting{
			entry("alice", "Mallard", 5, 2025, 50),
			entry("Alice", "Blue Jay", 10, 2025, 52),
			entry("ALICE", "Great Horned Owl", 25, 2026, 1),
			entry("bob", "Mallard", 5, 2026, 1),
			entry("carol", "Blue Jay", 10, 2025, 1),
		}

		Convey("Then weekly totals only count the current week", func() {
			So(scoring.WeeklyTotals(entries, clock), ShouldResemble, map[string]int{"alice": 25, "bob": 5})
		})

		Convey("Then week 1 of a previous year is excluded", func() {
			_, ok := scoring.WeeklyTotals(entries, clock)["carol"]
			So(ok, ShouldBeFalse)
		})

		Convey("Then lifetime totals conserve every point regardless of case", func() {
			totals := scoring.LifetimeTotals(entries)
			So(totals["alice"], ShouldEqual, 40)
			So(totals["bob"], ShouldEqual, 5)
			So(totals["carol"], ShouldEqual, 10)

			sum := 0
			for _, e := range entries {
				sum += e.Points
			}
			got := 0
			for _, p := range totals {
				got += p
			}
			So(got, ShouldEqual, sum)
		})
	})

	Convey("Given an empty log", t, func() {
		Convey("Then totals are empty", func() {
			So(scoring.WeeklyTotals(nil, clock), ShouldBeEmpty)
			So(scoring.LifetimeTotals(nil), ShouldBeEmpty)
			So(scoring.Lifetime(nil).Ranked(), ShouldBeEmpty)
		})
	})
}

func TestRanked(t *testing.T) {
	Convey("Given tied totals", t, func() {
		tally := scoring.NewTally()
		tally.Add("dave", 10)
		tally.Add("erin", 25)
		tally.Add("bob", 10)
		tally.Add("alice", 10)

		ranked := tally.Ranked()

		Convey("Then ties keep first-seen order", func() {
			So(len(ranked), ShouldEqual, 4)
			So(ranked[0].User, ShouldEqual, "erin")
			So(ranked[1].User, ShouldEqual, "dave")
			So(ranked[2].User, ShouldEqual, "bob")
			So(ranked[3].User, ShouldEqual, "alice")
		})

		Convey("Then ranks are positional and medals cover the top three", func() {
			for i, e := range ranked {
				So(e.Rank, ShouldEqual, i+1)
			}
			So(ranked[0].Medal, ShouldEqual, "🥇")
			So(ranked[1].Medal, ShouldEqual, "🥈")
			So(ranked[2].Medal, ShouldEqual, "🥉")
			So(ranked[3].Medal, ShouldBeEmpty)
		})

		Convey("Then rank lookup is case-insensitive", func() {
			So(tally.RankOf("BOB"), ShouldEqual, 3)
			So(tally.RankOf("zoe"), ShouldEqual, 0)
		})

		Convey("Then Top truncates", func() {
			So(len(scoring.Top(ranked, 2)), ShouldEqual, 2)
			So(len(scoring.Top(ranked, 0)), ShouldEqual, 4)
			So(len(scoring.Top(ranked, 10)), ShouldEqual, 4)
		})
	})

	Convey("Given a later entry overtaking", t, func() {
		tally := scoring.Lifetime([]model.Sighting{
			entry("alice", "Mallard", 5, 2026, 1),
			entry("bob", "Mallard", 5, 2026, 1),
			entry("bob", "Blue Jay", 10, 2026, 1),
		})

		Convey("Then the higher total leads", func() {
			So(tally.Ranked()[0].User, ShouldEqual, "bob")
			So(tally.Points("Alice"), ShouldEqual, 5)
		})
	})
}

func TestMessages(t *testing.T) {
	Convey("Given confirmation outcomes", t, func() {
		So(scoring.Celebration(20), ShouldEqual, "Congrats! This species is hard to find right now.")
		So(scoring.Celebration(25), ShouldEqual, "Wow! This is a rare sighting.")
		So(scoring.Celebration(10), ShouldBeEmpty)
		So(scoring.Recorded("Blue Jay", 10), ShouldEqual, "Recorded! +10 points for Blue Jay")
		So(scoring.AlreadyFound("Blue Jay"), ShouldEqual, "Great job! You've already found **Blue Jay** this week.")
	})
}
