package model_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/birdhunt/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSighting(t *testing.T) {
	Convey("Given a legacy persisted entry without a year", t, func() {
		raw := `{"user":"alice","bird":"Blue Jay","points":10,"week":7,"timestamp":"2025-02-12T09:30:00"}`

		Convey("When it is decoded", func() {
			var s model.Sighting
			err := json.Unmarshal([]byte(raw), &s)

			Convey("Then the year is zero and other fields survive", func() {
				So(err, ShouldBeNil)
				So(s.Year, ShouldEqual, 0)
				So(s.Week, ShouldEqual, 7)
				So(s.Bird, ShouldEqual, "Blue Jay")
			})
		})

		Convey("When a yearless entry is encoded", func() {
			out, err := json.Marshal(model.Sighting{User: "bob", Bird: "Mallard", Points: 5, Week: 3})

			Convey("Then no year field is written", func() {
				So(err, ShouldBeNil)
				So(string(out), ShouldNotContainSubstring, "year")
			})
		})
	})
}

func TestWeekKey(t *testing.T) {
	Convey("Given week keys", t, func() {
		a := model.WeekKey{Year: 2025, Week: 52}
		b := model.WeekKey{Year: 2026, Week: 1}

		Convey("Then ordering follows year first", func() {
			So(a.Before(b), ShouldBeTrue)
			So(b.Before(a), ShouldBeFalse)
			So(a.Before(a), ShouldBeFalse)
		})

		Convey("Then they render as ISO week strings", func() {
			So(b.String(), ShouldEqual, "2026-W01")
		})
	})
}

func TestNormalizeUser(t *testing.T) {
	Convey("Given usernames differing in case and padding", t, func() {
		So(model.NormalizeUser("  Alice "), ShouldEqual, "alice")
		So(model.SameUser("ALICE", "alice "), ShouldBeTrue)
		So(model.SameUser("alice", "alicia"), ShouldBeFalse)
	})
}
