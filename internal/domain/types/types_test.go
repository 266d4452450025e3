package types_test

import (
	"testing"

	types "github.com/mentorverse/sensei/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEvidence(t *testing.T) {
	Convey("Given an Evidence struct", t, func() {
		Convey("When no matches were collected", func() {
			ev := types.Evidence{}

			Convey("Then it should report no matches", func() {
				So(ev.HasMatches(), ShouldBeFalse)
			})
		})

		Convey("When only slots are present", func() {
			ev := types.Evidence{Slots: 3}

			Convey("Then slots alone are not textual matches", func() {
				So(ev.HasMatches(), ShouldBeFalse)
				So(ev.Slots, ShouldEqual, 3)
			})
		})

		Convey("When skill matches exist", func() {
			ev := types.Evidence{SkillMatches: []string{"React"}}

			Convey("Then it should report matches", func() {
				So(ev.HasMatches(), ShouldBeTrue)
			})
		})

		Convey("When only growth matches exist", func() {
			ev := types.Evidence{GrowthMatches: []string{"Python"}}

			Convey("Then it should report matches", func() {
				So(ev.HasMatches(), ShouldBeTrue)
			})
		})

		Convey("When only industry matches exist", func() {
			ev := types.Evidence{IndustryMatches: []string{"FinTech"}}

			Convey("Then it should report matches", func() {
				So(ev.HasMatches(), ShouldBeTrue)
			})
		})
	})
}

func TestEntry(t *testing.T) {
	Convey("Given a roster entry", t, func() {
		Convey("When creating a populated entry", func() {
			entry := types.Entry{
				Rank:     1,
				MentorID: "mentor-123",
				Name:     "Ada",
				Slots:    5,
			}

			Convey("Then it should carry the values", func() {
				So(entry.Rank, ShouldEqual, 1)
				So(entry.MentorID, ShouldEqual, "mentor-123")
				So(entry.Name, ShouldEqual, "Ada")
				So(entry.Slots, ShouldEqual, 5)
			})
		})

		Convey("When creating a zero entry", func() {
			entry := types.Entry{}

			Convey("Then it should have default values", func() {
				So(entry.Rank, ShouldEqual, 0)
				So(entry.MentorID, ShouldEqual, "")
				So(entry.Slots, ShouldEqual, 0)
			})
		})
	})
}
