package scoring_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/mentorverse/sensei/internal/domain/scoring"
	"github.com/mentorverse/sensei/internal/domain/types"
)

func TestScoreWeights(t *testing.T) {
	Convey("Given assorted evidence", t, func() {
		Convey("When every signal contributes", func() {
			score := scoring.Score(types.Evidence{
				SkillMatches:    []string{"React", "Node.js"},
				GrowthMatches:   []string{"JavaScript"},
				IndustryMatches: []string{"FinTech"},
				Slots:           3,
			})

			Convey("Then the weighted sum should apply", func() {
				// 4*2 + 2*1 + 3*1 + 1
				So(score, ShouldEqual, 14)
			})
		})

		Convey("When only availability is present", func() {
			Convey("Then the bonus should be flat, not per slot", func() {
				So(scoring.Score(types.Evidence{Slots: 1}), ShouldEqual, 1)
				So(scoring.Score(types.Evidence{Slots: 9}), ShouldEqual, 1)
			})
		})

		Convey("When there is no evidence at all", func() {
			So(scoring.Score(types.Evidence{}), ShouldEqual, 0)
		})

		Convey("When slots are zero", func() {
			score := scoring.Score(types.Evidence{
				SkillMatches: []string{"Go"},
				Slots:        0,
			})

			Convey("Then no availability bonus should apply", func() {
				So(score, ShouldEqual, 4)
			})
		})
	})
}

func TestRankOrdering(t *testing.T) {
	Convey("Given candidates with distinct scores", t, func() {
		cands := []scoring.Candidate{
			{Index: 0, Name: "Low", Score: 2},
			{Index: 1, Name: "High", Score: 9},
			{Index: 2, Name: "Mid", Score: 5},
		}

		Convey("When ranking them", func() {
			scoring.Rank(cands)

			Convey("Then higher scores should come first", func() {
				So(cands[0].Name, ShouldEqual, "High")
				So(cands[1].Name, ShouldEqual, "Mid")
				So(cands[2].Name, ShouldEqual, "Low")
			})
		})
	})

	Convey("Given candidates tied on score", t, func() {
		cands := []scoring.Candidate{
			{Name: "Few", Score: 5, Slots: 1},
			{Name: "Many", Score: 5, Slots: 6},
		}

		Convey("When ranking them", func() {
			scoring.Rank(cands)

			Convey("Then more open slots should win the tie", func() {
				So(cands[0].Name, ShouldEqual, "Many")
			})
		})
	})

	Convey("Given candidates tied on score and slots", t, func() {
		cands := []scoring.Candidate{
			{Name: "zoe", Score: 5, Slots: 2},
			{Name: "Ada", Score: 5, Slots: 2},
			{Name: "ada", Score: 5, Slots: 2},
		}

		Convey("When ranking them", func() {
			scoring.Rank(cands)

			Convey("Then names should break the tie in plain byte order", func() {
				So(cands[0].Name, ShouldEqual, "Ada")
				So(cands[1].Name, ShouldEqual, "ada")
				So(cands[2].Name, ShouldEqual, "zoe")
			})
		})
	})
}

func TestSelect(t *testing.T) {
	Convey("Given more scoring candidates than the result cap", t, func() {
		cands := []scoring.Candidate{
			{Name: "a", Score: 1},
			{Name: "b", Score: 7},
			{Name: "c", Score: 3},
			{Name: "d", Score: 9},
			{Name: "e", Score: 5},
			{Name: "f", Score: 0},
		}

		Convey("When selecting", func() {
			picked, fallback := scoring.Select(cands)

			Convey("Then the best four scorers should be returned in order", func() {
				So(fallback, ShouldBeFalse)
				So(picked, ShouldHaveLength, scoring.MaxResults)
				So(picked[0].Name, ShouldEqual, "d")
				So(picked[1].Name, ShouldEqual, "b")
				So(picked[2].Name, ShouldEqual, "e")
				So(picked[3].Name, ShouldEqual, "c")
			})
		})
	})

	Convey("Given a single scoring candidate among zeros", t, func() {
		cands := []scoring.Candidate{
			{Name: "quiet", Score: 0},
			{Name: "match", Score: 4},
			{Name: "still", Score: 0},
		}

		Convey("When selecting", func() {
			picked, fallback := scoring.Select(cands)

			Convey("Then zero scorers should not pad the result", func() {
				So(fallback, ShouldBeFalse)
				So(picked, ShouldHaveLength, 1)
				So(picked[0].Name, ShouldEqual, "match")
			})
		})
	})

	Convey("Given no candidate scored at all", t, func() {
		cands := []scoring.Candidate{
			{Name: "carol", Score: 0, Slots: 0},
			{Name: "bob", Score: 0, Slots: 0},
			{Name: "dave", Score: 0, Slots: 0},
			{Name: "alice", Score: 0, Slots: 0},
			{Name: "erin", Score: 0, Slots: 0},
		}

		Convey("When selecting", func() {
			picked, fallback := scoring.Select(cands)

			Convey("Then the best of the full ranking should be returned", func() {
				So(fallback, ShouldBeTrue)
				So(picked, ShouldHaveLength, scoring.MaxResults)
				So(picked[0].Name, ShouldEqual, "alice")
				So(picked[1].Name, ShouldEqual, "bob")
				So(picked[2].Name, ShouldEqual, "carol")
				So(picked[3].Name, ShouldEqual, "dave")
			})
		})
	})

	Convey("Given fewer candidates than the cap", t, func() {
		cands := []scoring.Candidate{{Name: "only", Score: 0}}

		Convey("When selecting", func() {
			picked, fallback := scoring.Select(cands)

			Convey("Then everyone available should be returned", func() {
				So(fallback, ShouldBeTrue)
				So(picked, ShouldHaveLength, 1)
			})
		})
	})
}
