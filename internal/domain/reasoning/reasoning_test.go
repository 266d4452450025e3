package reasoning_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/mentorverse/sensei/internal/domain/reasoning"
	"github.com/mentorverse/sensei/internal/domain/types"
)

func TestComposeClauses(t *testing.T) {
	Convey("Given evidence with skill matches", t, func() {
		Convey("When composing the justification", func() {
			got := reasoning.Compose("SE", "Acme", types.Evidence{
				SkillMatches: []string{"React"},
			})

			Convey("Then the expertise clause should lead", func() {
				So(got, ShouldEqual, "Expert in React.")
			})
		})

		Convey("When more than three skills matched", func() {
			got := reasoning.Compose("SE", "Acme", types.Evidence{
				SkillMatches: []string{"python", "go", "rust", "zig"},
			})

			Convey("Then only the first three should be named, title-cased", func() {
				So(got, ShouldEqual, "Expert in Python, Go, Rust.")
			})
		})

		Convey("When growth matches are also present", func() {
			got := reasoning.Compose("SE", "Acme", types.Evidence{
				SkillMatches:  []string{"React"},
				GrowthMatches: []string{"JavaScript"},
			})

			Convey("Then the growth clause should be suppressed", func() {
				So(got, ShouldEqual, "Expert in React.")
			})
		})
	})

	Convey("Given evidence with only growth matches", t, func() {
		Convey("When composing the justification", func() {
			got := reasoning.Compose("SE", "Acme", types.Evidence{
				GrowthMatches: []string{"React"},
			})

			Convey("Then the growth clause should appear instead", func() {
				So(got, ShouldEqual, "Experienced with your current skills: React.")
			})
		})
	})

	Convey("Given evidence with industry matches", t, func() {
		Convey("When one industry matched", func() {
			got := reasoning.Compose("SE", "Acme", types.Evidence{
				IndustryMatches: []string{"FinTech"},
			})

			Convey("Then the naive casing should flatten interior capitals", func() {
				So(got, ShouldEqual, "Works closely with Fintech.")
			})
		})

		Convey("When more than two industries matched", func() {
			got := reasoning.Compose("SE", "Acme", types.Evidence{
				IndustryMatches: []string{"FinTech", "health care", "Gaming"},
			})

			Convey("Then only the first two should be joined with an ampersand", func() {
				So(got, ShouldEqual, "Works closely with Fintech & Health Care.")
			})
		})
	})

	Convey("Given availability", t, func() {
		Convey("When exactly one slot is open", func() {
			got := reasoning.Compose("SE", "Acme", types.Evidence{Slots: 1})

			Convey("Then the clause should be singular", func() {
				So(got, ShouldEqual, "Has 1 upcoming time slot available.")
			})
		})

		Convey("When several slots are open", func() {
			got := reasoning.Compose("SE", "Acme", types.Evidence{Slots: 3})

			So(got, ShouldEqual, "Has 3 upcoming time slots available.")
		})
	})

	Convey("Given no evidence at all", t, func() {
		Convey("When composing the justification", func() {
			got := reasoning.Compose("staff engineer", "deVops Inc", types.Evidence{})

			Convey("Then the fallback should use title and company verbatim", func() {
				So(got, ShouldEqual, "Strong background as staff engineer at deVops Inc.")
			})
		})
	})

	Convey("Given every kind of evidence at once", t, func() {
		Convey("When composing the justification", func() {
			got := reasoning.Compose("SE", "Acme", types.Evidence{
				SkillMatches:    []string{"React", "Node.js"},
				GrowthMatches:   []string{"JavaScript"},
				IndustryMatches: []string{"FinTech"},
				Slots:           2,
			})

			Convey("Then clauses should join with periods in fixed order", func() {
				So(got, ShouldEqual, "Expert in React, Node.Js. Works closely with Fintech. Has 2 upcoming time slots available.")
			})
		})
	})
}

func TestTitleCase(t *testing.T) {
	Convey("Given assorted inputs", t, func() {
		cases := map[string]string{
			"fintech":          "Fintech",
			"FinTech":          "Fintech",
			"machine learning": "Machine Learning",
			"node.js":          "Node.Js",
			"AI":               "Ai",
			"3d tools":         "3d Tools",
			"_go":              "_go",
			"":                 "",
		}

		Convey("When title-casing each", func() {
			for in, want := range cases {
				So(reasoning.TitleCase(in), ShouldEqual, want)
			}
		})

		Convey("When the input has accented letters", func() {
			Convey("Then they should act as word boundaries, not letters", func() {
				So(reasoning.TitleCase("naïve bayes"), ShouldEqual, "NaïVe Bayes")
			})
		})
	})
}
