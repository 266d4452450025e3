package matchmaker_test

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/mentorverse/sensei/internal/domain/matchmaker"
	"github.com/mentorverse/sensei/internal/domain/model"
)

func profileWith(current, desired, industries string) model.MenteeProfile {
	return model.MenteeProfile{
		CurrentSkills:     current,
		DesiredSkills:     desired,
		CareerGoals:       "Grow into leadership",
		IndustryInterests: industries,
	}
}

func TestMatchScenarios(t *testing.T) {
	Convey("Given a mentor whose expertise covers a desired skill", t, func() {
		profile := profileWith("HTML", "React, Node.js", "none")
		mentors := []model.Mentor{
			{Name: "Ada", Title: "SE", Company: "Acme", Expertise: []string{"React", "GraphQL"}},
		}

		Convey("When matching", func() {
			res := matchmaker.Match(profile, mentors)

			Convey("Then the mentor should be selected with the expertise clause", func() {
				So(res.Fallback, ShouldBeFalse)
				So(res.TopScore, ShouldEqual, 4)
				So(res.Mentors, ShouldHaveLength, 1)
				So(res.Mentors[0].MatchReasoning, ShouldEqual, "Expert in React.")
			})
		})
	})

	Convey("Given overlap only with the mentee's current skills", t, func() {
		profile := profileWith("react", "kubernetes", "none")
		mentors := []model.Mentor{
			{Name: "Ada", Title: "SE", Company: "Acme", Expertise: []string{"React"}},
		}

		Convey("When matching", func() {
			res := matchmaker.Match(profile, mentors)

			Convey("Then the growth clause should be used, not the expertise one", func() {
				So(res.TopScore, ShouldEqual, 2)
				So(res.Mentors[0].MatchReasoning, ShouldEqual, "Experienced with your current skills: React.")
			})
		})
	})

	Convey("Given an industry interest appearing in a company name", t, func() {
		profile := profileWith("none", "none", "FinTech & Healthcare")
		mentors := []model.Mentor{
			{Name: "Ada", Title: "Advisor", Company: "FinTech Solutions Inc"},
		}

		Convey("When matching", func() {
			res := matchmaker.Match(profile, mentors)

			Convey("Then the industry clause should fire with naive casing", func() {
				So(res.TopScore, ShouldEqual, 3)
				So(res.Mentors[0].MatchReasoning, ShouldEqual, "Works closely with Fintech.")
			})
		})
	})

	Convey("Given two mentors tied on score and slots", t, func() {
		profile := profileWith("none", "Go", "none")
		avail := map[string]any{"2024-06-01": []any{"10am", "2pm"}}
		mentors := []model.Mentor{
			{Name: "Bob", Title: "SE", Company: "A", Expertise: []string{"Go"}, Availability: avail},
			{Name: "Alice", Title: "SE", Company: "B", Expertise: []string{"Go"}, Availability: avail},
		}

		Convey("When matching", func() {
			res := matchmaker.Match(profile, mentors)

			Convey("Then the alphabetical tie-break should put Alice first", func() {
				So(res.Mentors, ShouldHaveLength, 2)
				So(res.Mentors[0].Name, ShouldEqual, "Alice")
				So(res.Mentors[1].Name, ShouldEqual, "Bob")
			})
		})
	})

	Convey("Given a pool where nobody matches anything", t, func() {
		profile := profileWith("Fortran", "COBOL", "Mainframes")
		mentors := []model.Mentor{
			{Name: "eve", Title: "PM", Company: "One"},
			{Name: "dan", Title: "PM", Company: "Two"},
			{Name: "carol", Title: "PM", Company: "Three"},
			{Name: "bob", Title: "PM", Company: "Four"},
			{Name: "alice", Title: "PM", Company: "Five"},
		}

		Convey("When matching", func() {
			res := matchmaker.Match(profile, mentors)

			Convey("Then the fallback should return the best four by name", func() {
				So(res.Fallback, ShouldBeTrue)
				So(res.TopScore, ShouldEqual, 0)
				So(res.Mentors, ShouldHaveLength, 4)
				So(res.Mentors[0].Name, ShouldEqual, "alice")
				So(res.Mentors[1].Name, ShouldEqual, "bob")
				So(res.Mentors[2].Name, ShouldEqual, "carol")
				So(res.Mentors[3].Name, ShouldEqual, "dan")
				So(res.Mentors[0].MatchReasoning, ShouldEqual, "Strong background as PM at Five.")
			})
		})
	})

	Convey("Given a mentor with open slots but no textual overlap", t, func() {
		profile := profileWith("Fortran", "COBOL", "Mainframes")
		mentors := []model.Mentor{
			{Name: "Ada", Title: "SE", Company: "Acme",
				Availability: map[string]any{"2024-01-01": []any{"10am"}}},
			{Name: "Quiet", Title: "SE", Company: "Acme"},
		}

		Convey("When matching", func() {
			res := matchmaker.Match(profile, mentors)

			Convey("Then availability alone should score one and read singular", func() {
				So(res.Fallback, ShouldBeFalse)
				So(res.TopScore, ShouldEqual, 1)
				So(res.Mentors, ShouldHaveLength, 1)
				So(res.Mentors[0].MatchReasoning, ShouldEqual, "Has 1 upcoming time slot available.")
			})
		})
	})

	Convey("Given career goals that overlap mentor expertise", t, func() {
		profile := model.MenteeProfile{
			CurrentSkills:     "none",
			DesiredSkills:     "none",
			CareerGoals:       "GraphQL architecture",
			IndustryInterests: "none",
		}
		mentors := []model.Mentor{
			{Name: "Ada", Title: "SE", Company: "Acme", Expertise: []string{"GraphQL"}},
		}

		Convey("When matching", func() {
			res := matchmaker.Match(profile, mentors)

			Convey("Then the goals should contribute nothing to the score", func() {
				So(res.TopScore, ShouldEqual, 0)
				So(res.Fallback, ShouldBeTrue)
			})
		})
	})
}

func TestMatchInvariants(t *testing.T) {
	Convey("Given a large mixed pool", t, func() {
		profile := profileWith("JavaScript", "React", "FinTech")
		var mentors []model.Mentor
		for _, m := range []model.Mentor{
			{Name: "a", Title: "SE", Company: "FinTech One", Expertise: []string{"React"}},
			{Name: "b", Title: "SE", Company: "Other", Expertise: []string{"React", "JavaScript"}},
			{Name: "c", Title: "SE", Company: "Other", Expertise: []string{"JavaScript"}},
			{Name: "d", Title: "SE", Company: "FinTech Two"},
			{Name: "e", Title: "SE", Company: "Other", Expertise: []string{"Rust"}},
			{Name: "f", Title: "SE", Company: "Other", Expertise: []string{"React"}},
		} {
			mentors = append(mentors, m)
		}

		Convey("When matching twice with identical input", func() {
			first := matchmaker.Match(profile, mentors)
			second := matchmaker.Match(profile, mentors)

			Convey("Then the runs should be identical", func() {
				So(second, ShouldResemble, first)
			})

			Convey("Then the result cap should hold", func() {
				So(len(first.Mentors), ShouldBeLessThanOrEqualTo, 4)
			})

			Convey("Then the pool order should be untouched", func() {
				So(mentors[0].Name, ShouldEqual, "a")
				So(mentors[5].Name, ShouldEqual, "f")
			})

			Convey("Then every justification should end with a period", func() {
				for _, m := range first.Mentors {
					So(m.MatchReasoning, ShouldNotBeEmpty)
					So(m.MatchReasoning, ShouldEndWith, ".")
				}
			})
		})
	})

	Convey("Given mentors decoded from JSON with extra fields", t, func() {
		var req model.MatchRequest
		So(json.Unmarshal([]byte(`{
			"profile": {"currentSkills": "none", "desiredSkills": "Go", "careerGoals": "lead", "industryInterests": "none"},
			"mentors": [{"name": "Ada", "title": "SE", "company": "Acme", "expertise": ["Go"], "mentorId": "m-1", "timezone": "UTC"}]
		}`), &req), ShouldBeNil)

		Convey("When matching and marshaling the result", func() {
			res := matchmaker.Match(req.Profile, req.Mentors)
			out, err := json.Marshal(res.Mentors[0])
			So(err, ShouldBeNil)

			var fields map[string]any
			So(json.Unmarshal(out, &fields), ShouldBeNil)

			Convey("Then the output should be the input fields plus the reasoning", func() {
				So(fields["mentorId"], ShouldEqual, "m-1")
				So(fields["timezone"], ShouldEqual, "UTC")
				So(fields["matchReasoning"], ShouldEqual, "Expert in Go.")
				So(fields, ShouldHaveLength, 7)
			})
		})
	})
}
