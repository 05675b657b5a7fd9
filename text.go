package main

// Labels is the fixed page copy. Everything personal lives in the site
// document.
var Labels = struct {
	NavAbout, NavProjects, NavLearning, NavContact string
	ThemeToggle, MenuToggle                        string
	SkillsHeading                                  string
	FeaturedHeading, FeaturedIntro                 string
	ViewAllProjects, ViewProject                   string
	ProjectsHeading, ProjectsIntro                 string
	LearningHeading, LearningIntro                 string
	OverallProgress, TopicProgress                 string
	ContactHeading, SocialHeading                  string
	Rights                                         string
	NotFound, ServerError                          string
}{
	NavAbout:        "About",
	NavProjects:     "Projects",
	NavLearning:     "Learning",
	NavContact:      "Contact",
	ThemeToggle:     "Toggle theme",
	MenuToggle:      "Open menu",
	SkillsHeading:   "Skills",
	FeaturedHeading: "Featured projects",
	FeaturedIntro:   "A few projects I'm proudest of, each one a chance to learn something new.",
	ViewAllProjects: "All projects",
	ViewProject:     "View project",
	ProjectsHeading: "My projects",
	ProjectsIntro:   "Everything I've built, with the stack behind it.",
	LearningHeading: "Currently learning",
	LearningIntro:   "Always picking up something new. Open a card to see progress by topic.",
	OverallProgress: "Overall",
	TopicProgress:   "Progress by topic",
	ContactHeading:  "Contact",
	SocialHeading:   "Elsewhere",
	Rights:          "All rights reserved.",
	NotFound:        "That page doesn't exist.",
	ServerError:     "Something went wrong. Please try again later.",
}
