// Package resume holds the editable resume document, its mutation store and
// the helpers that move it to and from persisted history.
package resume

type SocialHandle struct {
	Label string `json:"label"`
	Link  string `json:"link"`
}

type Experience struct {
	Company     string   `json:"company"`
	JobTitle    string   `json:"jobTitle"`
	Location    string   `json:"location"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Description []string `json:"description"`
}

type Project struct {
	Name        string   `json:"name"`
	Link        string   `json:"link"`
	TechStack   string   `json:"techStack"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Description []string `json:"description"`
}

type Education struct {
	Institution string   `json:"institution"`
	Degree      string   `json:"degree"`
	Location    string   `json:"location"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Grade       string   `json:"grade"`
	Description []string `json:"description"`
}

type Activity struct {
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Description []string `json:"description"`
}

type Skill struct {
	Category string   `json:"category"`
	Skills   []string `json:"skills"`
}

type Achievement struct {
	Title       string   `json:"title"`
	Link        string   `json:"link"`
	Date        string   `json:"date"`
	Description []string `json:"description"`
}

type WorkExperienceSection struct {
	Title      string       `json:"title"`
	Experience []Experience `json:"experience"`
}

type ProjectsSection struct {
	Title    string    `json:"title"`
	Projects []Project `json:"projects"`
}

type EducationSection struct {
	Title     string      `json:"title"`
	Education []Education `json:"education"`
}

type ActivitiesSection struct {
	Title      string     `json:"title"`
	Activities []Activity `json:"activities"`
}

type SkillsSection struct {
	Title  string  `json:"title"`
	Skills []Skill `json:"skills"`
}

type AchievementsSection struct {
	Title        string        `json:"title"`
	Achievements []Achievement `json:"achievements"`
}

// Document is the full structured resume.
type Document struct {
	Title          string                `json:"title"`
	SocialHandles  []SocialHandle        `json:"socialHandles"`
	WorkExperience WorkExperienceSection `json:"workExperience"`
	Projects       ProjectsSection       `json:"projects"`
	Education      EducationSection      `json:"education"`
	Activities     ActivitiesSection     `json:"activities"`
	Skills         SkillsSection         `json:"skills"`
	Achievements   AchievementsSection   `json:"achievements"`
}

// Empty item templates appended when Add is called without an item.
func emptyExperience() Experience { return Experience{Description: []string{""}} }
func emptyProject() Project { return Project{Description: []string{""}} }
func emptyEducation() Education { return Education{Description: []string{""}} }
func emptyActivity() Activity { return Activity{Description: []string{""}} }
func emptySkill() Skill { return Skill{Skills: []string{""}} }
func emptyAchievement() Achievement { return Achievement{Description: []string{""}} }
func emptySocialHandle() SocialHandle { return SocialHandle{} }

// DefaultDocument returns the starting content for a new resume.
func DefaultDocument() Document {
	return Document{
		Title: "Your Name",
		SocialHandles: []SocialHandle{
			{Label: "Email", Link: ""},
			{Label: "LinkedIn", Link: ""},
			{Label: "GitHub", Link: ""},
		},
		WorkExperience: WorkExperienceSection{
			Title:      "Work Experience",
			Experience: []Experience{emptyExperience()},
		},
		Projects: ProjectsSection{
			Title:    "Projects",
			Projects: []Project{emptyProject()},
		},
		Education: EducationSection{
			Title:     "Education",
			Education: []Education{emptyEducation()},
		},
		Activities: ActivitiesSection{
			Title:      "Extracurricular Activities",
			Activities: []Activity{emptyActivity()},
		},
		Skills: SkillsSection{
			Title:  "Skills",
			Skills: []Skill{emptySkill()},
		},
		Achievements: AchievementsSection{
			Title:        "Achievements",
			Achievements: []Achievement{emptyAchievement()},
		},
	}
}

// Clone returns a deep copy that shares no slices with d.
func (d Document) Clone() Document {
	out := d
	out.SocialHandles = cloneItems(d.SocialHandles)
	out.WorkExperience.Experience = cloneItems(d.WorkExperience.Experience)
	out.Projects.Projects = cloneItems(d.Projects.Projects)
	out.Education.Education = cloneItems(d.Education.Education)
	out.Activities.Activities = cloneItems(d.Activities.Activities)
	out.Skills.Skills = cloneItems(d.Skills.Skills)
	out.Achievements.Achievements = cloneItems(d.Achievements.Achievements)
	return out
}

type cloner[T any] interface {
	clone() T
}

func (h SocialHandle) clone() SocialHandle { return h }

func (e Experience) clone() Experience {
	e.Description = cloneStrings(e.Description)
	return e
}

func (p Project) clone() Project {
	p.Description = cloneStrings(p.Description)
	return p
}

func (e Education) clone() Education {
	e.Description = cloneStrings(e.Description)
	return e
}

func (a Activity) clone() Activity {
	a.Description = cloneStrings(a.Description)
	return a
}

func (s Skill) clone() Skill {
	s.Skills = cloneStrings(s.Skills)
	return s
}

func (a Achievement) clone() Achievement {
	a.Description = cloneStrings(a.Description)
	return a
}

func cloneItems[T cloner[T]](in []T) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = v.clone()
	}
	return out
}

func cloneStrings(in []string) []string {
	return append([]string{}, in...)
}
