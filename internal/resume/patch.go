package resume

// Patches merge onto an existing item. Nil fields are left untouched.

type SocialHandlePatch struct {
	Label *string
	Link  *string
}

func (p SocialHandlePatch) apply(h *SocialHandle) {
	setIf(&h.Label, p.Label)
	setIf(&h.Link, p.Link)
}

type ExperiencePatch struct {
	Company     *string
	JobTitle    *string
	Location    *string
	StartDate   *string
	EndDate     *string
	Description *[]string
}

func (p ExperiencePatch) apply(e *Experience) {
	setIf(&e.Company, p.Company)
	setIf(&e.JobTitle, p.JobTitle)
	setIf(&e.Location, p.Location)
	setIf(&e.StartDate, p.StartDate)
	setIf(&e.EndDate, p.EndDate)
	setListIf(&e.Description, p.Description)
}

type ProjectPatch struct {
	Name        *string
	Link        *string
	TechStack   *string
	StartDate   *string
	EndDate     *string
	Description *[]string
}

func (p ProjectPatch) apply(pr *Project) {
	setIf(&pr.Name, p.Name)
	setIf(&pr.Link, p.Link)
	setIf(&pr.TechStack, p.TechStack)
	setIf(&pr.StartDate, p.StartDate)
	setIf(&pr.EndDate, p.EndDate)
	setListIf(&pr.Description, p.Description)
}

type EducationPatch struct {
	Institution *string
	Degree      *string
	Location    *string
	StartDate   *string
	EndDate     *string
	Grade       *string
	Description *[]string
}

func (p EducationPatch) apply(e *Education) {
	setIf(&e.Institution, p.Institution)
	setIf(&e.Degree, p.Degree)
	setIf(&e.Location, p.Location)
	setIf(&e.StartDate, p.StartDate)
	setIf(&e.EndDate, p.EndDate)
	setIf(&e.Grade, p.Grade)
	setListIf(&e.Description, p.Description)
}

type ActivityPatch struct {
	Name        *string
	Role        *string
	StartDate   *string
	EndDate     *string
	Description *[]string
}

func (p ActivityPatch) apply(a *Activity) {
	setIf(&a.Name, p.Name)
	setIf(&a.Role, p.Role)
	setIf(&a.StartDate, p.StartDate)
	setIf(&a.EndDate, p.EndDate)
	setListIf(&a.Description, p.Description)
}

type SkillPatch struct {
	Category *string
	Skills   *[]string
}

func (p SkillPatch) apply(s *Skill) {
	setIf(&s.Category, p.Category)
	setListIf(&s.Skills, p.Skills)
}

type AchievementPatch struct {
	Title       *string
	Link        *string
	Date        *string
	Description *[]string
}

func (p AchievementPatch) apply(a *Achievement) {
	setIf(&a.Title, p.Title)
	setIf(&a.Link, p.Link)
	setIf(&a.Date, p.Date)
	setListIf(&a.Description, p.Description)
}

// String returns a pointer to s for building patches.
func String(s string) *string { return &s }

// Strings returns a pointer to a copy of v for building patches.
func Strings(v ...string) *[]string {
	out := append([]string{}, v...)
	return &out
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setListIf(dst *[]string, v *[]string) {
	if v != nil {
		*dst = cloneStrings(*v)
	}
}
