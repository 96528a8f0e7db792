package resume

// SetTitle sets the document title (the candidate's name).
func (s *Store) SetTitle(title string) {
	s.mutate(func(d *Document) error {
		d.Title = title
		return nil
	})
}

// SetWorkExperienceTitle renames the work experience section.
func (s *Store) SetWorkExperienceTitle(title string) {
	s.mutate(func(d *Document) error {
		d.WorkExperience.Title = title
		return nil
	})
}

// SetProjectsTitle renames the projects section.
func (s *Store) SetProjectsTitle(title string) {
	s.mutate(func(d *Document) error {
		d.Projects.Title = title
		return nil
	})
}

// SetEducationTitle renames the education section.
func (s *Store) SetEducationTitle(title string) {
	s.mutate(func(d *Document) error {
		d.Education.Title = title
		return nil
	})
}

// SetActivitiesTitle renames the activities section.
func (s *Store) SetActivitiesTitle(title string) {
	s.mutate(func(d *Document) error {
		d.Activities.Title = title
		return nil
	})
}

// SetSkillsTitle renames the skills section.
func (s *Store) SetSkillsTitle(title string) {
	s.mutate(func(d *Document) error {
		d.Skills.Title = title
		return nil
	})
}

// SetAchievementsTitle renames the achievements section.
func (s *Store) SetAchievementsTitle(title string) {
	s.mutate(func(d *Document) error {
		d.Achievements.Title = title
		return nil
	})
}

// AddSocialHandle appends h, or an empty handle when h is nil.
func (s *Store) AddSocialHandle(h *SocialHandle) {
	s.mutate(func(d *Document) error {
		appendItem(&d.SocialHandles, h, emptySocialHandle)
		return nil
	})
}

// UpdateSocialHandle merges p onto the handle at index, returning
// ErrIndexOutOfRange when there is none.
func (s *Store) UpdateSocialHandle(index int, p SocialHandlePatch) error {
	return s.mutate(func(d *Document) error {
		return updateItem(d.SocialHandles, index, p.apply)
	})
}

// RemoveSocialHandle drops the handle at index if it exists.
func (s *Store) RemoveSocialHandle(index int) {
	s.mutate(func(d *Document) error {
		removeItem(&d.SocialHandles, index)
		return nil
	})
}

// AddExperience appends a copy of item, or an empty template with one blank
// line when item is nil.
func (s *Store) AddExperience(item *Experience) {
	s.mutate(func(d *Document) error {
		appendItem(&d.WorkExperience.Experience, item, emptyExperience)
		return nil
	})
}

// UpdateExperience merges p onto the work experience entry at index.
func (s *Store) UpdateExperience(index int, p ExperiencePatch) error {
	return s.mutate(func(d *Document) error {
		return updateItem(d.WorkExperience.Experience, index, p.apply)
	})
}

// RemoveExperience deletes the work experience entry at index. Out-of-range indexes are ignored.
func (s *Store) RemoveExperience(index int) {
	s.mutate(func(d *Document) error {
		removeItem(&d.WorkExperience.Experience, index)
		return nil
	})
}

// AddExperienceBullet appends a blank description line to entry parent.
func (s *Store) AddExperienceBullet(parent int) error {
	return s.mutate(func(d *Document) error {
		return addBullet(d.WorkExperience.Experience, parent, experienceLines)
	})
}

// UpdateExperienceBullet replaces one description line.
func (s *Store) UpdateExperienceBullet(parent, child int, value string) error {
	return s.mutate(func(d *Document) error {
		return updateBullet(d.WorkExperience.Experience, parent, child, value, experienceLines)
	})
}

// RemoveExperienceBullet deletes one description line; bad indexes are a no-op.
func (s *Store) RemoveExperienceBullet(parent, child int) {
	s.mutate(func(d *Document) error {
		removeBullet(d.WorkExperience.Experience, parent, child, experienceLines)
		return nil
	})
}

func experienceLines(v *Experience) *[]string { return &v.Description }

// AddProject appends a copy of item, or an empty project when item is nil.
func (s *Store) AddProject(item *Project) {
	s.mutate(func(d *Document) error {
		appendItem(&d.Projects.Projects, item, emptyProject)
		return nil
	})
}

// UpdateProject merges p onto the project at index.
func (s *Store) UpdateProject(index int, p ProjectPatch) error {
	return s.mutate(func(d *Document) error {
		return updateItem(d.Projects.Projects, index, p.apply)
	})
}

// RemoveProject deletes the project at index.
func (s *Store) RemoveProject(index int) {
	s.mutate(func(d *Document) error {
		removeItem(&d.Projects.Projects, index)
		return nil
	})
}

// Project bullet operations mirror the experience ones.
func (s *Store) AddProjectBullet(parent int) error {
	return s.mutate(func(d *Document) error {
		return addBullet(d.Projects.Projects, parent, projectLines)
	})
}

func (s *Store) UpdateProjectBullet(parent, child int, value string) error {
	return s.mutate(func(d *Document) error {
		return updateBullet(d.Projects.Projects, parent, child, value, projectLines)
	})
}

func (s *Store) RemoveProjectBullet(parent, child int) {
	s.mutate(func(d *Document) error {
		removeBullet(d.Projects.Projects, parent, child, projectLines)
		return nil
	})
}

func projectLines(v *Project) *[]string { return &v.Description }

// AddEducation appends a copy of item, or an empty education entry when item is nil.
func (s *Store) AddEducation(item *Education) {
	s.mutate(func(d *Document) error {
		appendItem(&d.Education.Education, item, emptyEducation)
		return nil
	})
}

// UpdateEducation merges p onto the education entry at index.
func (s *Store) UpdateEducation(index int, p EducationPatch) error {
	return s.mutate(func(d *Document) error {
		return updateItem(d.Education.Education, index, p.apply)
	})
}

// RemoveEducation deletes the education entry at index.
func (s *Store) RemoveEducation(index int) {
	s.mutate(func(d *Document) error {
		removeItem(&d.Education.Education, index)
		return nil
	})
}

// AddEducationBullet appends a blank line to education entry parent.
func (s *Store) AddEducationBullet(parent int) error {
	return s.mutate(func(d *Document) error {
		return addBullet(d.Education.Education, parent, educationLines)
	})
}

func (s *Store) UpdateEducationBullet(parent, child int, value string) error {
	return s.mutate(func(d *Document) error {
		return updateBullet(d.Education.Education, parent, child, value, educationLines)
	})
}

func (s *Store) RemoveEducationBullet(parent, child int) {
	s.mutate(func(d *Document) error {
		removeBullet(d.Education.Education, parent, child, educationLines)
		return nil
	})
}

func educationLines(v *Education) *[]string { return &v.Description }

// AddActivity appends a copy of item, or an empty activity when item is nil.
func (s *Store) AddActivity(item *Activity) {
	s.mutate(func(d *Document) error {
		appendItem(&d.Activities.Activities, item, emptyActivity)
		return nil
	})
}

// UpdateActivity merges p onto the activity at index.
func (s *Store) UpdateActivity(index int, p ActivityPatch) error {
	return s.mutate(func(d *Document) error {
		return updateItem(d.Activities.Activities, index, p.apply)
	})
}

// RemoveActivity deletes the activity at index.
func (s *Store) RemoveActivity(index int) {
	s.mutate(func(d *Document) error {
		removeItem(&d.Activities.Activities, index)
		return nil
	})
}

// Activity bullets behave like experience bullets.
func (s *Store) AddActivityBullet(parent int) error {
	return s.mutate(func(d *Document) error {
		return addBullet(d.Activities.Activities, parent, activityLines)
	})
}

func (s *Store) UpdateActivityBullet(parent, child int, value string) error {
	return s.mutate(func(d *Document) error {
		return updateBullet(d.Activities.Activities, parent, child, value, activityLines)
	})
}

func (s *Store) RemoveActivityBullet(parent, child int) {
	s.mutate(func(d *Document) error {
		removeBullet(d.Activities.Activities, parent, child, activityLines)
		return nil
	})
}

func activityLines(v *Activity) *[]string { return &v.Description }

// AddSkill appends a copy of item, or an empty skill group when item is nil.
func (s *Store) AddSkill(item *Skill) {
	s.mutate(func(d *Document) error {
		appendItem(&d.Skills.Skills, item, emptySkill)
		return nil
	})
}

// UpdateSkill merges p onto the skill group at index.
func (s *Store) UpdateSkill(index int, p SkillPatch) error {
	return s.mutate(func(d *Document) error {
		return updateItem(d.Skills.Skills, index, p.apply)
	})
}

// RemoveSkill deletes the skill group at index.
func (s *Store) RemoveSkill(index int) {
	s.mutate(func(d *Document) error {
		removeItem(&d.Skills.Skills, index)
		return nil
	})
}

// AddSkillEntry appends an empty skill to group parent. Skill entries are
// edited with UpdateSkillEntry and dropped with RemoveSkillEntry.
func (s *Store) AddSkillEntry(parent int) error {
	return s.mutate(func(d *Document) error {
		return addBullet(d.Skills.Skills, parent, skillEntries)
	})
}

func (s *Store) UpdateSkillEntry(parent, child int, value string) error {
	return s.mutate(func(d *Document) error {
		return updateBullet(d.Skills.Skills, parent, child, value, skillEntries)
	})
}

func (s *Store) RemoveSkillEntry(parent, child int) {
	s.mutate(func(d *Document) error {
		removeBullet(d.Skills.Skills, parent, child, skillEntries)
		return nil
	})
}

func skillEntries(v *Skill) *[]string { return &v.Skills }

// AddAchievement appends a copy of item, or an empty achievement when item is nil.
func (s *Store) AddAchievement(item *Achievement) {
	s.mutate(func(d *Document) error {
		appendItem(&d.Achievements.Achievements, item, emptyAchievement)
		return nil
	})
}

// UpdateAchievement merges p onto the achievement at index.
func (s *Store) UpdateAchievement(index int, p AchievementPatch) error {
	return s.mutate(func(d *Document) error {
		return updateItem(d.Achievements.Achievements, index, p.apply)
	})
}

// RemoveAchievement deletes the achievement at index.
func (s *Store) RemoveAchievement(index int) {
	s.mutate(func(d *Document) error {
		removeItem(&d.Achievements.Achievements, index)
		return nil
	})
}

// Achievement bullets behave like experience bullets.
func (s *Store) AddAchievementBullet(parent int) error {
	return s.mutate(func(d *Document) error {
		return addBullet(d.Achievements.Achievements, parent, achievementLines)
	})
}

func (s *Store) UpdateAchievementBullet(parent, child int, value string) error {
	return s.mutate(func(d *Document) error {
		return updateBullet(d.Achievements.Achievements, parent, child, value, achievementLines)
	})
}

func (s *Store) RemoveAchievementBullet(parent, child int) {
	s.mutate(func(d *Document) error {
		removeBullet(d.Achievements.Achievements, parent, child, achievementLines)
		return nil
	})
}

func achievementLines(v *Achievement) *[]string { return &v.Description }
