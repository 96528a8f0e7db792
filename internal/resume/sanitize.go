package resume

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrNotObject is returned when an untrusted payload is not a JSON object.
var ErrNotObject = errors.New("resume payload is not a JSON object")

// ParseUntrusted decodes payload and sanitizes it into a Document.
func ParseUntrusted(payload []byte) (Document, error) {
	var raw any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Document{}, fmt.Errorf("decode resume: %w", err)
	}
	if _, ok := raw.(map[string]any); !ok {
		return Document{}, ErrNotObject
	}
	return Sanitize(raw), nil
}

// Sanitize coerces decoded JSON of unknown provenance into a Document. It
// never fails: missing or mistyped strings become "", lists become empty
// (never nil), numbers and booleans are rendered as text, a lone string
// where a list of lines is expected becomes a one-line list, and list
// entries that are not objects are dropped.
func Sanitize(raw any) Document {
	m := asObject(raw)
	return Document{
		Title:         text(m["title"]),
		SocialHandles: objects(m["socialHandles"], sanitizeSocialHandle),
		WorkExperience: WorkExperienceSection{
			Title:      sectionTitle(m["workExperience"]),
			Experience: objects(sectionItems(m["workExperience"], "experience"), sanitizeExperience),
		},
		Projects: ProjectsSection{
			Title:    sectionTitle(m["projects"]),
			Projects: objects(sectionItems(m["projects"], "projects"), sanitizeProject),
		},
		Education: EducationSection{
			Title:     sectionTitle(m["education"]),
			Education: objects(sectionItems(m["education"], "education"), sanitizeEducation),
		},
		Activities: ActivitiesSection{
			Title:      sectionTitle(m["activities"]),
			Activities: objects(sectionItems(m["activities"], "activities"), sanitizeActivity),
		},
		Skills: SkillsSection{
			Title:  sectionTitle(m["skills"]),
			Skills: objects(sectionItems(m["skills"], "skills"), sanitizeSkill),
		},
		Achievements: AchievementsSection{
			Title:        sectionTitle(m["achievements"]),
			Achievements: objects(sectionItems(m["achievements"], "achievements"), sanitizeAchievement),
		},
	}
}

func sanitizeSocialHandle(m map[string]any) SocialHandle {
	return SocialHandle{Label: text(m["label"]), Link: text(m["link"])}
}

func sanitizeExperience(m map[string]any) Experience {
	return Experience{
		Company:     text(m["company"]),
		JobTitle:    text(m["jobTitle"]),
		Location:    text(m["location"]),
		StartDate:   text(m["startDate"]),
		EndDate:     text(m["endDate"]),
		Description: lines(m["description"]),
	}
}

func sanitizeProject(m map[string]any) Project {
	return Project{
		Name:        text(m["name"]),
		Link:        text(m["link"]),
		TechStack:   text(m["techStack"]),
		StartDate:   text(m["startDate"]),
		EndDate:     text(m["endDate"]),
		Description: lines(m["description"]),
	}
}

func sanitizeEducation(m map[string]any) Education {
	return Education{
		Institution: text(m["institution"]),
		Degree:      text(m["degree"]),
		Location:    text(m["location"]),
		StartDate:   text(m["startDate"]),
		EndDate:     text(m["endDate"]),
		Grade:       text(m["grade"]),
		Description: lines(m["description"]),
	}
}

func sanitizeActivity(m map[string]any) Activity {
	return Activity{
		Name:        text(m["name"]),
		Role:        text(m["role"]),
		StartDate:   text(m["startDate"]),
		EndDate:     text(m["endDate"]),
		Description: lines(m["description"]),
	}
}

func sanitizeSkill(m map[string]any) Skill {
	return Skill{Category: text(m["category"]), Skills: lines(m["skills"])}
}

func sanitizeAchievement(m map[string]any) Achievement {
	return Achievement{
		Title:       text(m["title"]),
		Link:        text(m["link"]),
		Date:        text(m["date"]),
		Description: lines(m["description"]),
	}
}

func asObject(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func sectionTitle(v any) string {
	return text(asObject(v)["title"])
}

// sectionItems accepts either {title, <key>: [...]} or a bare list.
func sectionItems(v any, key string) any {
	if list, ok := v.([]any); ok {
		return list
	}
	return asObject(v)[key]
}

func objects[T any](v any, convert func(map[string]any) T) []T {
	list, _ := v.([]any)
	out := make([]T, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, convert(m))
		}
	}
	return out
}

func text(v any) string {
	s, _ := scalar(v)
	return s
}

func lines(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := scalar(item); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{t}
	default:
		return []string{}
	}
}

func scalar(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}
