package sink

import (
	"fmt"
	"strings"

	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/resume"
)

// chipsPerRow mirrors the height model's chip grouping: skill and hobby
// chips lay out in fixed-size rows, and a row is the atomic item.
const chipsPerRow = 4

// SectionTitle returns the display title for a section identifier.
func SectionTitle(sectionID string) string {
	switch sectionID {
	case resume.SectionSummary:
		return "Profile"
	case resume.SectionExperience:
		return "Work Experience"
	case resume.SectionEducation:
		return "Education"
	case resume.SectionSkills:
		return "Skills"
	case resume.SectionLanguages:
		return "Languages"
	case resume.SectionHobbies:
		return "Interests"
	case resume.SectionSignature:
		return "Signature"
	}
	return sectionID
}

// SectionItems returns the textual form of each atomic layout item of a
// section, in item order. The item count always matches the height
// model's count for the same section, so a descriptor's item ranges index
// directly into this slice.
func SectionItems(doc *resume.Document, sectionID string) []string {
	switch sectionID {
	case resume.SectionSummary:
		if doc.Summary == "" {
			return nil
		}
		return []string{doc.Summary}
	case resume.SectionExperience:
		return experienceItems(doc.Experience)
	case resume.SectionEducation:
		return educationItems(doc.Education)
	case resume.SectionSkills:
		return chipRows(doc.Skills)
	case resume.SectionHobbies:
		return chipRows(doc.Hobbies)
	case resume.SectionLanguages:
		return languageItems(doc.Languages)
	case resume.SectionSignature:
		return signatureItem(doc.Signature)
	}
	return nil
}

func experienceItems(entries []resume.ExperienceEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		var b strings.Builder
		fmt.Fprintf(&b, "%s — %s", e.Role, e.Company)
		if e.Location != "" {
			fmt.Fprintf(&b, ", %s", e.Location)
		}
		if e.Start != "" || e.End != "" {
			fmt.Fprintf(&b, "\n%s – %s", e.Start, orPresent(e.End))
		}
		for _, task := range e.Tasks {
			fmt.Fprintf(&b, "\n• %s", task)
		}
		out[i] = b.String()
	}
	return out
}

func educationItems(entries []resume.EducationEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		s := fmt.Sprintf("%s — %s", e.Degree, e.School)
		if e.Start != "" || e.End != "" {
			s += fmt.Sprintf("\n%s – %s", e.Start, orPresent(e.End))
		}
		out[i] = s
	}
	return out
}

func chipRows(chips []string) []string {
	if len(chips) == 0 {
		return nil
	}
	rows := make([]string, 0, (len(chips)+chipsPerRow-1)/chipsPerRow)
	for start := 0; start < len(chips); start += chipsPerRow {
		end := start + chipsPerRow
		if end > len(chips) {
			end = len(chips)
		}
		rows = append(rows, strings.Join(chips[start:end], " · "))
	}
	return rows
}

func languageItems(entries []resume.LanguageEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		if e.Level != "" {
			out[i] = fmt.Sprintf("%s — %s", e.Language, e.Level)
		} else {
			out[i] = e.Language
		}
	}
	return out
}

func signatureItem(sig *resume.Signature) []string {
	if sig == nil {
		return nil
	}
	parts := make([]string, 0, 2)
	if sig.Place != "" {
		parts = append(parts, sig.Place)
	}
	if sig.Date != "" {
		parts = append(parts, sig.Date)
	}
	return []string{strings.Join(parts, ", ")}
}

func splitLines(s string) []string {
	return strings.Split(s, "\n")
}

func orPresent(end string) string {
	if end == "" {
		return "present"
	}
	return end
}
