package errors

import (
	"strings"
	"testing"

	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/resume"
)

func TestValidateDocument(t *testing.T) {
	cases := []struct {
		name    string
		doc     *resume.Document
		wantErr bool
	}{
		{"nil document", nil, true},
		{"empty document", &resume.Document{}, false},
		{
			"complete document",
			&resume.Document{
				Summary:    "Backend engineer.",
				Experience: []resume.ExperienceEntry{{Company: "Acme", Role: "Engineer"}},
				Education:  []resume.EducationEntry{{School: "ETH", Degree: "MSc"}},
				Languages:  []resume.LanguageEntry{{Language: "German"}},
			},
			false,
		},
		{
			"experience without company or role",
			&resume.Document{Experience: []resume.ExperienceEntry{{Location: "Bern"}}},
			true,
		},
		{
			"education without school or degree",
			&resume.Document{Education: []resume.EducationEntry{{Start: "2019"}}},
			true,
		},
		{
			"language without name",
			&resume.Document{Languages: []resume.LanguageEntry{{Level: "fluent"}}},
			true,
		},
		{
			"summary with control characters",
			&resume.Document{Summary: "hello\x00world"},
			true,
		},
		{
			"summary with newlines and tabs",
			&resume.Document{Summary: "line one\nline two\tindent"},
			false,
		},
		{
			"oversized summary",
			&resume.Document{Summary: strings.Repeat("x", maxFieldLen+1)},
			true,
		},
		{
			"task with control characters",
			&resume.Document{Experience: []resume.ExperienceEntry{
				{Company: "Acme", Tasks: []string{"fine", "bad\x1b[31m"}},
			}},
			true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateDocument(tc.doc)
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateDocument() error = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidDocument {
				t.Errorf("validation errors must carry %s, got %s", ErrCodeInvalidDocument, GetCode(err))
			}
		})
	}
}
