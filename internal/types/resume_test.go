package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkills_UnmarshalList(t *testing.T) {
	var r ResumeRecord
	err := json.Unmarshal([]byte(`{"skills": ["Python", "Go"]}`), &r)
	require.NoError(t, err)
	assert.Equal(t, Skills{"Python", "Go"}, r.Skills)
}

func TestSkills_UnmarshalLegacyWrapper(t *testing.T) {
	var r ResumeRecord
	err := json.Unmarshal([]byte(`{"skills": {"skills": ["SQL"]}}`), &r)
	require.NoError(t, err)
	assert.Equal(t, Skills{"SQL"}, r.Skills)
}

func TestSkills_UnmarshalNull(t *testing.T) {
	var r ResumeRecord
	err := json.Unmarshal([]byte(`{"skills": null}`), &r)
	require.NoError(t, err)
	assert.Nil(t, r.Skills)
}

func TestSkills_UnmarshalInvalid(t *testing.T) {
	var r ResumeRecord
	err := json.Unmarshal([]byte(`{"skills": 42}`), &r)
	assert.Error(t, err)
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", PersonalDetails{FirstName: "Ada", LastName: "Lovelace"}.FullName())
	assert.Equal(t, "Ada", PersonalDetails{FirstName: " Ada "}.FullName())
	assert.Equal(t, "Lovelace", PersonalDetails{LastName: "Lovelace"}.FullName())
	assert.Equal(t, "", PersonalDetails{}.FullName())
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, SplitLines(""))
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\nb"))
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\r\n\r\n  \nb\n"))
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\rb"))
	assert.Nil(t, SplitLines("\n\n   \n"))
}

func TestClone_IsDeep(t *testing.T) {
	orig := &ResumeRecord{
		Education: []Education{{University: "MIT"}},
		Skills:    Skills{"Go"},
	}
	cp := orig.Clone()
	cp.Education[0].University = "CMU"
	cp.Skills[0] = "Rust"

	assert.Equal(t, "MIT", orig.Education[0].University)
	assert.Equal(t, "Go", orig.Skills[0])
	assert.Nil(t, (*ResumeRecord)(nil).Clone())
}

func TestValidate_EmptyRecordIsValid(t *testing.T) {
	r := &ResumeRecord{}
	assert.NoError(t, r.Validate())
}

func TestValidate_NilRecord(t *testing.T) {
	var r *ResumeRecord
	err := r.Validate()
	require.Error(t, err)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "resume", verr.Fields[0].Field)
}

func TestValidate_BadEmail(t *testing.T) {
	r := &ResumeRecord{Personal: PersonalDetails{Email: "not-an-email"}}
	err := r.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "Personal.Email", verr.Fields[0].Field)
	assert.Contains(t, verr.Error(), "valid email")
}

func TestValidate_NestedEntries(t *testing.T) {
	r := &ResumeRecord{
		Education: []Education{
			{University: "MIT", StartYear: 2020, GPA: 4.0},
			{University: "CMU", GPA: -1},
		},
		WorkExperience: []WorkExperience{{EndYear: 100000}},
	}
	err := r.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.Contains(t, fields, "Education[1].GPA")
	assert.Contains(t, fields, "WorkExperience[0].EndYear")
}

func TestCreateJobRequest_Validate(t *testing.T) {
	ok := &CreateJobRequest{Name: "Backend Engineer", URL: "https://example.com/jobs/1"}
	assert.NoError(t, ok.Validate())

	missing := &CreateJobRequest{}
	assert.Error(t, missing.Validate())

	badURL := &CreateJobRequest{Name: "x", URL: "not a url"}
	assert.Error(t, badURL.Validate())
}
