package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/faculty-loading-api/internal/dto"
	"github.com/noah-isme/faculty-loading-api/internal/models"
	"github.com/noah-isme/faculty-loading-api/internal/scheduler"
	"github.com/noah-isme/faculty-loading-api/pkg/export"
)

type renderStub struct {
	sheet export.Sheet
}

func (r *renderStub) Render(sheet export.Sheet) ([]byte, error) {
	r.sheet = sheet
	return []byte("%PDF-stub"), nil
}

func newLoadingFixture(pdf sheetRenderer) (*LoadingService, *externalLoadRepoStub) {
	roster := []models.FacultyMember{
		activeFaculty("alice", "u-alice", models.RankInstructor),
		activeFaculty("bob", "u-bob", models.RankFullProfessor),
	}
	adjunctName := "Guest Lecturer"
	adjunct := classMeeting("cm3", "s3", models.MeetingDaysWedSat, models.MeetingHoursPM3To5)
	adjunct.ForAdjunct = true
	adjunct.AdjunctName = &adjunctName

	external := &externalLoadRepoStub{loads: []models.ExternalLoad{{TermID: "term-1", FacultyMemberID: "bob"}}}
	svc := NewLoadingService(LoadingRepositories{
		Terms:   newTermRepoStub(models.Term{ID: "term-1", StartYear: 2024, Ordinal: models.OrdinalFirst, Status: models.TermPublished}),
		Faculty: &facultyRepoStub{members: roster},
		ClassMeetings: &meetingStore{meetings: []models.ClassMeeting{
			withFeedback(classMeeting("cm1", "s1", models.MeetingDaysMonThu, models.MeetingHoursAM7To9), "bob", models.FeedbackAccepted),
			withFeedback(classMeeting("cm2", "s2", models.MeetingDaysTueFri, models.MeetingHoursAM7To9), "bob", models.FeedbackAccepted),
			adjunct,
		}},
		ExternalLoads: external,
	}, LoadingConfig{Institution: "College of Computing"}, nil, pdf, nil)
	return svc, external
}

func TestLoadingServiceTermLoading(t *testing.T) {
	svc, _ := newLoadingFixture(nil)

	loading, err := svc.TermLoading(context.Background(), "term-1")
	require.NoError(t, err)
	require.Len(t, loading, 2)

	alice, bob := loading[0], loading[1]
	assert.Equal(t, "alice", alice.FacultyMemberID)
	assert.Zero(t, alice.AssignmentCount)
	assert.Equal(t, string(scheduler.LoadUnassigned), alice.LoadStatus)
	assert.NotNil(t, alice.ClassMeetings)
	assert.Equal(t, 3, alice.Minimum)

	assert.Equal(t, 2, bob.AssignmentCount)
	assert.Equal(t, string(scheduler.LoadMax), bob.LoadStatus)
	assert.True(t, bob.HasExternalLoad)
}

func TestLoadingServiceMySchedule(t *testing.T) {
	svc, _ := newLoadingFixture(nil)

	resp, err := svc.MySchedule(context.Background(), "term-1", "u-bob")
	require.NoError(t, err)
	assert.Equal(t, "term-1", resp.Term.ID)
	assert.Len(t, resp.Loading.ClassMeetings, 2)
	assert.True(t, resp.Loading.HasExternalLoad)

	_, err = svc.MySchedule(context.Background(), "term-1", "u-unknown")
	assert.Error(t, err)
}

func TestLoadingServiceExportCSV(t *testing.T) {
	svc, _ := newLoadingFixture(nil)

	out, err := svc.Export(context.Background(), "term-1", dto.ExportQuery{})
	require.NoError(t, err)
	assert.Equal(t, "text/csv", out.ContentType)
	assert.Equal(t, "loading-2024-first.csv", out.Filename)

	lines := strings.Split(strings.TrimSpace(string(out.Data)), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "Subject,Title,Section"))
	assert.Contains(t, lines[1], "Bob Test")
	assert.Contains(t, lines[1], "ACCEPTED")
	assert.Contains(t, lines[3], "Guest Lecturer")
}

func TestLoadingServiceExportPDF(t *testing.T) {
	pdf := &renderStub{}
	svc, _ := newLoadingFixture(pdf)

	out, err := svc.Export(context.Background(), "term-1", dto.ExportQuery{Format: "PDF"})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", out.ContentType)
	assert.Equal(t, "College of Computing Faculty Loading", pdf.sheet.Title)
	assert.Equal(t, "2024-2025 FIRST (PUBLISHED)", pdf.sheet.Subtitle)
	assert.Len(t, pdf.sheet.Rows, 3)

	_, err = svc.Export(context.Background(), "term-1", dto.ExportQuery{Format: "xlsx"})
	assert.Error(t, err)
}
