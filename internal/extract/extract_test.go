package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hallTender = "Objective: build a community hall. Scope: construction of a hall in Gauteng. " +
	"Deadline: 30 days. Minimum 5 years experience required. BBBEE level 2 preferred."

func TestExtractEmptyText(t *testing.T) {
	t.Parallel()

	got := Extract("")

	assert.True(t, got.IsEmpty())
	assert.Empty(t, got.EligibilityCriteria)
	assert.Empty(t, got.KeyRequirements)
	assert.Equal(t, "", got.RequirementText())
}

func TestExtractHallTender(t *testing.T) {
	t.Parallel()

	got := Extract(hallTender)

	assert.Equal(t, "build a community hall", got.Objective)
	// the scope window needs at least 50 characters
	assert.Empty(t, got.Scope)
	// "30 days" is shorter than the deadline window
	assert.Empty(t, got.Deadline)
	assert.Empty(t, got.Budget)
	assert.Empty(t, got.Location)
	assert.Empty(t, got.EligibilityCriteria)
	assert.Equal(t, []string{"Minimum 5 years experience required"}, got.KeyRequirements)
}

func TestExtractFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		text  string
		field func(Requirements) string
		want  string
	}{
		{
			name:  "objective spans newline after label",
			text:  "OBJECTIVE:\nDeliver learner transport services",
			field: func(r Requirements) string { return r.Objective },
			want:  "Deliver learner transport services",
		},
		{
			name:  "purpose used when objective is absent",
			text:  "The purpose of this bid is to appoint a cleaning contractor. Other text.",
			field: func(r Requirements) string { return r.Objective },
			want:  "of this bid is to appoint a cleaning contractor",
		},
		{
			name:  "introduction needs fifty characters",
			text:  "Introduction: short",
			field: func(r Requirements) string { return r.Objective },
			want:  "",
		},
		{
			name:  "scope window",
			text:  "Scope of work: supply and installation of solar powered street lights across the district.",
			field: func(r Requirements) string { return r.Scope },
			want:  "of work: supply and installation of solar powered street lights across the district",
		},
		{
			name:  "labelled deadline",
			text:  "Deadline: 12 April 2025 at 11:00",
			field: func(r Requirements) string { return r.Deadline },
			want:  "12 April 2025 at 11:00",
		},
		{
			name:  "numeric date after submission",
			text:  "The submission of bids closes on 15/03/2025 at noon",
			field: func(r Requirements) string { return r.Deadline },
			want:  "15/03/2025",
		},
		{
			name:  "numeric date after closing",
			text:  "Closing date 1-4-25",
			field: func(r Requirements) string { return r.Deadline },
			want:  "1-4-25",
		},
		{
			name:  "month date joins both groups",
			text:  "A briefing session is held on 15 March 2025",
			field: func(r Requirements) string { return r.Deadline },
			want:  "15 March 2025 March",
		},
		{
			name:  "labelled budget",
			text:  "Budget: R 2 500 000 excluding VAT",
			field: func(r Requirements) string { return r.Budget },
			want:  "R 2 500 000 excluding VAT",
		},
		{
			name:  "currency prefixed amount",
			text:  "Estimated at R 1,500,000",
			field: func(r Requirements) string { return r.Budget },
			want:  "R 1,500,000",
		},
		{
			name:  "labelled location",
			text:  "Location: Pretoria Central, Gauteng.",
			field: func(r Requirements) string { return r.Location },
			want:  "Pretoria Central, Gauteng",
		},
		{
			name:  "province used when location is absent",
			text:  "Province: Western Cape region",
			field: func(r Requirements) string { return r.Location },
			want:  "Western Cape region",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.field(Extract(tt.text)))
		})
	}
}

func TestExtractListCaps(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	for i := 0; i < 30; i++ {
		b.WriteString("Bidders must have a valid tax clearance and be eligible. ")
	}

	got := Extract(b.String())

	require.Len(t, got.EligibilityCriteria, maxEligibilityCriteria)
	require.Len(t, got.KeyRequirements, maxKeyRequirements)
	assert.Equal(t, "Bidders must have a valid tax clearance and be eligible", got.EligibilityCriteria[0])
}

func TestExtractListsKeepDocumentOrder(t *testing.T) {
	t.Parallel()

	text := "Bidders shall attend the briefing. Only eligible firms may bid. The specification is attached."
	got := Extract(text)

	assert.Equal(t, []string{"Only eligible firms may bid"}, got.EligibilityCriteria)
	assert.Equal(t, []string{
		"Bidders shall attend the briefing",
		"The specification is attached",
	}, got.KeyRequirements)
	assert.Equal(t,
		"only eligible firms may bid bidders shall attend the briefing the specification is attached",
		got.RequirementText(),
	)
}

func TestExtractIsIdempotent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Extract(hallTender), Extract(hallTender))
}
