package timex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertNumberToDateTimeString_Ordinals(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "1st"}, {2, "2nd"}, {3, "3rd"}, {4, "4th"},
		{11, "11th"}, {12, "12th"}, {13, "13th"},
		{21, "21st"}, {22, "22nd"}, {23, "23rd"},
		{30, "30th"}, {31, "31st"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ConvertNumberToDateTimeString(tt.n, true))
	}
}

func TestConvertNumberToDateTimeString_OrdinalOutOfRange(t *testing.T) {
	assert.Equal(t, "0", ConvertNumberToDateTimeString(0, true))
	assert.Equal(t, "32", ConvertNumberToDateTimeString(32, true))
	assert.Equal(t, "-1", ConvertNumberToDateTimeString(-1, true))
}

func TestConvertNumberToDateTimeString_Hours(t *testing.T) {
	assert.Equal(t, "0:00", ConvertNumberToDateTimeString(0, false))
	assert.Equal(t, "9:00", ConvertNumberToDateTimeString(9, false))
	assert.Equal(t, "24:00", ConvertNumberToDateTimeString(24, false))
	assert.Equal(t, "25", ConvertNumberToDateTimeString(25, false))
	assert.Equal(t, "-3", ConvertNumberToDateTimeString(-3, false))
}

func TestIsRelativeTime(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		timex     string
		want      bool
	}{
		{"tomorrow keyword", "book a room tomorrow", "2024-01-16", true},
		{"next keyword", "schedule it next tuesday", "XXXX-WXX-2", true},
		{"ago keyword", "the meeting two hours ago", "T14:00", true},
		{"present ref sentinel", "start it", PresentRef, true},
		{"plain absolute date", "meet on january 15", "2024-01-15", false},
		{"plain clock time", "meet at 4pm", "T16:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRelativeTime(tt.utterance, "", tt.timex))
		})
	}
}

func TestParseSignature(t *testing.T) {
	sig, err := ParseSignature("2024-01-15T18:30")
	require.NoError(t, err)
	assert.True(t, sig.HasDate)
	assert.True(t, sig.HasTime)
	assert.True(t, sig.Definite)
	assert.Equal(t, 2024, sig.Year)
	assert.Equal(t, time.January, sig.Month)
	assert.Equal(t, 15, sig.Day)
	assert.Equal(t, 18, sig.Hour)
	assert.Equal(t, 30, sig.Minute)

	sig, err = ParseSignature("T06:00")
	require.NoError(t, err)
	assert.False(t, sig.HasDate)
	assert.True(t, sig.HasTime)
	assert.Equal(t, 6, sig.Hour)

	sig, err = ParseSignature("XXXX-WXX-3")
	require.NoError(t, err)
	assert.True(t, sig.HasDate)
	assert.False(t, sig.Definite)

	sig, err = ParseSignature(PresentRef)
	require.NoError(t, err)
	assert.True(t, sig.PresentRef)

	_, err = ParseSignature("")
	assert.Error(t, err)
}

func TestResolve_SingleDefiniteDateTime(t *testing.T) {
	now := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)

	res := Resolve([]Candidate{
		{Value: "2024-01-15 18:00:00", Timex: "2024-01-15T18:00"},
	}, "meet on january 15 at 6pm", now)

	require.Len(t, res.Instants, 1)
	assert.Empty(t, res.Alternatives)
	assert.True(t, res.Instants[0].IsDefinite)
	assert.Equal(t, time.Date(2024, 1, 15, 18, 0, 0, 0, time.UTC), res.Instants[0].Value)
}

func TestResolve_AmPmVariantsBecomeAlternatives(t *testing.T) {
	now := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)

	res := Resolve([]Candidate{
		{Value: "06:00", Timex: "T06:00"},
		{Value: "18:00", Timex: "T18:00"},
	}, "book a table at 6", now)

	require.Len(t, res.Instants, 2)
	require.Len(t, res.Alternatives, 2)
	assert.Equal(t, "6:00 AM", res.Alternatives[0])
	assert.Equal(t, "6:00 PM", res.Alternatives[1])
	// Time-only instants anchor to today's date.
	assert.Equal(t, time.Date(2024, 1, 10, 6, 0, 0, 0, time.UTC), res.Instants[0].Value)
	assert.Equal(t, time.Date(2024, 1, 10, 18, 0, 0, 0, time.UTC), res.Instants[1].Value)
}

func TestResolve_DateAndTimeFragmentsAreNotAlternatives(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	// "review tomorrow at 4pm": one date fragment plus one pinned time
	// fragment describe a single combined instant, not rival readings.
	res := Resolve([]Candidate{
		{Value: "2024-01-16", Timex: "2024-01-16"},
		{Value: "16:00", Timex: "T16:00"},
	}, "review tomorrow at 4pm", now)

	require.Len(t, res.Instants, 2)
	assert.Empty(t, res.Alternatives)
}

func TestResolve_MixedFragmentsSurfaceOnlyClockAmbiguity(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	res := Resolve([]Candidate{
		{Value: "2024-01-16", Timex: "2024-01-16"},
		{Value: "06:00", Timex: "T06:00"},
		{Value: "18:00", Timex: "T18:00"},
	}, "dinner tomorrow at 6", now)

	require.Len(t, res.Instants, 3)
	require.Len(t, res.Alternatives, 2)
	assert.Equal(t, "6:00 AM", res.Alternatives[0])
	assert.Equal(t, "6:00 PM", res.Alternatives[1])
}

func TestResolve_DuplicateSignaturesCollapse(t *testing.T) {
	now := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)

	res := Resolve([]Candidate{
		{Value: "16:00", Timex: "T16:00"},
		{Value: "16:00", Timex: "T16:00"},
	}, "at 4pm", now)

	assert.Len(t, res.Instants, 1)
	assert.Empty(t, res.Alternatives)
}

func TestResolve_UnparseableCandidateSkipped(t *testing.T) {
	now := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)

	res := Resolve([]Candidate{
		{Value: "not a time", Timex: "garbage"},
		{Value: "16:00", Timex: "T16:00"},
	}, "at 4pm", now)

	require.Len(t, res.Instants, 1)
	assert.Empty(t, res.Alternatives)
	assert.Equal(t, 16, res.Instants[0].Value.Hour())
}

func TestResolve_PresentRef(t *testing.T) {
	now := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)

	res := Resolve([]Candidate{{Value: "now", Timex: PresentRef}}, "start now", now)

	require.Len(t, res.Instants, 1)
	assert.True(t, res.Instants[0].IsRelative)
	assert.Equal(t, now, res.Instants[0].Value)
}

func TestSignatureDescribe(t *testing.T) {
	sig, err := ParseSignature("2024-01-21T18:00")
	require.NoError(t, err)
	assert.Equal(t, "January 21st at 6:00 PM", sig.Describe())

	sig, err = ParseSignature("2024-01-03")
	require.NoError(t, err)
	assert.Equal(t, "January 3rd", sig.Describe())
}
