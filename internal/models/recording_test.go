package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }

func TestSegmentListValueScan(t *testing.T) {
	segments := SegmentList{
		{Start: 0.0, End: 1.5, Text: "hello", Confidence: floatPtr(0.92)},
		{Start: 1.5, End: 3.0, Text: "world"},
	}

	value, err := segments.Value()
	require.NoError(t, err)

	var restored SegmentList
	require.NoError(t, restored.Scan(value))

	require.Len(t, restored, 2)
	assert.Equal(t, "hello", restored[0].Text)
	assert.Equal(t, 1.5, restored[0].End)
	require.NotNil(t, restored[0].Confidence)
	assert.InDelta(t, 0.92, *restored[0].Confidence, 1e-9)
	assert.Nil(t, restored[1].Confidence)
}

func TestSegmentListScanNil(t *testing.T) {
	var segments SegmentList
	require.NoError(t, segments.Scan(nil))
	assert.Nil(t, segments)

	value, err := segments.Value()
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestSegmentListScanString(t *testing.T) {
	// sqlite drivers hand JSON columns back as TEXT
	var segments SegmentList
	require.NoError(t, segments.Scan(`[{"start":0,"end":1,"text":"hi"}]`))
	require.Len(t, segments, 1)
	assert.Equal(t, "hi", segments[0].Text)
}

func TestSegmentListValidate(t *testing.T) {
	tests := []struct {
		name     string
		segments SegmentList
		wantErr  bool
	}{
		{
			name:     "empty is valid",
			segments: SegmentList{},
		},
		{
			name: "ordered timeline",
			segments: SegmentList{
				{Start: 0, End: 1, Text: "a"},
				{Start: 1, End: 2, Text: "b"},
				{Start: 2, End: 2, Text: "c"},
			},
		},
		{
			name: "equal start times allowed",
			segments: SegmentList{
				{Start: 1, End: 2, Text: "a"},
				{Start: 1, End: 3, Text: "b"},
			},
		},
		{
			name:     "negative start rejected",
			segments: SegmentList{{Start: -0.5, End: 1, Text: "a"}},
			wantErr:  true,
		},
		{
			name:     "end before start rejected",
			segments: SegmentList{{Start: 2, End: 1, Text: "a"}},
			wantErr:  true,
		},
		{
			name: "decreasing starts rejected",
			segments: SegmentList{
				{Start: 5, End: 6, Text: "a"},
				{Start: 4, End: 7, Text: "b"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.segments.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
