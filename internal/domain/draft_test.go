package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLooseInt_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want LooseInt
	}{
		{name: "number", in: `3`, want: 3},
		{name: "numeric string", in: `"7"`, want: 7},
		{name: "float string", in: `"2.9"`, want: 2},
		{name: "empty string", in: `""`, want: 0},
		{name: "null", in: `null`, want: 0},
		{name: "garbage string", in: `"abc"`, want: 0},
		{name: "negative", in: `-1`, want: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n LooseInt
			require.NoError(t, json.Unmarshal([]byte(tt.in), &n))
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestLooseFloat_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantValue float64
		wantValid bool
	}{
		{name: "number", in: `12.5`, wantValue: 12.5, wantValid: true},
		{name: "numeric string", in: `"12.5"`, wantValue: 12.5, wantValid: true},
		{name: "integer string", in: `"-46"`, wantValue: -46, wantValid: true},
		{name: "empty string", in: `""`},
		{name: "null", in: `null`},
		{name: "garbage string", in: `"almost 12"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f LooseFloat
			require.NoError(t, json.Unmarshal([]byte(tt.in), &f))
			assert.Equal(t, tt.wantValid, f.Valid)
			assert.Equal(t, tt.wantValue, f.Value)
			if tt.wantValid {
				require.NotNil(t, f.Ptr())
				assert.Equal(t, tt.wantValue, *f.Ptr())
			} else {
				assert.Nil(t, f.Ptr())
			}
		})
	}
}

func TestEventDraft_AddSection(t *testing.T) {
	var d EventDraft

	d1, temp1 := d.AddSection("Starters", "", 0)
	d2, temp2 := d1.AddSection("Mains", "img.png", 1)

	require.Len(t, d2.Sections, 2)
	assert.NotEqual(t, temp1, temp2)
	assert.Equal(t, temp1, d2.Sections[0].TempID)
	assert.Equal(t, temp2, d2.Sections[1].TempID)
	assert.Equal(t, "Mains", d2.Sections[1].Title)

	// Earlier snapshots are untouched.
	assert.Empty(t, d.Sections)
	require.Len(t, d1.Sections, 1)
}

func TestEventDraft_RemoveSection_OrphansItems(t *testing.T) {
	d, temp := EventDraft{}.AddSection("Desserts", "", 0)
	d = d.AddItem(ItemDraft{Title: "Tiramisu", SectionRef: temp})
	d = d.AddItem(ItemDraft{Title: "Water"})

	before := d
	after := d.RemoveSection(0)

	require.Empty(t, after.Sections)
	// The referencing item survives with its ref cleared.
	require.Len(t, after.Items, 2)
	assert.Equal(t, "Tiramisu", after.Items[0].Title)
	assert.Empty(t, after.Items[0].SectionRef)
	assert.Empty(t, after.Items[1].SectionRef)

	// Original snapshot keeps the ref.
	assert.Equal(t, temp, before.Items[0].SectionRef)
}

func TestEventDraft_RemoveSection_OutOfRange(t *testing.T) {
	d, _ := EventDraft{}.AddSection("A", "", 0)
	assert.Len(t, d.RemoveSection(-1).Sections, 1)
	assert.Len(t, d.RemoveSection(5).Sections, 1)
}

func TestEventDraft_UpdateSection_PreservesTempID(t *testing.T) {
	d, temp := EventDraft{}.AddSection("Old", "", 0)
	d = d.UpdateSection(0, SectionDraft{TempID: "ignored", Title: "New", Order: 3})

	require.Len(t, d.Sections, 1)
	assert.Equal(t, temp, d.Sections[0].TempID)
	assert.Equal(t, "New", d.Sections[0].Title)
	assert.Equal(t, LooseInt(3), d.Sections[0].Order)
}

func TestEventDraft_ItemOps(t *testing.T) {
	d := EventDraft{}.AddItem(ItemDraft{Title: "Soup"}).AddItem(ItemDraft{Title: "Bread"})

	updated := d.UpdateItem(1, ItemDraft{Title: "Focaccia"})
	require.Len(t, updated.Items, 2)
	assert.Equal(t, "Focaccia", updated.Items[1].Title)
	assert.Equal(t, "Bread", d.Items[1].Title)

	removed := updated.RemoveItem(0)
	require.Len(t, removed.Items, 1)
	assert.Equal(t, "Focaccia", removed.Items[0].Title)

	assert.Len(t, updated.RemoveItem(9).Items, 2)
}

func TestEventDraft_DanglingItemRefs(t *testing.T) {
	d, temp := EventDraft{}.AddSection("Mains", "", 0)
	d = d.AddItem(ItemDraft{Title: "Pasta", SectionRef: temp})
	d = d.AddItem(ItemDraft{Title: "Mystery", SectionRef: "tmp-gone"})
	d = d.AddItem(ItemDraft{Title: "Water"})

	refs := d.DanglingItemRefs()
	require.Len(t, refs, 1)
	assert.Equal(t, "tmp-gone", refs[0])
}

func TestEventDraft_EncodeDecodeRoundTrip(t *testing.T) {
	d, temp := EventDraft{}.AddSection("Starters", "", 0)
	d = d.AddItem(ItemDraft{Title: "Olives", SectionRef: temp})

	raw, err := d.Encode()
	require.NoError(t, err)

	var got EventDraft
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Len(t, got.Sections, 1)
	assert.Equal(t, temp, got.Sections[0].TempID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, temp, got.Items[0].SectionRef)
}

func TestDecodeDrafts_Defensive(t *testing.T) {
	t.Run("sections malformed", func(t *testing.T) {
		got := DecodeSectionDrafts([]byte(`{"not":"a list"}`))
		require.NotNil(t, got)
		assert.Empty(t, got)
	})
	t.Run("sections empty input", func(t *testing.T) {
		got := DecodeSectionDrafts(nil)
		require.NotNil(t, got)
		assert.Empty(t, got)
	})
	t.Run("sections valid with loose order", func(t *testing.T) {
		got := DecodeSectionDrafts([]byte(`[{"temp_id":"tmp-1","title":"A","order":"2"}]`))
		require.Len(t, got, 1)
		assert.Equal(t, LooseInt(2), got[0].Order)
	})
	t.Run("items malformed", func(t *testing.T) {
		assert.Empty(t, DecodeItemDrafts([]byte(`42`)))
	})
	t.Run("items json null", func(t *testing.T) {
		got := DecodeItemDrafts([]byte(`null`))
		require.NotNil(t, got)
		assert.Empty(t, got)
	})
	t.Run("speakers malformed", func(t *testing.T) {
		assert.Empty(t, DecodeSpeakerDrafts([]byte(`"oops"`)))
	})
	t.Run("timeline valid", func(t *testing.T) {
		got := DecodeTimelineDrafts([]byte(`[{"time":"18:00","title":"Doors","order":1}]`))
		require.Len(t, got, 1)
		assert.Equal(t, "Doors", got[0].Title)
	})
	t.Run("participants malformed", func(t *testing.T) {
		assert.Empty(t, DecodeParticipantDrafts([]byte(`{`)))
	})
	t.Run("dates valid", func(t *testing.T) {
		got := DecodeDateList([]byte(`["2026-09-01","2026-09-02"]`))
		assert.Equal(t, []string{"2026-09-01", "2026-09-02"}, got)
	})
	t.Run("dates malformed", func(t *testing.T) {
		got := DecodeDateList([]byte(`"2026-09-01"`))
		require.NotNil(t, got)
		assert.Empty(t, got)
	})
}
