package entry

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprite-ai/refmark/internal/extract"
	"github.com/sprite-ai/refmark/internal/ingest"
	"github.com/sprite-ai/refmark/internal/marking"
	"github.com/sprite-ai/refmark/internal/model"
)

func span(path string, start, end int) *marking.Span {
	return &marking.Span{Path: path, Start: start, End: end}
}

func event(kind model.Kind, group string, line int) *model.Event {
	ev := &model.Event{Kind: kind, Name: kind.Title(), Group: model.GroupAttribute, CorrelationID: group}
	ev.AddMarking(span("A.java", line, line), span("A.java", line, line), nil, true)
	return ev
}

func TestBuildRenameAndChangeAttributeType(t *testing.T) {
	change := event(model.KindChangeAttributeType, "g1", 3)
	rename := event(model.KindRenameAttribute, "g1", 3)
	other := event(model.KindMoveClass, "", 9)

	e := Build([]*model.Event{change, rename, other}, "c1", []string{"c0"}, 100)

	require.Len(t, e.Refactorings, 3)
	assert.Same(t, change, e.Refactorings[0], "input order kept")
	assert.Equal(t, "Rename and Change Attribute Type", rename.Name)
	assert.False(t, rename.Hidden)
	assert.True(t, change.Hidden)
	assert.Len(t, rename.Markings, 2)
	assert.False(t, other.Hidden)

	vis := e.Visible()
	require.Len(t, vis, 2)
	assert.Same(t, rename, vis[0])

	for _, ev := range e.Refactorings {
		assert.Same(t, e, ev.Entry())
		assert.Equal(t, "c1", ev.CommitID())
		assert.Equal(t, int64(100), ev.Timestamp())
	}
}

func TestBuildElectionPriority(t *testing.T) {
	tests := []struct {
		name      string
		kinds     []model.Kind
		canonical int
		title     string
	}{
		{"rename only", []model.Kind{model.KindMoveAttribute, model.KindRenameAttribute}, 1, "Rename Attribute"},
		{"change only", []model.Kind{model.KindChangeAttributeType, model.KindMoveAttribute}, 0, "Change Attribute Type"},
		{"variable", []model.Kind{model.KindRenameVariable, model.KindChangeVariableType}, 1, "Rename and Change Variable Type"},
		{"first of kind wins", []model.Kind{model.KindRenameAttribute, model.KindRenameAttribute}, 0, "Rename Attribute"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var evs []*model.Event
			for i, k := range tt.kinds {
				evs = append(evs, event(k, "g", i+1))
			}
			Build(evs, "c", nil, 0)
			for i, ev := range evs {
				if i == tt.canonical {
					assert.False(t, ev.Hidden, "canonical hidden")
					assert.Equal(t, tt.title, ev.Name)
					assert.Len(t, ev.Markings, len(tt.kinds))
				} else {
					assert.True(t, ev.Hidden, "member %d not hidden", i)
				}
			}
		})
	}
}

func TestBuildUnmatchedGroupStaysVisible(t *testing.T) {
	evs := []*model.Event{
		event(model.KindMoveAttribute, "g", 1),
		event(model.KindPullUpAttribute, "g", 2),
		event(model.KindPushDownAttribute, "g", 3),
	}
	e := Build(evs, "c", nil, 0)
	assert.Len(t, e.Visible(), 3)
	for _, ev := range evs {
		assert.Len(t, ev.Markings, 1)
	}
}

func TestBuildSingletonsNeverMerge(t *testing.T) {
	a := event(model.KindRenameAttribute, "", 1)
	b := event(model.KindChangeAttributeType, "", 2)
	e := Build([]*model.Event{a, b}, "c", nil, 0)
	assert.Len(t, e.Visible(), 2)
	assert.Equal(t, "Rename Attribute", a.Name)
}

func TestBuildIsIdempotent(t *testing.T) {
	evs := []*model.Event{
		event(model.KindRenameAttribute, "g", 1),
		event(model.KindChangeAttributeType, "g", 2),
	}
	first := Build(evs, "c", nil, 0)
	markings := len(evs[0].Markings)

	second := Build(first.Refactorings, "c", nil, 0)
	assert.Equal(t, markings, len(evs[0].Markings), "rebuild appended markings again")
	assert.Len(t, second.Visible(), 1)
}

func TestDecodeEmpty(t *testing.T) {
	for _, in := range []string{"", "   \n\t"} {
		e, err := Decode([]byte(in), nil)
		assert.NoError(t, err)
		assert.Nil(t, e)
	}
}

func TestDecodeMalformed(t *testing.T) {
	e, err := Decode([]byte(`{"commitId": 12`), nil)
	assert.Nil(t, e)
	var de *DecodeError
	require.True(t, errors.As(err, &de), "got %T", err)
	assert.Error(t, de.Unwrap())
}

func roundTrip(t *testing.T, codec Codec) {
	t.Helper()
	evs := []*model.Event{
		event(model.KindRenameAttribute, "g", 1),
		event(model.KindChangeAttributeType, "g", 2),
	}
	evs[0].ElementBefore = model.Element("count : int")
	evs[0].Markings[0].Policy = marking.PolicyCollapse
	evs[0].Markings[0].Words = &marking.Words{Before: "Base"}
	orig := Build(evs, "c1", []string{"p1", "p2"}, 1700000000)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, orig, codec))

	back, err := Decode(buf.Bytes(), codec)
	require.NoError(t, err)
	require.NotNil(t, back)

	if diff := cmp.Diff(orig, back, cmpopts.IgnoreUnexported(model.Event{})); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	for _, ev := range back.Refactorings {
		assert.Same(t, back, ev.Entry())
	}
	assert.Len(t, back.Visible(), 1, "decode must not change folding")
}

func TestJSONRoundTrip(t *testing.T) {
	roundTrip(t, NewJSONCodec())
}

func TestYAMLRoundTrip(t *testing.T) {
	roundTrip(t, NewYAMLCodec())
}

func TestCodecFor(t *testing.T) {
	assert.Equal(t, ".yaml", CodecFor("yml").Extension())
	assert.Equal(t, ".json", CodecFor("json").Extension())
	assert.Equal(t, ".json", CodecFor("").Extension())
}

func TestBuilderFromDetections(t *testing.T) {
	attr := func(name, typ string) extract.Variable {
		return extract.Variable{Name: name, Type: typ, Class: "pkg.A",
			Range: &extract.CodeRange{File: "A.java", StartLine: 4, EndLine: 4}}
	}
	c := ingest.Commit{
		CommitID: "c7",
		Time:     70,
		Detections: []extract.Detection{
			{Type: "RENAME_ATTRIBUTE", GroupID: "g", Attributes: map[string]extract.Variable{
				"before": attr("a", "int"), "after": attr("b", "int"),
			}},
			{Type: "CHANGE_ATTRIBUTE_TYPE", GroupID: "g", Attributes: map[string]extract.Variable{
				"before": attr("b", "int"), "after": attr("b", "long"),
			}},
			{Type: "NOT_A_KIND"},
		},
	}
	e := NewBuilder(nil, nil).FromDetections(c)

	require.Len(t, e.Refactorings, 3)
	vis := e.Visible()
	require.Len(t, vis, 2)
	assert.Equal(t, "Rename and Change Attribute Type", vis[0].Name)
	assert.Len(t, e.Incomplete(), 1)
	assert.Equal(t, "c7", vis[1].CommitID())
}
