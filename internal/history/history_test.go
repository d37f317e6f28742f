package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprite-ai/refmark/internal/model"
)

func method(before, after string) *model.Event {
	return &model.Event{Kind: model.KindRenameMethod, Group: model.GroupMethod, NameBefore: before, NameAfter: after}
}

func class(before, after string) *model.Event {
	return &model.Event{Kind: model.KindRenameClass, Group: model.GroupClass, NameBefore: before, NameAfter: after}
}

func commit(id string, time int64, evs ...*model.Event) *model.Entry {
	e := &model.Entry{CommitID: id, Time: time, Refactorings: evs}
	e.AttachEvents()
	return e
}

func TestMethodRenameChain(t *testing.T) {
	first := method("A.foo()", "A.bar()")
	second := method("A.bar()", "A.baz()")

	c := New().FoldAll([]*model.Entry{
		commit("c1", 1, first),
		commit("c2", 2, second),
	})

	assert.Equal(t, []string{"A.baz()"}, c.Keys())
	got := c.Get("A.baz()")
	require.Len(t, got, 2)
	assert.Same(t, second, got[0], "most recent first")
	assert.Same(t, first, got[1])
	assert.Equal(t, "c1", got[1].CommitID())
}

func TestSameSignatureAccumulates(t *testing.T) {
	a := method("A.f()", "A.f()")
	b := method("A.f()", "A.f()")
	c := New().FoldIn(commit("c1", 1, a, b))
	assert.Equal(t, []*model.Event{b, a}, c.Get("A.f()"))
}

func TestClassRenameRekeysMethods(t *testing.T) {
	c := New().FoldAll([]*model.Entry{
		commit("c1", 1, method("p.Old.run()", "p.Old.run()"), method("p.Old.stop(p.Old.Mode)", "p.Old.stop(p.Old.Mode)")),
		commit("c2", 2, method("p.Other.go()", "p.Other.go()")),
		commit("c3", 3, class("p.Old", "p.New")),
	})

	assert.Equal(t, []string{"p.New.run()", "p.New.stop(p.Old.Mode)", "p.Other.go()"}, c.Keys())
	assert.Len(t, c.Get("p.New.run()"), 1)
	assert.Nil(t, c.Get("p.Old.run()"))
}

func TestClassRenameDoesNotTouchNestedScopes(t *testing.T) {
	c := New().FoldAll([]*model.Entry{
		commit("c1", 1, method("p.Old.Inner.run()", "p.Old.Inner.run()")),
		commit("c2", 2, class("p.Old", "p.New")),
	})
	assert.Equal(t, []string{"p.Old.Inner.run()"}, c.Keys())
}

func TestClassEventWithoutBothNamesIgnored(t *testing.T) {
	c := New().FoldAll([]*model.Entry{
		commit("c1", 1, method("p.A.f()", "p.A.f()")),
		commit("c2", 2, class("p.A", "")),
	})
	assert.Equal(t, []string{"p.A.f()"}, c.Keys())
}

func TestHiddenEventsAreSkipped(t *testing.T) {
	hidden := method("A.f()", "A.g()")
	hidden.Hidden = true
	c := New().FoldIn(commit("c1", 1, hidden))
	assert.Equal(t, 0, c.Len())
}

func TestOtherGroupsIgnored(t *testing.T) {
	c := New().FoldIn(commit("c1", 1, &model.Event{Group: model.GroupAttribute, NameBefore: "A", NameAfter: "B"}))
	assert.Equal(t, 0, c.Len())
}

func TestFoldOrderMatters(t *testing.T) {
	entries := []*model.Entry{
		commit("c1", 1, method("A.foo()", "A.bar()")),
		commit("c2", 2, method("A.bar()", "A.baz()")),
	}
	forward := New().FoldAll(entries)
	reversed := New().FoldAll([]*model.Entry{entries[1], entries[0]})

	assert.NotEqual(t, forward.Keys(), reversed.Keys())
	assert.Equal(t, []string{"A.bar()", "A.baz()"}, reversed.Keys())
}

func TestSortEntriesThenFold(t *testing.T) {
	entries := []*model.Entry{
		commit("c2", 2, method("A.bar()", "A.baz()")),
		commit("c1", 1, method("A.foo()", "A.bar()")),
	}
	SortEntries(entries)
	assert.Equal(t, "c1", entries[0].CommitID)
	assert.Equal(t, []string{"A.baz()"}, New().FoldAll(entries).Keys())
}

func TestSortEntriesStable(t *testing.T) {
	entries := []*model.Entry{commit("a", 5), commit("b", 1), commit("c", 5)}
	SortEntries(entries)
	assert.Equal(t, "b", entries[0].CommitID)
	assert.Equal(t, "a", entries[1].CommitID)
	assert.Equal(t, "c", entries[2].CommitID)
}

func TestSnapshotIsACopy(t *testing.T) {
	c := New().FoldIn(commit("c1", 1, method("A.f()", "A.f()")))
	snap := c.Snapshot()
	delete(snap, "A.f()")
	snap["X.y()"] = nil
	assert.Equal(t, []string{"A.f()"}, c.Keys())
}

func TestScope(t *testing.T) {
	tests := []struct {
		sig  string
		want string
	}{
		{"p.A.run()", "p.A"},
		{"p.A.run(java.util.List, int)", "p.A"},
		{"run()", ""},
		{"p.A", "p"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Scope(tt.sig), "Scope(%q)", tt.sig)
	}
}
