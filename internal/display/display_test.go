package display

import (
	"testing"

	"github.com/sprite-ai/refmark/internal/marking"
	"github.com/sprite-ai/refmark/internal/model"
)

func TestName(t *testing.T) {
	tests := []struct {
		group  model.Group
		before string
		after  string
		want   string
	}{
		{model.GroupMethod, "p.A.foo(int, java.util.List)", "p.A.bar(int, java.util.List)", "foo(int, java.util.List) -> bar(int, java.util.List)"},
		{model.GroupMethod, "p.A.run()", "p.B.run()", "run()"},
		{model.GroupVariable, "p.A.f(int)", "p.A.f(long)", "f(int) -> f(long)"},
		{model.GroupVariable, "p.A.f(int)", "p.B.f(int)", "f(int)"},
		{model.GroupMethod, "p.A.noParens", "p.A.other", "noParens -> other"},
		{model.GroupPackage, "com.old", "com.new", "com.old -> com.new"},
		{model.GroupPackage, "com.same", "com.same", "com.same"},
		{model.GroupAttribute, "p.A", "p.B", "p.A -> p.B"},
		{model.GroupAttribute, "count : int", "count : int", "count : int"},
		{model.GroupClass, "p.Old", "q.New", "Old -> New"},
		{model.GroupClass, "p.Same", "q.Same", "Same"},
		{model.GroupInterface, "p.Shape", "q.Shape", "Shape"},
		{model.GroupAbstractClass, "Base", "Base", "Base"},
	}
	for _, tt := range tests {
		ev := &model.Event{Group: tt.group, NameBefore: tt.before, NameAfter: tt.after}
		if got := Name(ev); got != tt.want {
			t.Errorf("Name(%s %q, %q) = %q, want %q", tt.group, tt.before, tt.after, got, tt.want)
		}
	}
}

func TestNameWithArrow(t *testing.T) {
	ev := &model.Event{Group: model.GroupClass, NameBefore: "a.X", NameAfter: "a.Y"}
	if got := NameWith(ev, " → "); got != "X → Y" {
		t.Errorf("NameWith = %q", got)
	}
}

func TestLeaf(t *testing.T) {
	tests := []struct {
		before, after *string
		want          string
	}{
		{nil, nil, ""},
		{model.Element("x : int"), nil, "x : int"},
		{model.Element("x : int"), model.Element("x : long"), "x : int -> x : long"},
		{nil, model.Element("ignored"), ""},
	}
	for _, tt := range tests {
		ev := &model.Event{ElementBefore: tt.before, ElementAfter: tt.after}
		if got := Leaf(ev); got != tt.want {
			t.Errorf("Leaf = %q, want %q", got, tt.want)
		}
	}
}

func TestIndexOfDifference(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"a.b.C", "a.b.D", 4},
		{"a.b.C", "a.x.C", 2},
		{"abc", "abd", 0},
		{"a.b", "a.b", 2},
		{"", "a.b", 0},
	}
	for _, tt := range tests {
		if got := IndexOfDifference(tt.a, tt.b); got != tt.want {
			t.Errorf("IndexOfDifference(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestClassNameFromPath(t *testing.T) {
	tests := map[string]string{
		"src/p/Foo.java":           "p.Foo",
		"src/main/java/p/Foo.java": "main.java.p.Foo",
		"Bar.kt":                   "Bar",
		`win\dir\Baz.java`:         "dir.Baz",
		"src/noext":                "noext",
		"a.b/src":                  "src",
		"":                         "",
	}
	for in, want := range tests {
		if got := ClassNameFromPath(in); got != want {
			t.Errorf("ClassNameFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestChange(t *testing.T) {
	tests := []struct {
		group         model.Group
		before, after string
		want          string
	}{
		{model.GroupClass, "p.q.A", "p.q.B", "p.q.{A -> B}"},
		{model.GroupClass, "p.A", "q.A", "p.A -> q.A"},
		{model.GroupInterface, "a.b.Shape", "a.c.Shape", "a.{b.Shape -> c.Shape}"},
		{model.GroupPackage, "com.old", "com.new", "com.{old -> new}"},
		{model.GroupAbstractClass, "p.Base", "p.Base", ""},
		{model.GroupMethod, "p.A.foo()", "p.A.bar()", ""},
	}
	for _, tt := range tests {
		ev := &model.Event{Group: tt.group, NameBefore: tt.before, NameAfter: tt.after}
		if got := Change(ev, Arrow); got != tt.want {
			t.Errorf("Change(%s %q, %q) = %q, want %q", tt.group, tt.before, tt.after, got, tt.want)
		}
	}
}

type fileBounds map[string]int

func (b fileBounds) Bounds(before, after string) (int, int) {
	get := func(p string) int {
		if n, ok := b[p]; ok {
			return n
		}
		return -1
	}
	return get(before), get(after)
}

func TestDescribe(t *testing.T) {
	shown := &model.Event{Name: "Rename Class", Group: model.GroupClass, NameBefore: "p.A", NameAfter: "p.B", PathBefore: "src/p/A.java", PathAfter: "src/p/B.java"}
	shown.AddMarking(&marking.Span{Path: "src/p/A.java", Start: 5, End: 50}, &marking.Span{Path: "src/p/B.java", Start: 1, End: 8}, nil, true)
	hidden := &model.Event{Name: "Move Class", Hidden: true}
	e := &model.Entry{CommitID: "c", Refactorings: []*model.Event{shown, hidden}}

	labels := Describe(e, "", fileBounds{"src/p/A.java": 20})
	if len(labels) != 1 {
		t.Fatalf("expected 1 label, got %d", len(labels))
	}
	l := labels[0]
	if l.Name != "A -> B" || l.Title != "Rename Class" {
		t.Errorf("label = %+v", l)
	}
	if l.Change != "p.{A -> B}" || l.Location != "p.B" {
		t.Errorf("change = %q, location = %q", l.Change, l.Location)
	}
	want := marking.DisplayRange{StartBefore: 4, EndBefore: 20, StartAfter: 0, EndAfter: 8}
	if len(l.Ranges) != 1 || l.Ranges[0] != want {
		t.Errorf("ranges = %+v, want %+v", l.Ranges, want)
	}

	unbounded := Describe(e, "", nil)
	want = marking.DisplayRange{StartBefore: 4, EndBefore: 50, StartAfter: 0, EndAfter: 8}
	if len(unbounded) != 1 || unbounded[0].Ranges[0] != want {
		t.Errorf("unbounded ranges = %+v, want %+v", unbounded, want)
	}

	if Describe(nil, "", nil) != nil {
		t.Error("expected nil labels for a nil entry")
	}
}

func TestLabelLocationFallsBackToBefore(t *testing.T) {
	ev := &model.Event{Name: "Remove Method", Group: model.GroupMethod, NameBefore: "p.A.x()", NameAfter: "p.A.x()", PathBefore: "src/p/A.java"}
	if l := LabelFor(ev, "", -1, -1); l.Location != "p.A" || l.Change != "" {
		t.Errorf("label = %+v", l)
	}
}
