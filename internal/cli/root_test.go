package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprite-ai/refmark/internal/entry"
	"github.com/sprite-ai/refmark/internal/model"
)

const commitsJSONL = `{"commit_id": "c2", "time": 200, "parents": ["c1"], "detections": [{"type": "RENAME_CLASS", "classes": {"before": {"name": "p.A", "range": {"file": "A.java", "start_line": 1, "end_line": 3}}, "after": {"name": "p.B", "range": {"file": "B.java", "start_line": 1, "end_line": 3}}}}]}

{"commit_id": "c1", "time": 100, "detections": [{"type": "RENAME_METHOD", "operations": {"before": {"class": "p.A", "name": "foo", "range": {"file": "A.java", "start_line": 2, "end_line": 2}}, "after": {"class": "p.A", "name": "bar", "range": {"file": "A.java", "start_line": 2, "end_line": 2}}}}]}
`

const renamePatch = `diff --git a/A.java b/A.java
index abc1234..def5678 100644
--- a/A.java
+++ b/A.java
@@ -1,3 +1,3 @@
 class A {
-  void foo() {}
+  void bar() {}
 }
`

// shortPatch adds A.java as a one-line file, so c1's markings on line 2
// start past its end.
const shortPatch = `diff --git a/A.java b/A.java
new file mode 100644
index 0000000..def5678
--- /dev/null
+++ b/A.java
@@ -0,0 +1 @@
+class A {}
`

// belowHunkJSONL renames a method far below the only hunk of renamePatch.
const belowHunkJSONL = `{"commit_id": "c3", "time": 300, "detections": [{"type": "RENAME_METHOD", "operations": {"before": {"class": "p.A", "name": "foo", "range": {"file": "A.java", "start_line": 40, "end_line": 50}}, "after": {"class": "p.A", "name": "bar", "range": {"file": "A.java", "start_line": 40, "end_line": 50}}}}]}
`

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRootCommandHasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"build", "show", "history", "check", "serve", "version"} {
		if !names[want] {
			t.Errorf("root command missing subcommand %q", want)
		}
	}
}

func TestVersionOutput(t *testing.T) {
	// version vars are set via ldflags; in tests they have their defaults
	if version != "dev" {
		t.Errorf("expected default version %q, got %q", "dev", version)
	}

	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "refmark dev (commit none, built unknown)\n", out)
}

func TestInvalidLogLevel(t *testing.T) {
	_, _, err := run(t, "--log-level", "loud", "version")
	assert.Error(t, err)
}

func TestBuildToStdout(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "commits.jsonl", commitsJSONL)

	out, _, err := run(t, "build", in)
	require.NoError(t, err)

	dec := json.NewDecoder(strings.NewReader(out))
	var ids []string
	for dec.More() {
		var e model.Entry
		require.NoError(t, dec.Decode(&e))
		ids = append(ids, e.CommitID)
		if e.CommitID == "c2" {
			require.Len(t, e.Refactorings, 1)
			assert.Equal(t, "p.B", e.Refactorings[0].NameAfter)
		}
	}
	assert.Equal(t, []string{"c2", "c1"}, ids)
}

func TestBuildRejectsUnknownFormat(t *testing.T) {
	in := writeFile(t, t.TempDir(), "commits.jsonl", commitsJSONL)
	_, _, err := run(t, "build", "-f", "xml", in)
	assert.Error(t, err)
}

func TestBuildHistoryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "commits.jsonl", commitsJSONL)
	outDir := filepath.Join(dir, "entries")

	_, _, err := run(t, "build", "-o", outDir, "-f", "yaml", in)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outDir, "c1.yaml"))
	assert.FileExists(t, filepath.Join(outDir, "c2.yaml"))

	out, _, err := run(t, "history", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "p.B.bar()")
	assert.NotContains(t, out, "p.A.bar()")
	assert.Contains(t, out, "foo() -> bar()")

	out, _, err = run(t, "history", outDir, "--name", "p.A.foo()")
	require.NoError(t, err)
	assert.Contains(t, out, "No history.")
}

func TestBuildStoreShow(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "commits.jsonl", commitsJSONL)
	db := filepath.Join(dir, "refmark.db")

	_, _, err := run(t, "build", "--store", db, "-o", filepath.Join(dir, "entries"), in)
	require.NoError(t, err)

	out, _, err := run(t, "show", "--commit", "c1", "--store", db)
	require.NoError(t, err)
	assert.Contains(t, out, "commit c1")
	assert.Contains(t, out, "Rename Method")
	assert.Contains(t, out, "foo() -> bar()")
	assert.Contains(t, out, "before 2-2  after 2-2")

	out, _, err = run(t, "show", "--commit", "c2", "--store", db)
	require.NoError(t, err)
	assert.Contains(t, out, "p.{A -> B}")
	assert.Contains(t, out, "in B")

	out, _, err = run(t, "show", "--commit", "c2", "--store", db, "--name", "p.Z")
	require.NoError(t, err)
	assert.Contains(t, out, "1 refactoring(s), 0 shown")

	out, _, err = run(t, "show", "--commit", "missing", "--store", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No entry.")

	out, _, err = run(t, "history", "--store", db)
	require.NoError(t, err)
	assert.Contains(t, out, "p.B.bar()")
}

func TestShowWithPatch(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "commits.jsonl", commitsJSONL)
	patch := writeFile(t, dir, "c1.patch", renamePatch)
	entries := filepath.Join(dir, "entries")

	_, _, err := run(t, "build", "-o", entries, in)
	require.NoError(t, err)

	out, _, err := run(t, "show", filepath.Join(entries, "c1.json"), "--patch", patch, "--arrow", " => ")
	require.NoError(t, err)
	assert.Contains(t, out, "1 file(s) changed, +1 -1")
	assert.Contains(t, out, "foo() => bar()")
	assert.Contains(t, out, "void foo() {}")
	assert.Contains(t, out, "void bar() {}")
}

func TestShowUndecodableEntry(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.json", "{not json")
	out, errOut, err := run(t, "show", path)
	require.NoError(t, err)
	assert.Contains(t, out, "No entry.")
	assert.Contains(t, errOut, "undecodable entry")
}

func TestShowRejectsDoubleStdin(t *testing.T) {
	for _, cmd := range []string{"show", "check"} {
		_, _, err := run(t, cmd, "-", "--patch", "-")
		if assert.Error(t, err, cmd) {
			assert.Contains(t, err.Error(), "cannot both be read from stdin")
		}
	}
}

func TestShowRequiresInput(t *testing.T) {
	_, _, err := run(t, "show")
	assert.Error(t, err)
}

func TestCheckExitCodes(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "commits.jsonl", commitsJSONL)
	patch := writeFile(t, dir, "c1.patch", renamePatch)
	entries := filepath.Join(dir, "entries")
	_, _, err := run(t, "build", "-o", entries, in)
	require.NoError(t, err)

	out, _, err := run(t, "check", filepath.Join(entries, "c1.json"), "--patch", patch)
	require.NoError(t, err)
	assert.Contains(t, out, "Check: No issues found")

	// c2 touches B.java, which the patch does not carry.
	out, _, err = run(t, "check", filepath.Join(entries, "c2.json"), "--patch", patch, "-f", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"pass": "paths"`)

	bad := writeFile(t, dir, "short.patch", shortPatch)
	out, _, err = run(t, "check", filepath.Join(entries, "c1.json"), "--patch", bad, "-f", "markdown")
	var exit *ExitError
	require.True(t, errors.As(err, &exit), "err = %v", err)
	assert.Equal(t, 2, exit.Code)
	assert.Contains(t, out, "## Check Report")
}

func TestCheckBelowLastHunk(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "commits.jsonl", belowHunkJSONL)
	patch := writeFile(t, dir, "c3.patch", renamePatch)
	entries := filepath.Join(dir, "entries")
	_, _, err := run(t, "build", "-o", entries, in)
	require.NoError(t, err)

	// The patch does not say how long A.java is, so lines 40-50 stay as they are.
	out, _, err := run(t, "check", filepath.Join(entries, "c3.json"), "--patch", patch)
	require.NoError(t, err)
	assert.Contains(t, out, "Check: No issues found")

	out, _, err = run(t, "show", filepath.Join(entries, "c3.json"), "--patch", patch)
	require.NoError(t, err)
	assert.Contains(t, out, "before 40-50  after 40-50")
}

func TestBuildRejectsUnsafeCommitID(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "entries")
	in := writeFile(t, dir, "commits.jsonl", `{"commit_id": "../escape", "detections": []}`+"\n")

	_, _, err := run(t, "build", "-o", outDir, in)
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "escape.json"))

	for _, id := range []string{"", ".", "..", "a/b", `a\b`} {
		err := writeEntryFile(outDir, &model.Entry{CommitID: id}, entry.CodecFor("json"))
		assert.Error(t, err, "id %q", id)
	}
	assert.NoFileExists(t, filepath.Join(outDir, ".json"))
	require.NoError(t, writeEntryFile(outDir, &model.Entry{CommitID: "abc123"}, entry.CodecFor("json")))
	assert.FileExists(t, filepath.Join(outDir, "abc123.json"))
}

func TestHistoryJSON(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "commits.jsonl", commitsJSONL)
	outDir := filepath.Join(dir, "entries")
	_, _, err := run(t, "build", "-o", outDir, in)
	require.NoError(t, err)

	out, _, err := run(t, "history", outDir, "--json")
	require.NoError(t, err)

	var chains map[string][]historyItem
	require.NoError(t, json.Unmarshal([]byte(out), &chains))
	items, ok := chains["p.B.bar()"]
	require.True(t, ok, "chains = %v", chains)
	require.Len(t, items, 1)
	assert.Equal(t, "c1", items[0].Commit)
	assert.Equal(t, "foo() -> bar()", items[0].Name)

	out, _, err = run(t, "history", outDir, "--json", "--name", "p.B.bar()")
	require.NoError(t, err)
	chains = nil
	require.NoError(t, json.Unmarshal([]byte(out), &chains))
	assert.Len(t, chains, 1)
}
