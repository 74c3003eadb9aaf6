package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cli := NewCLI(&out, &out)
	root := NewRootCommand(cli)
	root.SetArgs(append([]string{"--config", t.TempDir()}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand(NewCLI(&bytes.Buffer{}, &bytes.Buffer{}))

	assert.Equal(t, "fish", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)
	assert.True(t, cmd.CompletionOptions.DisableDefaultCmd)
	for _, name := range []string{"config", "var", "debug", "no-color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"render", "validate", "kinds", "version"}, names)
}

func TestRender_Tree(t *testing.T) {
	out, err := run(t, "render", "testdata/inbox.yaml")
	require.NoError(t, err)
	assert.Equal(t, "view\n"+
		"  stack(vertical)\n"+
		"    label \"Inbox\" #title\n"+
		"    label \"a\"\n"+
		"    label \"b\"\n", out)
}

func TestRender_Vars(t *testing.T) {
	out, err := run(t, "--var", "title=Sent", "--var", "items=x", "render", "testdata/inbox.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, `label "Sent" #title`)
	assert.NotContains(t, out, `label "a"`)
}

func TestRender_Constraints(t *testing.T) {
	out, err := run(t, "render", "testdata/inbox.yaml", "--constraints")
	require.NoError(t, err)
	assert.Contains(t, out, "constraints (4):")
	assert.Contains(t, out, "stack(vertical).leading == view.leading")
}

func TestRender_Stats(t *testing.T) {
	out, err := run(t, "render", "testdata/inbox.yaml", "--stats")
	require.NoError(t, err)
	assert.Contains(t, out, "attached 4 widgets:")
	assert.Regexp(t, `Label\s+3`, out)
	assert.Regexp(t, `Stack\s+1`, out)
}

func TestRender_YAML(t *testing.T) {
	out, err := run(t, "render", "testdata/inbox.yaml", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "version: v1.0.0")
	assert.Contains(t, out, "kind: stack")
}

func TestRender_Errors(t *testing.T) {
	_, err := run(t, "render", "testdata/inbox.yaml", "--format", "xml")
	assert.ErrorContains(t, err, `unknown format "xml"`)

	_, err = run(t, "render", "testdata/bad.yaml")
	assert.ErrorContains(t, err, `root.children[0].kind: unknown kind "slider"`)

	_, err = run(t, "render")
	assert.ErrorContains(t, err, "expected 1 arguments, got 0")
}

func TestRender_UsesConfiguredMiddleware(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fish.yaml"), []byte("compile: {middleware: [snap]}\n"), 0o644))
	doc := filepath.Join(dir, "hidden.yaml")
	require.NoError(t, os.WriteFile(doc, []byte(`
root:
  kind: stack
  children:
    - kind: label
      props: {text: shown}
    - kind: label
      props: {text: gone, hidden: "true"}
`), 0o644))

	var out bytes.Buffer
	root := NewRootCommand(NewCLI(&out, &out))
	root.SetArgs([]string{"--config", dir, "render", doc})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), `label "gone"`)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "fish.yaml"), []byte("compile: {middleware: [skip-hidden, snap]}\n"), 0o644))
	out.Reset()
	root = NewRootCommand(NewCLI(&out, &out))
	root.SetArgs([]string{"--config", dir, "render", doc})
	require.NoError(t, root.Execute())
	assert.NotContains(t, out.String(), `label "gone"`)
}

func TestRender_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fish.yaml"), []byte("log: {level: loud}\n"), 0o644))

	root := NewRootCommand(NewCLI(&bytes.Buffer{}, &bytes.Buffer{}))
	root.SetArgs([]string{"--config", dir, "render", "testdata/inbox.yaml"})
	assert.ErrorContains(t, root.Execute(), "unknown log level")
}

func TestValidate(t *testing.T) {
	out, err := run(t, "validate", "testdata/inbox.yaml")
	require.NoError(t, err)
	assert.Equal(t, "ok   testdata/inbox.yaml\n", out)

	out, err = run(t, "validate", "testdata/inbox.yaml", "testdata/bad.yaml", "testdata/missing.hcl")
	assert.EqualError(t, err, "2 of 3 documents invalid")
	assert.Contains(t, out, "ok   testdata/inbox.yaml")
	assert.Contains(t, out, "FAIL testdata/bad.yaml: root.children[0].kind")
	assert.Contains(t, out, "FAIL failed to read document")
}

func TestKinds(t *testing.T) {
	out, err := run(t, "kinds")
	require.NoError(t, err)
	assert.Contains(t, out, "stack    axis, distribution, spacing\n")
	assert.Contains(t, out, "all kinds: background, hidden, tag")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "fish version "+Version)
	assert.Contains(t, out, "document version v1.0.0")

	out, err = run(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "fish version "+Version+"\n", out)
}

func TestStyles_Tree(t *testing.T) {
	plain := newStyles(false)
	dump := "view\n  label \"A\" #title\n"
	assert.Equal(t, dump, plain.tree(dump))

	colored := newStyles(true).tree(dump)
	assert.NotEqual(t, dump, colored)
	assert.Contains(t, colored, "\x1b[")
}

func TestColorEnabled(t *testing.T) {
	assert.False(t, colorEnabled(&bytes.Buffer{}, false))
	assert.False(t, colorEnabled(os.Stdout, true))
	t.Setenv("NO_COLOR", "1")
	assert.False(t, colorEnabled(os.Stdout, false))
}
