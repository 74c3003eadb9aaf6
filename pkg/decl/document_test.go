package decl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fisherrors "github.com/go-drift/fish/pkg/errors"
)

func TestLoad_YAMLAndHCLAgree(t *testing.T) {
	fromYAML, err := Load("testdata/inbox.yaml", nil)
	require.NoError(t, err)
	fromHCL, err := Load("testdata/inbox.hcl", nil)
	require.NoError(t, err)

	assert.Equal(t, "testdata/inbox.yaml", fromYAML.File)
	assert.Equal(t, fromYAML.Version, fromHCL.Version)
	assert.Equal(t, fromYAML.Vars, fromHCL.Vars)
	require.Len(t, fromHCL.Root.Children, 4)
	assert.Equal(t, "8", fromHCL.Root.Props["spacing"])
	assert.Equal(t, "Inbox", fromHCL.Root.Children[0].Props["text"], "var.title resolves at parse time")
	assert.Equal(t, "2 unread", fromHCL.Root.Children[2].Props["text"])
	assert.Equal(t, fromYAML.Root.Layout, fromHCL.Root.Layout)
	assert.Equal(t, fromYAML.Root.Children[3].Layout, fromHCL.Root.Children[3].Layout)
}

func TestLoad_VarOverrides(t *testing.T) {
	doc, err := Load("testdata/inbox.hcl", map[string]string{"title": "Archive"})
	require.NoError(t, err)
	assert.Equal(t, "Archive", doc.Vars["title"])
	assert.Equal(t, "Archive", doc.Root.Children[0].Props["text"])
	assert.Equal(t, "a,b,c", doc.Vars["items"])

	doc, err = Load("testdata/inbox.yaml", map[string]string{"unread": "0"})
	require.NoError(t, err)
	assert.Equal(t, "0", doc.Vars["unread"])
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_UnsupportedExtension(t *testing.T) {
	_, err := Parse("tree.json", []byte("{}"), nil)
	var declErr *fisherrors.DeclError
	require.ErrorAs(t, err, &declErr)
	assert.Contains(t, err.Error(), `unsupported document extension ".json"`)
}

func TestParseYAML_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown field", "root: {kind: label, colour: red}", "field colour not found"},
		{"invalid version", "version: \"1.0\"\nroot: {kind: label}", `invalid version "1.0"`},
		{"unsupported major", "version: v2.0.0\nroot: {kind: label}", "unsupported major version v2"},
		{"no root", "version: v1.0.0", "document has no root widget"},
		{"malformed", "root: [", "failed to decode YAML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML("doc.yaml", []byte(tt.src), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseYAML_DefaultsVersion(t *testing.T) {
	doc, err := ParseYAML("doc.yaml", []byte("root: {kind: label}"), nil)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, doc.Version)
	assert.NotNil(t, doc.Vars)
}

func TestParseHCL_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"syntax", `widget "label" {`, "failed to parse HCL"},
		{"unknown var", `widget "label" { props = { text = var.nope } }`, "failed to decode HCL"},
		{"vars not strings", `vars = { list = [1, 2] }
widget "label" {}`, "vars must be a map of strings"},
		{"unsupported major", `version = "v3.1.0"
widget "label" {}`, "unsupported major version v3"},
		{"no root", `version = "v1.0.0"`, "document has no root widget"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHCL("doc.hcl", []byte(tt.src), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestEncodeYAML_RoundTrips(t *testing.T) {
	doc, err := Load("testdata/inbox.hcl", nil)
	require.NoError(t, err)

	data, err := doc.EncodeYAML()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "testdata", "the source path is not encoded")

	again, err := ParseYAML("inbox.yaml", data, nil)
	require.NoError(t, err)
	assert.Equal(t, doc.Root, again.Root)
	assert.Equal(t, doc.Vars, again.Vars)
}
