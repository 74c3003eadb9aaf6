package decl

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fisherrors "github.com/go-drift/fish/pkg/errors"
	"github.com/go-drift/fish/pkg/flow"
	fishtest "github.com/go-drift/fish/pkg/testing"
	"github.com/go-drift/fish/pkg/view"
)

const inboxDump = `view
  stack(vertical)
    label "Inbox" #title
    label "0:a"
    label "1:b"
    label "2:c"
    label "2 unread"
    button "Compose"
`

func buildFile(t *testing.T, path string, vars map[string]string) (*fishtest.Tester, *Refs) {
	t.Helper()
	doc, err := Load(path, vars)
	require.NoError(t, err)
	spec, refs, err := Build(doc)
	require.NoError(t, err)
	tester := fishtest.NewTesterWithT(t)
	tester.Pump(spec)
	return tester, refs
}

func TestBuild_Inbox(t *testing.T) {
	for _, path := range []string{"testdata/inbox.yaml", "testdata/inbox.hcl"} {
		t.Run(path, func(t *testing.T) {
			tester, refs := buildFile(t, path, nil)
			assert.Equal(t, inboxDump, tester.Dump())

			stack := tester.Find(fishtest.ByType[*view.Stack]()).First().(*view.Stack)
			assert.Equal(t, 8.0, stack.Spacing)
			assert.Len(t, stack.ArrangedSubviews(), 6)
			assert.Equal(t, []string{"compose", "title"}, refs.Names())
		})
	}
}

func TestBuild_FormatsProduceSameTree(t *testing.T) {
	fromYAML, refsYAML := buildFile(t, "testdata/inbox.yaml", nil)
	fromHCL, refsHCL := buildFile(t, "testdata/inbox.hcl", nil)

	assert.Empty(t, fromHCL.Snapshot().Diff(fromYAML.Snapshot()))
	assert.Equal(t, refsYAML.Names(), refsHCL.Names())
}

func TestBuild_MatchesHandWrittenTree(t *testing.T) {
	items := []string{"a", "b", "c"}
	label := func(text string) flow.Item[*view.Label] {
		return flow.Make(func() *view.Label { return view.NewLabel(text) })
	}
	spec := flow.Build(
		flow.Make(view.NewStack,
			label("Inbox").Modify(func(l *view.Label) { l.Tag = "title" }),
			flow.Each(items, func(i int, s string) flow.Node {
				return label(fmt.Sprintf("%d:%s", i, s))
			}),
			flow.If(true, label("2 unread")),
			flow.Make(func() *view.Button { return view.NewButton("Compose") }),
		).Modify(func(s *view.Stack) { s.Spacing = 8 }),
	)
	tester := fishtest.NewTesterWithT(t)
	tester.Pump(spec)

	declared, _ := buildFile(t, "testdata/inbox.yaml", nil)
	assert.Equal(t, tester.Dump(), declared.Dump())
}

func TestBuild_VarsDriveConditionsAndRepetition(t *testing.T) {
	tester, _ := buildFile(t, "testdata/inbox.yaml", map[string]string{"unread": "0", "items": "x"})

	assert.False(t, tester.Find(fishtest.ByTextContaining("unread")).Exists())
	assert.Equal(t, 1, tester.Find(fishtest.ByText("0:x")).Count())
	assert.False(t, tester.Find(fishtest.ByText("1:b")).Exists())
}

func TestBuild_WithVarsOverridesDocument(t *testing.T) {
	doc, err := Load("testdata/inbox.yaml", nil)
	require.NoError(t, err)
	spec, _, err := Build(doc, WithVars(map[string]string{"title": "Sent"}))
	require.NoError(t, err)

	tester := fishtest.NewTesterWithT(t)
	tester.Pump(spec)
	assert.True(t, tester.Find(fishtest.ByText("Sent")).Exists())
	assert.Equal(t, "Inbox", doc.Vars["title"], "the document is not mutated")
}

func TestBuild_Layout(t *testing.T) {
	tester, refs := buildFile(t, "testdata/inbox.yaml", nil)

	title, ok := refs.Get("title")
	require.True(t, ok)
	compose, ok := refs.Get("compose")
	require.True(t, ok)
	assert.Equal(t, "Compose", compose.(*view.Button).Title)

	root := tester.Root()
	var rootRules []string
	for _, c := range root.Constraints() {
		rootRules = append(rootRules, c.String())
	}
	assert.Contains(t, rootRules, "stack(vertical).top == view.top +16")
	assert.Contains(t, rootRules, "stack(vertical).trailing == view.trailing -16")

	stack := title.Superview()
	var stackRules []string
	for _, c := range stack.(*view.Stack).Constraints() {
		stackRules = append(stackRules, c.String())
	}
	assert.Contains(t, stackRules, `button "Compose".width == label "Inbox" #title.width`)

	var buttonRules []string
	for _, c := range compose.(*view.Button).Constraints() {
		buttonRules = append(buttonRules, c.String())
	}
	assert.Contains(t, buttonRules, `button "Compose".height == 44`)
}

func TestBuild_RefsCollectRepeatedWidgets(t *testing.T) {
	doc, err := ParseYAML("list.yaml", []byte(`
root:
  kind: stack
  children:
    - kind: label
      each: "['x', 'y']"
      ref: row
      props: {text: "=item"}
`), nil)
	require.NoError(t, err)
	spec, refs, err := Build(doc)
	require.NoError(t, err)

	tester := fishtest.NewTesterWithT(t)
	tester.Pump(spec)
	rows := refs.All("row")
	require.Len(t, rows, 2)
	last, _ := refs.Get("row")
	assert.Equal(t, "y", last.(*view.Label).Text)
	_, ok := refs.Get("missing")
	assert.False(t, ok)
}

func TestBuild_Props(t *testing.T) {
	doc, err := ParseYAML("props.yaml", []byte(`
vars: {n: "3"}
root:
  kind: stack
  props: {axis: horizontal, distribution: fill-equally, hidden: "true", background: "#fff"}
  children:
    - kind: label
      props: {text: "==literal"}
    - kind: field
      props: {placeholder: "=vars.n + ' left'", text: "=int(vars.n) * 2"}
    - kind: scroll
      props: {offset: "12.5", tag: list}
    - kind: effect
      props: {style: blur}
`), nil)
	require.NoError(t, err)
	spec, _, err := Build(doc)
	require.NoError(t, err)

	tester := fishtest.NewTesterWithT(t)
	tester.Pump(spec)

	stack := tester.Find(fishtest.ByType[*view.Stack]()).First().(*view.Stack)
	assert.Equal(t, view.Horizontal, stack.Axis)
	assert.Equal(t, view.DistributionFillEqually, stack.Distribution)
	assert.True(t, stack.Hidden)
	assert.Equal(t, "#fff", stack.Background)

	assert.True(t, tester.Find(fishtest.ByText("=literal")).Exists())
	field := tester.Find(fishtest.ByType[*view.Field]()).First().(*view.Field)
	assert.Equal(t, "3 left", field.Placeholder)
	assert.Equal(t, "6", field.Text)
	scroll := tester.Find(fishtest.ByTag("list")).First().(*view.Scroll)
	assert.Equal(t, 12.5, scroll.ContentOffset)
	assert.Equal(t, "blur", tester.Find(fishtest.ByType[*view.Effect]()).First().(*view.Effect).Style)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		root string
		path string
		want string
	}{
		{"unknown kind", "{kind: slider}", "root.kind", `unknown kind "slider"`},
		{"unknown prop", "{kind: label, props: {title: x}}", "root.props.title", `kind "label" has no prop "title"`},
		{"bad number", "{kind: stack, props: {spacing: wide}}", "root.props.spacing", `invalid number "wide"`},
		{"bad enum", "{kind: stack, props: {axis: diagonal}}", "root.props.axis", "want one of [horizontal vertical]"},
		{"bad bool", "{kind: label, props: {hidden: maybe}}", "root.props.hidden", `invalid boolean "maybe"`},
		{"bad expression", "{kind: label, props: {text: '=vars.'}}", "root.props.text", "failed to compile"},
		{"non-bool condition", "{kind: label, when: \"'yes'\"}", "root.when", "want bool"},
		{"non-list repetition", "{kind: label, each: '3'}", "root.each", "want list"},
		{"unknown anchor", "{kind: label, layout: [{anchor: baseline, to: superview}]}", "root.layout[0]", `unknown anchor "baseline"`},
		{"unknown relation", "{kind: label, layout: [{anchor: top, relation: '!=', to: superview}]}", "root.layout[0]", `unknown relation "!="`},
		{"missing target", "{kind: label, layout: [{anchor: top}]}", "root.layout[0]", "needs a target or a constant"},
		{"intrinsic inequality", "{kind: label, layout: [{anchor: size, relation: '<=', to: intrinsic}]}", "root.layout[0]", "only =="},
		{"ref inequality", "{kind: label, layout: [{anchor: width, relation: '>=', to: other}]}", "root.layout[0]", "only =="},
		{"nested", "{kind: stack, children: [{kind: view}, {kind: nope}]}", "root.children[1].kind", `unknown kind "nope"`},
		{"nested each", "{kind: stack, children: [{kind: stack, each: '[1, 2]', children: [{kind: label, when: 'item'}]}]}", "root.children[0][0].children[0].when", "want bool"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseYAML("bad.yaml", []byte("root: "+tt.root), nil)
			require.NoError(t, err)
			err = Validate(doc)
			var declErr *fisherrors.DeclError
			require.ErrorAs(t, err, &declErr)
			assert.Equal(t, "bad.yaml", declErr.File)
			assert.Equal(t, tt.path, declErr.Path)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBuild_NilDocument(t *testing.T) {
	_, _, err := Build(nil)
	require.Error(t, err)
	_, _, err = Build(&Document{})
	assert.ErrorContains(t, err, "no root widget")
}

func TestBuild_CustomRegistry(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(Kind{
		Name: "chip",
		New:  func() view.Widget { return view.NewButton("chip") },
		Props: map[string]Prop{
			"label": TextProp(func(b *view.Button, v string) { b.Title = strings.ToUpper(v) }),
		},
	})
	doc, err := ParseYAML("chip.yaml", []byte("root: {kind: chip, props: {label: go}}"), nil)
	require.NoError(t, err)

	spec, _, err := Build(doc, WithRegistry(r))
	require.NoError(t, err)
	tester := fishtest.NewTesterWithT(t)
	tester.Pump(spec)
	assert.True(t, tester.Find(fishtest.ByText("GO")).Exists())

	assert.Error(t, Validate(doc), "the default registry has no chip")
}

func TestBuild_SpecIsReusable(t *testing.T) {
	doc, err := Load("testdata/inbox.yaml", nil)
	require.NoError(t, err)
	spec, _, err := Build(doc)
	require.NoError(t, err)

	first := fishtest.NewTesterWithT(t)
	first.Pump(spec)
	second := fishtest.NewTesterWithT(t)
	second.Pump(spec)
	assert.Equal(t, first.Dump(), second.Dump())
	assert.NotSame(t,
		first.Find(fishtest.ByTag("title")).First(),
		second.Find(fishtest.ByTag("title")).First())
}

