package snap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/fish/pkg/view"
)

func TestMakeConstraints_EdgesInset(t *testing.T) {
	root := view.NewView()
	label := view.NewLabel("hello")
	root.AddSubview(label)

	cs, err := MakeConstraints(label, func(m *Maker) {
		m.Edges().EqualToSuperview().Inset(8)
	})
	require.NoError(t, err)
	require.Len(t, cs, 4)

	constants := map[view.Attribute]float64{}
	for _, c := range cs {
		assert.True(t, c.IsActive())
		assert.Equal(t, view.Widget(root), c.Second.Item)
		constants[c.First.Attr] = c.Constant
	}
	assert.Equal(t, map[view.Attribute]float64{
		view.AttrLeading:  8,
		view.AttrTrailing: -8,
		view.AttrTop:      8,
		view.AttrBottom:   -8,
	}, constants)
	assert.Len(t, root.Constraints(), 4)
}

func TestMakeConstraints_Constant(t *testing.T) {
	label := view.NewLabel("x")

	cs, err := MakeConstraints(label, func(m *Maker) {
		m.Height().EqualToConstant(30).Offset(2)
	})
	require.NoError(t, err)
	require.Len(t, cs, 1)
	assert.Nil(t, cs[0].Second)
	assert.Equal(t, float64(32), cs[0].Constant)
	assert.Equal(t, view.Widget(label), cs[0].Host())
}

func TestMakeConstraints_DetachedNeedsSuperview(t *testing.T) {
	label := view.NewLabel("x")

	_, err := MakeConstraints(label, func(m *Maker) {
		m.Top().EqualToSuperview()
	})

	require.ErrorIs(t, err, ErrNoSuperview)
}

func TestMakeConstraints_IntrinsicSize(t *testing.T) {
	label := view.NewLabel("abcd")

	cs, err := MakeConstraints(label, func(m *Maker) {
		m.Size().EqualToIntrinsicSize()
	})
	require.NoError(t, err)
	require.Len(t, cs, 2)
	assert.Equal(t, float64(28), cs[0].Constant)
	assert.Equal(t, float64(13), cs[1].Constant)
}

func TestMakeConstraints_MissingRelation(t *testing.T) {
	_, err := MakeConstraints(view.NewView(), func(m *Maker) {
		m.Width()
	})
	assert.Error(t, err)
}
