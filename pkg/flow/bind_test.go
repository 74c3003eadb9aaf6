package flow

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/fish/pkg/view"
)

type loginScreen struct {
	name   *view.Field
	submit *view.Button
	extra  *int
}

func TestBind_AssignsProducedWidgets(t *testing.T) {
	s := &loginScreen{}
	root := view.NewView()

	Compile(NewState(), root, Build(
		Make(view.NewField).Bind(Ref(s, func(s *loginScreen, f *view.Field) { s.name = f })),
		Make(func() *view.Button { return view.NewButton("Go") }).
			Bind(Ref(s, func(s *loginScreen, b *view.Button) { s.submit = b })),
	))

	require.NotNil(t, s.name)
	require.NotNil(t, s.submit)
	assert.Equal(t, []view.Widget{s.name, s.submit}, root.Subviews())
}

func TestBind_RebindsOnEachCompile(t *testing.T) {
	s := &loginScreen{}
	spec := Build(Make(view.NewField).Bind(Ref(s, func(s *loginScreen, f *view.Field) { s.name = f })))

	Compile(NewState(), view.NewView(), spec)
	first := s.name
	Compile(NewState(), view.NewView(), spec)

	assert.NotSame(t, first, s.name)
}

func TestRef_NilOwner(t *testing.T) {
	slot := Ref[loginScreen](nil, func(*loginScreen, *view.Field) {})
	assert.False(t, slot.Assign(view.NewField()))

	var zero Slot[*view.Field]
	assert.False(t, zero.Assign(view.NewField()))
}

func TestRef_DoesNotRetainOwner(t *testing.T) {
	slot := func() Slot[*view.Field] {
		owner := &loginScreen{extra: new(int)}
		return Ref(owner, func(s *loginScreen, f *view.Field) { s.name = f })
	}()

	assert.Eventually(t, func() bool {
		runtime.GC()
		return !slot.Assign(view.NewField())
	}, time.Second, 10*time.Millisecond)
}

func TestBind_SkipsCollectedOwner(t *testing.T) {
	slot := func() Slot[*view.Field] {
		owner := &loginScreen{extra: new(int)}
		return Ref(owner, func(s *loginScreen, f *view.Field) { s.name = f })
	}()
	require.Eventually(t, func() bool {
		runtime.GC()
		return !slot.Assign(nil)
	}, time.Second, 10*time.Millisecond)

	root := view.NewView()
	Compile(NewState(), root, Build(Make(view.NewField).Bind(slot)))

	assert.Len(t, root.Subviews(), 1, "a released owner does not stop attachment")
}
