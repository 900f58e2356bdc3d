// Copyright © 2018 The ELPS authors

package scheme_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tessellate/schemer/scheme"
	"github.com/tessellate/schemer/schemetest"
)

func TestEnvShadowing(t *testing.T) {
	x := scheme.Symbol("x")
	parent := scheme.NewTopLevel(scheme.StandardRuntime())
	require.NoError(t, parent.Insert(x, scheme.Int(1)))
	child := scheme.NewChild(parent)
	require.NoError(t, child.Insert(x, scheme.Int(2)))

	v, ok := child.Get(x)
	require.True(t, ok)
	assert.Equal(t, "2", v.(scheme.Number).String())

	back := child.ReturnToParent()
	assert.Same(t, parent, back)
	v, ok = back.Get(x)
	require.True(t, ok)
	assert.Equal(t, "1", v.(scheme.Number).String())
}

func TestEnvLookupFallsThrough(t *testing.T) {
	root := scheme.NewTopLevel(scheme.StandardRuntime())
	require.NoError(t, root.Insert(scheme.Symbol("a"), scheme.Int(1)))
	child := scheme.NewChildNamed(scheme.NewChild(root), "my label")
	assert.Equal(t, "*my-label*", child.Name)
	assert.True(t, child.IsBound(scheme.Symbol("a")))
	_, ok := child.GetLocal(scheme.Symbol("a"))
	assert.False(t, ok)
	assert.Same(t, root, child.Root())
	assert.Equal(t, root.Runtime, child.Runtime)
	assert.NotEqual(t, root.ID, child.ID)
}

func TestEnvUpdate(t *testing.T) {
	x := scheme.Symbol("x")
	root := scheme.NewTopLevel(scheme.StandardRuntime())
	require.NoError(t, root.Insert(x, scheme.Int(1)))
	child := scheme.NewChild(root)
	require.NoError(t, child.Update(x, scheme.Int(3)))
	_, local := child.GetLocal(x)
	assert.False(t, local)
	v, _ := root.Get(x)
	assert.Equal(t, "3", v.(scheme.Number).String())

	err := child.Update(scheme.Symbol("y"), scheme.Int(1))
	assert.True(t, errors.Is(err, scheme.ErrUnboundVariable))
}

func TestEnvImmutable(t *testing.T) {
	x := scheme.Symbol("x")
	env := scheme.NewEnvNamed(nil, "frozen")
	require.NoError(t, env.Insert(x, scheme.Int(1)))
	assert.False(t, env.IsImmutable())
	assert.Same(t, env, env.MakeImmutable())
	assert.True(t, env.IsImmutable())

	for i := 0; i < 3; i++ {
		err := env.Insert(scheme.Symbol("y"), scheme.Int(2))
		assert.True(t, errors.Is(err, scheme.ErrImmutableEnvironment))
	}
	assert.False(t, env.IsBound(scheme.Symbol("y")))
	err := env.Update(x, scheme.Int(5))
	assert.True(t, errors.Is(err, scheme.ErrImmutableEnvironment))
	v, _ := env.Get(x)
	assert.Equal(t, "1", v.(scheme.Number).String())

	ex := scheme.NewExports()
	ex.Set(scheme.Symbol("z"), scheme.Int(0))
	assert.True(t, errors.Is(env.Import(ex), scheme.ErrImmutableEnvironment))
	assert.False(t, env.IsBound(scheme.Symbol("z")))

	// Children of an immutable environment are mutable.
	child := scheme.NewChild(env)
	assert.NoError(t, child.Insert(scheme.Symbol("y"), scheme.Int(2)))
}

func TestEnvNames(t *testing.T) {
	root := scheme.NewTopLevel(scheme.StandardRuntime())
	require.NoError(t, root.Insert(scheme.Symbol("b"), scheme.Int(1)))
	require.NoError(t, root.Insert(scheme.Symbol("a"), scheme.Int(1)))
	child := scheme.NewChild(root)
	require.NoError(t, child.Insert(scheme.Symbol("c"), scheme.Int(1)))
	require.NoError(t, child.Insert(scheme.Symbol("a"), scheme.Int(2)))

	names := func(ids []scheme.Identifier) []string {
		var s []string
		for _, id := range ids {
			s = append(s, id.Name())
		}
		return s
	}
	assert.Equal(t, []string{"a", "c"}, names(child.Names()))
	assert.Equal(t, []string{"a", "b", "c"}, names(child.VisibleNames()))
}

func TestEnvConcurrentAccess(t *testing.T) {
	root := scheme.NewTopLevel(scheme.StandardRuntime())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			child := scheme.NewChild(root)
			for j := 0; j < 100; j++ {
				_ = root.Insert(scheme.Symbol("shared"), scheme.Int(int64(j)))
				_ = child.Insert(scheme.Symbol("local"), scheme.Int(int64(i)))
				root.Get(scheme.Symbol("shared"))
			}
		}(i)
	}
	wg.Wait()
	assert.True(t, root.IsBound(scheme.Symbol("shared")))
}

func TestEnvironmentProcedures(t *testing.T) {
	tests := schemetest.TestSuite{
		{"eval", schemetest.TestSequence{
			{`(eval '(+ 1 2))`, `3`, ``},
			{`(eval '(* 2 3) (environment '(scheme base)))`, `6`, ``},
			{`(eval '(define x 1) (environment '(scheme base)))`, `immutable environment: environment`, ``},
			{`(eval 'char-upcase (environment '(scheme base)))`, `unbound variable: char-upcase`, ``},
			{`(eval '(char-upcase #\a) (environment '(scheme base) '(scheme char)))`, `#\A`, ``},
			{`(eval 1 2)`, `eval: expected environment but got number`, ``},
		}},
		{"interaction environment", schemetest.TestSequence{
			{`(define y 7)`, `#<unspecified>`, ``},
			{`(let ((y 1)) (eval 'y (interaction-environment)))`, `7`, ``},
			{`(eval '(define z 9) (interaction-environment))`, `#<unspecified>`, ``},
			{`z`, `9`, ``},
		}},
		{"set!", schemetest.TestSequence{
			{`(set! undefined-var 1)`, `unbound variable: undefined-var`, ``},
			{`(define v 1)`, `#<unspecified>`, ``},
			{`(define (bump) (set! v (+ v 1)) v)`, `#<unspecified>`, ``},
			{`(bump)`, `2`, ``},
			{`(let ((v 10)) (set! v 11) v)`, `11`, ``},
			{`v`, `2`, ``},
			{`(set! 1 2)`, `bad syntax in set!: target is not an identifier: 1`, ``},
		}},
	}
	schemetest.RunTestSuite(t, tests)
}
