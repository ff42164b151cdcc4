package sap

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallStack(t *testing.T) {
	stack := &CallStack{}
	assert.Nil(t, stack.Top())
	assert.True(t, stack.Push("main"))
	assert.True(t, stack.Push("helper"))
	assert.Equal(t, 2, len(stack.Frames))
	assert.Equal(t, "helper", stack.Top().Name)
	assert.Equal(t, "helper", stack.Pop().Name)
	assert.Equal(t, "main", stack.Top().Name)
	assert.Equal(t, "main", stack.Pop().Name)
	assert.Nil(t, stack.Top())
	assert.Panics(t, func() { stack.Pop() })
}

func TestCallStackMaxHeight(t *testing.T) {
	stack := &CallStack{MaxHeight: 2}
	assert.True(t, stack.Push("a"))
	assert.True(t, stack.Push("b"))
	assert.False(t, stack.Push("c"))
	assert.Equal(t, 2, len(stack.Frames))
	stack.Pop()
	assert.True(t, stack.Push("c"))
}

func TestCallStackCopy(t *testing.T) {
	stack := &CallStack{MaxHeight: 8}
	stack.Push("a")
	stack.Push("b")
	snapshot := stack.Copy()
	assert.Equal(t, 8, snapshot.MaxHeight)

	// Popping the original must not disturb the copied frames.
	stack.Pop()
	stack.Pop()
	stack.Push("z")
	assert.Equal(t, 2, len(snapshot.Frames))
	assert.Equal(t, "a", snapshot.Frames[0].Name)
	assert.Equal(t, "b", snapshot.Frames[1].Name)
}

func TestCallStackDebugPrint(t *testing.T) {
	stack := &CallStack{}
	stack.Push("main")
	stack.Push("f")
	stack.Push("g")
	buf := &bytes.Buffer{}
	_, err := stack.DebugPrint(buf)
	assert.NoError(t, err)
	expect := "Stack Trace [3 frames -- entrypoint last]:\n" +
		"  height 2: g\n" +
		"  height 1: f\n" +
		"  height 0: main\n"
	assert.Equal(t, expect, buf.String())
}
