package sap

import (
	"fmt"
	"io"
)

// CallStack tracks the function invocations active during evaluation.
type CallStack struct {
	Frames []CallFrame
	// MaxHeight limits the number of frames the stack will accept.
	// Zero means no limit.
	MaxHeight int
}

// CallFrame is a single invocation on a CallStack.
type CallFrame struct {
	Name string
}

// Copy returns a deep copy of s.  Errors capture copies so that their
// traces survive the stack unwinding that follows.
func (s *CallStack) Copy() *CallStack {
	frames := make([]CallFrame, len(s.Frames))
	copy(frames, s.Frames)
	return &CallStack{Frames: frames, MaxHeight: s.MaxHeight}
}

// Top returns the CallFrame at the top of the stack or nil if none
// exists.
func (s *CallStack) Top() *CallFrame {
	if s == nil || len(s.Frames) == 0 {
		return nil
	}
	return &s.Frames[len(s.Frames)-1]
}

// Push adds a new frame to the top of the stack.  Push returns false
// when the stack already holds MaxHeight frames.
func (s *CallStack) Push(name string) bool {
	if s.MaxHeight > 0 && len(s.Frames) >= s.MaxHeight {
		return false
	}
	s.Frames = append(s.Frames, CallFrame{Name: name})
	return true
}

// Pop removes the frame at the top of the stack and returns it.  Pop
// panics when the stack is empty.
func (s *CallStack) Pop() CallFrame {
	if len(s.Frames) < 1 {
		panic("pop called on an empty stack")
	}
	f := s.Frames[len(s.Frames)-1]
	s.Frames[len(s.Frames)-1] = CallFrame{}
	s.Frames = s.Frames[:len(s.Frames)-1]
	return f
}

// DebugPrint prints s
func (s *CallStack) DebugPrint(w io.Writer) (int, error) {
	n, err := fmt.Fprintf(w, "Stack Trace [%d frames -- entrypoint last]:\n", len(s.Frames))
	if err != nil {
		return n, err
	}
	for i := len(s.Frames) - 1; i >= 0; i-- {
		m, err := fmt.Fprintf(w, "  height %d: %s\n", i, s.Frames[i].Name)
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
