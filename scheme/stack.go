// Copyright © 2018 The ELPS authors

package scheme

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// CallStack is a procedure call stack.  Evaluation does not eliminate tail
// calls so the height of the stack is the nesting depth of active calls.
type CallStack struct {
	mu     sync.Mutex
	Frames []CallFrame
	// MaxHeight bounds the number of frames.  Zero means unbounded.
	MaxHeight int
}

// CallFrame is one frame in the CallStack
type CallFrame struct {
	Name    string
	Env     string
	Builtin bool
}

func (f *CallFrame) String() string {
	var mod bytes.Buffer
	if f.Builtin {
		mod.WriteString(" [builtin]")
	}
	if f.Env != "" {
		fmt.Fprintf(&mod, " in %s", f.Env)
	}
	return fmt.Sprintf("%s%s", f.Name, mod.String())
}

// Copy creates a copy of the current stack so that it can be attached to an
// error.
func (s *CallStack) Copy() *CallStack {
	s.mu.Lock()
	defer s.mu.Unlock()
	frames := make([]CallFrame, len(s.Frames))
	copy(frames, s.Frames)
	return &CallStack{
		MaxHeight: s.MaxHeight,
		Frames:    frames,
	}
}

// Height returns the number of frames on the stack.
func (s *CallStack) Height() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Frames)
}

// Top returns the CallFrame at the top of the stack or nil if none exists.
func (s *CallStack) Top() *CallFrame {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Frames) == 0 {
		return nil
	}
	f := s.Frames[len(s.Frames)-1]
	return &f
}

// PushFrame pushes f onto s.  A KindStackDepth error is returned, and
// nothing is pushed, when s is already at its maximum height.
func (s *CallStack) PushFrame(f CallFrame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.MaxHeight > 0 && len(s.Frames) >= s.MaxHeight {
		stack := &CallStack{MaxHeight: s.MaxHeight, Frames: append([]CallFrame(nil), s.Frames...)}
		return &Error{Kind: KindStackDepth, Max: s.MaxHeight, Stack: stack}
	}
	s.Frames = append(s.Frames, f)
	return nil
}

// PopFrame removes the top CallFrame from the stack and returns it.
func (s *CallStack) PopFrame() CallFrame {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Frames) < 1 {
		panic("pop called on an empty stack")
	}
	f := s.Frames[len(s.Frames)-1]
	s.Frames[len(s.Frames)-1] = CallFrame{}
	s.Frames = s.Frames[:len(s.Frames)-1]
	return f
}

// Reset discards every frame.  The REPL resets the stack after an error
// escapes to the top level.
func (s *CallStack) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Frames = s.Frames[:0]
}

// DebugPrint prints s
func (s *CallStack) DebugPrint(w io.Writer) (int, error) {
	n, err := fmt.Fprintf(w, "Stack Trace [%d frames -- entrypoint last]:\n", len(s.Frames))
	if err != nil {
		return n, err
	}
	indent := "  "
	for i := len(s.Frames) - 1; i >= 0; i-- {
		fstr := s.Frames[i].String()
		_n, err := fmt.Fprintf(w, "%sheight %d: %s\n", indent, i, fstr)
		n += _n
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
