// Copyright © 2024 The ELPS authors

package cmd

import (
	"errors"
	"io"

	"github.com/spf13/viper"
	"github.com/tessellate/schemer/diagnostic"
	"github.com/tessellate/schemer/scheme"
)

func colorMode() diagnostic.ColorMode {
	mode, err := diagnostic.ParseColorMode(viper.GetString("color"))
	if err != nil {
		return diagnostic.ColorAuto
	}
	return mode
}

func newRenderer() *diagnostic.Renderer {
	return &diagnostic.Renderer{Color: colorMode()}
}

// renderError renders err with diagnostic formatting.  file is the source
// being evaluated, if any.  When src is given it is shown in place of the
// contents of file.
func renderError(w io.Writer, err error, file string, src ...string) {
	if file == "" {
		file = diagnostic.StdinName
	}
	d := diagnostic.FromError(err, file)
	switch {
	case errors.Is(err, scheme.ErrStepLimit):
		d.Notes = append(d.Notes, "raise the limit with --max-steps or SCHEMER_MAX_STEPS")
	case errors.Is(err, scheme.ErrStackDepth):
		d.Notes = append(d.Notes, "raise the limit with --max-depth or SCHEMER_MAX_DEPTH")
	case errors.Is(err, scheme.ErrUnboundVariable):
		d.Notes = append(d.Notes, "try: schemer doc --apropos NAME")
	}
	r := newRenderer()
	if len(src) > 0 {
		text := src[0]
		r.SourceReader = func(string) ([]byte, error) { return []byte(text), nil }
	}
	_ = r.Render(w, d)
}
