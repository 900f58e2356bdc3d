// Copyright © 2024 The ELPS authors

package repl

import (
	"errors"
	"io"

	"github.com/tessellate/schemer/diagnostic"
	"github.com/tessellate/schemer/scheme"
)

// renderError renders err with the diagnostic renderer.  Input comes from
// stdin so no source snippet is shown.  Unbound variables get a hint about
// the help library.
func renderError(r *diagnostic.Renderer, w io.Writer, err error) {
	d := diagnostic.FromError(err, diagnostic.StdinName)
	if errors.Is(err, scheme.ErrUnboundVariable) {
		d.Notes = append(d.Notes, `use (apropos "name") to search the available bindings`)
	}
	_ = r.Render(w, d)
}
