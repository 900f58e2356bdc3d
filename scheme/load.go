// Copyright © 2018 The ELPS authors

package scheme

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrNoReader is returned by the Load family when the runtime has no Reader.
var ErrNoReader = errors.New("no reader for environment runtime")

// LoadString reads and evaluates exprs as if they were the contents of a file
// called name.
func (env *Env) LoadString(name, exprs string) (Expression, error) {
	return env.Load(name, strings.NewReader(exprs))
}

// LoadFile reads the file at path and evaluates the datums it contains.
func (env *Env) LoadFile(path string) (Expression, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, FileError(path, err)
	}
	return env.Load(path, bytes.NewReader(src))
}

// Load reads datums from r and evaluates them in order as if in a begin.
// The value of the last datum is returned.  Nothing is evaluated when r does
// not parse.
func (env *Env) Load(name string, r io.Reader) (Expression, error) {
	if env.Runtime.Reader == nil {
		return nil, ErrNoReader
	}
	exprs, err := env.Runtime.Reader.Read(name, r)
	if err != nil {
		var serr *Error
		if errors.As(err, &serr) {
			return nil, err
		}
		return nil, ParserError(name, err)
	}
	if env.Runtime.Logger != nil {
		env.Runtime.Logger.WithFields(logrus.Fields{
			"env":    env.Name,
			"source": name,
			"forms":  len(exprs),
		}).Debug("load")
	}
	return env.EvalSequence(exprs)
}
