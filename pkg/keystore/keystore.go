// Package keystore resolves the key-derivation password from one of the
// configured sources: an inline value, a password file or an interactive
// terminal prompt.
package keystore

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// ErrKeystore is wrapped when password retrieval fails.
var ErrKeystore = errors.New("keystore error")

// Params selects where the signing password comes from. Sources are
// consulted in order: inline value, password file, interactive prompt.
// With none configured, no password is used.
type Params struct {
	Password         string `json:"password,omitempty" yaml:"password,omitempty"`
	PasswordFilename string `json:"passwordFilename,omitempty" yaml:"passwordFilename,omitempty"`
	Interactive      bool   `json:"interactive" yaml:"interactive"`
}

// ReadPassword resolves the password and reports whether one was supplied.
func (p *Params) ReadPassword() (string, bool, error) {
	switch {
	case p.Password != "":
		return p.Password, true, nil

	case p.PasswordFilename != "":
		raw, err := os.ReadFile(p.PasswordFilename)
		if err != nil {
			return "", false, errors.Wrapf(ErrKeystore, "read password file %s: %v", p.PasswordFilename, err)
		}
		// Editors leave a trailing newline; it is never part of the password.
		return strings.TrimRight(string(raw), "\r\n"), true, nil

	case p.Interactive:
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return "", false, errors.Wrap(ErrKeystore, "interactive password prompt needs a terminal")
		}
		fmt.Fprint(os.Stderr, "Key password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", false, errors.Wrapf(ErrKeystore, "read password: %v", err)
		}
		return string(raw), true, nil
	}

	return "", false, nil
}
