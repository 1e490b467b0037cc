package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var errNotConfirmed = errors.New("not confirmed, rerun with --yes")

// confirm asks on the terminal. Without a terminal on stdin nothing is
// asked and the answer is no.
func confirm(out io.Writer, question string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errNotConfirmed
	}
	return ask(os.Stdin, out, question)
}

func ask(in io.Reader, out io.Writer, question string) error {
	_, _ = fmt.Fprintf(out, "%s [y/N] ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	default:
		return errNotConfirmed
	}
}
