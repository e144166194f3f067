package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// WaitForQuit blocks until a q or Q is read from r, r is exhausted or ctx is done.
// Input is line buffered, so the key has to be followed by Enter on a terminal.
// When ctx ends first the reading goroutine stays blocked on r until the next
// byte or EOF; on stdin that lasts until the process exits.
func WaitForQuit(ctx context.Context, r io.Reader) error {
	done := make(chan error, 1)

	go func() {
		br := bufio.NewReader(r)
		for {
			b, err := br.ReadByte()
			if err != nil {
				done <- err
				return
			}
			if b == 'q' || b == 'Q' {
				done <- nil
				return
			}
		}
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PressEnterToExit prints msg and waits for Enter when in is a terminal.
func PressEnterToExit(in *os.File, out io.Writer, msg string) {
	_, _ = fmt.Fprintln(out, msg)
	if !IsTerminal(in) {
		return
	}
	_, _ = bufio.NewReader(in).ReadString('\n')
}
