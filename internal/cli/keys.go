package cli

import (
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"sublate/internal/control"
	"sublate/internal/logging"
)

func interactiveTerminal() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// startKeyListener puts the terminal in raw mode and watches for single-key
// commands: 'q' (or ctrl-c) cancels the run, 's' skips the current file.
// The returned stop function restores the terminal. On a non-interactive
// stdin it does nothing and returns a no-op stop.
func startKeyListener(signals *control.Signals, log *logging.Logger) func() {
	if !interactiveTerminal() {
		return func() {}
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		log.Debugw("could not enable raw terminal mode", "error", err)
		return func() {}
	}

	log.Infow("Keyboard controls active: press 's' to skip the current file, 'q' to cancel")

	done := make(chan struct{})
	go func() {
		buf := make([]byte, 1)
		for {
			select {
			case <-done:
				return
			default:
			}
			n, err := os.Stdin.Read(buf)
			if err != nil || n == 0 {
				return
			}
			switch buf[0] {
			case 'q', 'Q', 0x03: // ctrl-c in raw mode arrives as a byte
				signals.Cancel()
				return
			case 's', 'S':
				signals.Skip()
			}
		}
	}()

	return func() {
		close(done)
		_ = term.Restore(fd, oldState)
	}
}
