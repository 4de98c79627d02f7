// Copyright 2026 The Spool Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package invoke

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"golang.org/x/term"

	"github.com/spoolkit/spool/pkg/errors"
)

// Confirmer asks a yes/no question and returns the answer.
type Confirmer interface {
	// Confirm prompts with the given message. def is returned on an empty
	// line or end-of-stream.
	Confirm(prompt string, def bool) (bool, error)
}

// ConsoleConfirmer implements the confirmation state machine. The state,
// tty-available or tty-unavailable, is decided once per request: when
// standard input is an interactive terminal it prompts there directly;
// otherwise it opens the platform's console device (/dev/tty on POSIX, CON
// on Windows) in read-write mode for a single read, releasing it on every
// exit path. If the device cannot be opened the confirmation fails with
// PromptUnavailable.
type ConsoleConfirmer struct {
	stdin  *os.File
	stdout io.Writer

	// isTerminal and openDevice are replaceable for tests.
	isTerminal func(fd int) bool
	openDevice func() (io.ReadWriteCloser, error)
}

// NewConsoleConfirmer creates a confirmer bound to the process's stdio.
func NewConsoleConfirmer() *ConsoleConfirmer {
	return &ConsoleConfirmer{
		stdin:      os.Stdin,
		stdout:     os.Stderr,
		isTerminal: term.IsTerminal,
		openDevice: openConsoleDevice,
	}
}

// consoleDevicePath returns the dedicated prompt device for the platform.
func consoleDevicePath() string {
	if runtime.GOOS == "windows" {
		return "CON"
	}
	return "/dev/tty"
}

func openConsoleDevice() (io.ReadWriteCloser, error) {
	return os.OpenFile(consoleDevicePath(), os.O_RDWR, 0)
}

// Confirm implements Confirmer.
func (c *ConsoleConfirmer) Confirm(prompt string, def bool) (bool, error) {
	if c.isTerminal(int(c.stdin.Fd())) {
		fmt.Fprint(c.stdout, prompt)
		return parseAnswer(readLine(c.stdin), def)
	}

	device, err := c.openDevice()
	if err != nil {
		return false, &errors.PromptUnavailableError{
			Device: consoleDevicePath(),
			Cause:  err,
		}
	}
	defer device.Close()

	fmt.Fprint(device, prompt)
	return parseAnswer(readLine(device), def)
}

// readLine reads one line; end-of-stream yields the empty string, which
// parseAnswer maps to the default.
func readLine(r io.Reader) string {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return ""
	}
	return scanner.Text()
}

func parseAnswer(line string, def bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return false, &errors.InvalidConfirmationError{Answer: strings.TrimSpace(line)}
	}
}

// ConfirmPrompt renders the standard destructive-command confirmation line.
func ConfirmPrompt(token string) string {
	return fmt.Sprintf("Command %q is destructive. Proceed? [y/N]: ", token)
}
