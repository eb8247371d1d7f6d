package confirm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sdkit/fdisk"
	"github.com/sdkit/fdisk/geometry"
)

// Phrase shows the planned layout and then reads lines until one of them is
// exactly [ConfirmationPhrase]. Anything else is answered with
// [MismatchMessage] and the prompt is repeated, for as long as there's input.
// Running out of input counts as refusal.
type Phrase struct {
	input  *bufio.Reader
	output io.Writer
}

func NewPhrase(input io.Reader, output io.Writer) *Phrase {
	return &Phrase{
		input:  bufio.NewReader(input),
		output: output,
	}
}

func (c *Phrase) Confirm(fs geometry.Filesystem) error {
	err := WriteSummary(c.output, fs)
	if err != nil {
		return fdisk.ErrNotConfirmed.Wrap(err)
	}

	for {
		fmt.Fprintln(c.output)
		fmt.Fprintln(c.output, PromptMessage)

		line, err := c.input.ReadString('\n')
		if strings.TrimRight(line, "\r\n") == ConfirmationPhrase {
			return nil
		}
		if errors.Is(err, io.EOF) {
			return fdisk.ErrNotConfirmed.WithMessage("input ended without confirmation")
		} else if err != nil {
			return fdisk.ErrNotConfirmed.Wrap(err)
		}

		fmt.Fprintln(c.output, MismatchMessage)
	}
}
