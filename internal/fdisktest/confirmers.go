package fdisktest

import (
	"github.com/sdkit/fdisk"
	"github.com/sdkit/fdisk/geometry"
)

// Confirmer records the geometry it was shown and answers with a fixed
// decision.
type Confirmer struct {
	Accept bool
	Shown  []geometry.Filesystem
}

func (c *Confirmer) Confirm(fs geometry.Filesystem) error {
	c.Shown = append(c.Shown, fs)
	if c.Accept {
		return nil
	}
	return fdisk.ErrNotConfirmed.WithMessage("declined by test")
}
