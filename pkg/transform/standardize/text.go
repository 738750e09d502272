package standardize

import (
	"context"

	dl "github.com/wdm0006/datalib/pkg/datalib"
	"github.com/wdm0006/datalib/pkg/transform/validate"
)

// SpecialChars matches what RemoveSpecial strips: anything but ASCII letters,
// digits and whitespace. RE2's \s is ASCII only, so vertical tab and the
// Unicode spaces are listed as well.
const SpecialChars = `[^a-zA-Z0-9\s\v\p{Z}\x{1c}-\x{1f}\x{85}]`

// Text cleans a text column: lowercase, then strip surrounding whitespace,
// then remove characters other than ASCII letters, digits and whitespace.
// Each stage runs only when its flag is set.
type Text struct {
	Column        string
	Lower         bool
	Strip         bool
	RemoveSpecial bool
}

func (t *Text) Name() string   { return "clean_text" }
func (t *Text) Target() string { return t.Column }

func (t *Text) Apply(ctx context.Context, tb *dl.Table) (*dl.Table, error) {
	if _, err := validate.Text(tb, t.Name(), t.Column); err != nil {
		return nil, err
	}
	var steps []dl.Transform
	if t.Lower {
		steps = append(steps, &Lower{Column: t.Column})
	}
	if t.Strip {
		steps = append(steps, &Trim{Column: t.Column})
	}
	if t.RemoveSpecial {
		steps = append(steps, &RegexReplace{Column: t.Column, Pattern: SpecialChars})
	}
	for _, s := range steps {
		out, err := s.Apply(ctx, tb)
		if err != nil {
			return nil, err
		}
		tb = out
	}
	return tb, nil
}
