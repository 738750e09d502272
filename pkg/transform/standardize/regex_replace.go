package standardize

import (
	"context"
	"regexp"

	dl "github.com/wdm0006/datalib/pkg/datalib"
	"github.com/wdm0006/datalib/pkg/transform/validate"
)

type RegexReplace struct {
	Column  string
	Pattern string
	Replace string
	re      *regexp.Regexp
}

func (t *RegexReplace) Name() string   { return "regex_replace" }
func (t *RegexReplace) Target() string { return t.Column }

func (t *RegexReplace) Apply(ctx context.Context, tb *dl.Table) (*dl.Table, error) {
	if t.re == nil {
		re, err := regexp.Compile(t.Pattern)
		if err != nil {
			return nil, dl.Errorf(t.Name(), t.Column, "%w: pattern: %v", dl.ErrConfiguration, err)
		}
		t.re = re
	}
	c, err := validate.Text(tb, t.Name(), t.Column)
	if err != nil {
		return nil, err
	}
	eachText(c, func(v string) string { return t.re.ReplaceAllString(v, t.Replace) })
	return tb, nil
}
