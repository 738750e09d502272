package datalib

import (
	"regexp"
	"strconv"
	"strings"
)

var numre = regexp.MustCompile(`^[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?$`)

// missingTokens are read as missing cells by every text-based reader.
var missingTokens = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "n/a": {}, "NaN": {}, "nan": {}, "-NaN": {}, "-nan": {},
	"null": {}, "NULL": {}, "None": {}, "#N/A": {}, "<NA>": {},
}

// IsMissingToken reports whether a raw text cell stands for a missing value.
// The match is exact: padded tokens are text.
func IsMissingToken(s string) bool {
	_, ok := missingTokens[s]
	return ok
}

// missingIn reports whether raw is missing for a column of kind k. Text
// columns keep whitespace; other kinds trim it first.
func missingIn(k Kind, raw string) bool {
	if k == KindString {
		return IsMissingToken(raw)
	}
	return IsMissingToken(strings.TrimSpace(raw))
}

// InferKinds picks a kind per column from sampled text records. A column is
// int when every present cell is an integer, float when every present cell is
// numeric, bool when every present cell is true/false, string otherwise.
// Columns with no present cells are float, so they can hold imputed numbers.
// Integers that overflow int64 make the column float.
func InferKinds(rows [][]string, ncol int) []Kind {
	kinds := make([]Kind, ncol)
	for c := 0; c < ncol; c++ {
		present, num, integer, boolean := 0, 0, 0, 0
		for _, row := range rows {
			if c >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[c])
			if IsMissingToken(v) {
				continue
			}
			present++
			if numre.MatchString(v) {
				num++
				if _, err := strconv.ParseInt(v, 10, 64); err == nil {
					integer++
				}
				continue
			}
			if lv := strings.ToLower(v); lv == "true" || lv == "false" {
				boolean++
			}
		}
		switch {
		case present == 0:
			kinds[c] = KindFloat
		case integer == present:
			kinds[c] = KindInt
		case num == present:
			kinds[c] = KindFloat
		case boolean == present:
			kinds[c] = KindBool
		default:
			kinds[c] = KindString
		}
	}
	return kinds
}

// SetText parses raw into the named column's kind and stores it. Missing
// tokens and unparsable cells become missing; it reports whether the cell was
// stored as a value. Text cells are stored as read; other kinds are trimmed
// before parsing.
func (t *Table) SetText(row int, name, raw string) bool {
	c, ok := t.ColumnByName(name)
	if !ok || missingIn(c.Kind(), raw) {
		return false
	}
	if col, isText := c.(*StringColumn); isText {
		col.Set(row, strings.ToValidUTF8(raw, "?"))
		return true
	}
	val := strings.TrimSpace(raw)
	switch col := c.(type) {
	case *FloatColumn:
		if x, err := strconv.ParseFloat(val, 64); err == nil {
			col.Set(row, x)
			return true
		}
	case *IntColumn:
		if x, err := strconv.ParseInt(val, 10, 64); err == nil {
			col.Set(row, x)
			return true
		}
		if x, err := strconv.ParseFloat(val, 64); err == nil && x == float64(int64(x)) {
			col.Set(row, int64(x))
			return true
		}
	case *BoolColumn:
		if x, err := strconv.ParseBool(strings.ToLower(val)); err == nil {
			col.Set(row, x)
			return true
		}
	case *TimeColumn:
		if x, err := parseTime(val); err == nil {
			col.Set(row, x)
			return true
		}
	}
	return false
}

// AppendRecord appends one text record in schema order. Short records leave
// the trailing cells missing; extra fields are ignored. A present cell that
// does not parse as its column's kind widens the column (int to float when
// the cell is numeric, otherwise to string) so no value is lost.
func (t *Table) AppendRecord(rec []string) {
	t.AppendNullRow()
	row := t.nrows - 1
	for i, cs := range t.schema.Columns {
		if i >= len(rec) {
			break
		}
		if t.SetText(row, cs.Name, rec[i]) || missingIn(cs.Type, rec[i]) {
			continue
		}
		t.widen(i, widerKind(cs.Type, rec[i]))
		t.SetText(row, cs.Name, rec[i])
	}
}

func widerKind(k Kind, raw string) Kind {
	if k == KindInt {
		if _, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			return KindFloat
		}
	}
	return KindString
}

// widen rebuilds column i as kind k, carrying over the present cells.
func (t *Table) widen(i int, k Kind) {
	old := t.cols[i]
	nc, _ := NewColumn(old.Name(), k, old.Len())
	for r := 0; r < old.Len(); r++ {
		switch dst := nc.(type) {
		case *FloatColumn:
			if v, ok := old.(*IntColumn).Get(r); ok {
				dst.Set(r, float64(v))
			}
		case *StringColumn:
			if s, ok := FormatCell(old, r); ok {
				dst.Set(r, s)
			}
		}
	}
	t.cols[i] = nc
	t.schema.Columns[i].Type = k
}
