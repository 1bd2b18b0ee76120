package main

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/bitfield/layout"
	"github.com/wippyai/bitfield/view"
	"github.com/wippyai/bitfield/wide"
)

// row is one rendered field. Nested fields produce a row for the whole
// field followed by rows for the inner fields.
type row struct {
	path  string
	bits  string
	typ   string
	value string
	raw   string
	leaf  bool
	depth int
}

func collect(v view.View, prefix string, depth int) []row {
	var rows []row
	for _, f := range v.Layout().Fields() {
		path := prefix + f.Name
		r := row{
			path:  path,
			bits:  fmt.Sprintf("%d:%d", f.Offset, f.End()-1),
			typ:   typeName(f),
			value: formatValue(v, f),
			raw:   "0x" + v.Wide(f).AsUnsigned().Text(16),
			leaf:  !f.IsNested(),
			depth: depth,
		}
		rows = append(rows, r)
		if f.IsNested() {
			if sub, err := v.Sub(f); err == nil {
				rows = append(rows, collect(sub, path+".", depth+1)...)
			}
		}
	}
	return rows
}

func typeName(f *layout.Field) string {
	if f.IsNested() {
		return f.Nested.Name()
	}
	return f.Type.String()
}

func formatValue(v view.View, f *layout.Field) string {
	switch {
	case f.IsNested():
		return ""
	case f.Type.Kind == layout.KindBool:
		return fmt.Sprint(v.Bool(f))
	}
	return v.Wide(f).String()
}

// setField assigns text to the field at a dotted path such as Flags.DF.
func setField(v view.View, path, text string) error {
	names := strings.Split(path, ".")
	for _, name := range names[:len(names)-1] {
		f, err := v.Layout().Field(name)
		if err != nil {
			return err
		}
		if v, err = v.Sub(f); err != nil {
			return err
		}
	}

	f, err := v.Layout().Field(names[len(names)-1])
	if err != nil {
		return err
	}
	x, err := parseValue(f, text)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	v.SetWide(f, x)
	layout.Logger().Debug("field set",
		zap.String("path", path),
		zap.String("value", x.String()))
	return nil
}

func parseValue(f *layout.Field, text string) (wide.Value, error) {
	if f.Type.Kind == layout.KindBool {
		switch strings.ToLower(text) {
		case "true", "yes", "on":
			return wide.FromUint64(1, 1), nil
		case "false", "no", "off":
			return wide.New(1), nil
		}
	}
	if f.SignExtends() {
		return wide.ParseSigned(text, f.Width)
	}
	return wide.Parse(text, f.Width)
}
