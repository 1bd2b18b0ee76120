package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/bitfield/headers"
	"github.com/wippyai/bitfield/layout"
	"github.com/wippyai/bitfield/view"
)

type options struct {
	layout      string
	hex         string
	sets        string
	offset      uint
	list        bool
	interactive bool
	verbose     bool
	styled      bool
}

func main() {
	var (
		layoutName  = flag.String("layout", "ipv4", "Header layout to decode ("+strings.Join(headers.Names(), ", ")+")")
		hexData     = flag.String("hex", "", "Buffer as hex; spaces, ':' and '-' are ignored. Empty means zeroed")
		offset      = flag.Uint("offset", 0, "Byte offset of the header within the buffer")
		sets        = flag.String("set", "", "Field assignments (Field=value,Sub.Field=value)")
		list        = flag.Bool("list", false, "List known layouts and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Debug logging to stderr")
		plain       = flag.Bool("plain", false, "Plain output without colors")
	)
	flag.Parse()

	opts := options{
		layout:      *layoutName,
		hex:         *hexData,
		sets:        *sets,
		offset:      *offset,
		list:        *list,
		interactive: *interactive,
		verbose:     *verbose,
		styled:      !*plain && term.IsTerminal(int(os.Stdout.Fd())),
	}

	if opts.verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer log.Sync()
		layout.SetLogger(log)
	}

	if err := run(opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options, out io.Writer) error {
	if opts.list {
		for _, name := range headers.Names() {
			l, _ := headers.Lookup(name)
			fmt.Fprintf(out, "%-12s %4d bits  %d fields\n", name, l.Width(), l.NumFields())
		}
		return nil
	}

	l, ok := headers.Lookup(opts.layout)
	if !ok {
		return fmt.Errorf("unknown layout %q (known: %s)", opts.layout, strings.Join(headers.Names(), ", "))
	}

	buf, err := decodeHex(opts.hex, opts.offset+l.SizeInBytes())
	if err != nil {
		return fmt.Errorf("decode hex: %w", err)
	}

	v, err := view.New(l, buf, opts.offset)
	if err != nil {
		return err
	}
	layout.Logger().Debug("view built",
		zap.String("layout", l.Name()),
		zap.Int("buffer", len(buf)),
		zap.Uint("offset", opts.offset))

	if err := applySets(v, opts.sets); err != nil {
		return err
	}

	if opts.interactive {
		final, err := runInteractive(v, opts.styled)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, hex.EncodeToString(final))
		return nil
	}

	fmt.Fprintln(out, renderTable(v, -1, opts.styled))
	fmt.Fprintln(out, renderHex(v))
	return nil
}

// decodeHex parses s, padding with zeros up to size bytes.
func decodeHex(s string, size uint) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', ':', '-', '\n', '\t':
			return -1
		}
		return r
	}, s)
	clean = strings.TrimPrefix(strings.TrimPrefix(clean, "0x"), "0X")

	b, err := hex.DecodeString(clean)
	if err != nil {
		return nil, err
	}
	if uint(len(b)) < size {
		b = append(b, make([]byte, size-uint(len(b)))...)
	}
	return b, nil
}

// applySets applies comma separated Field=value assignments.
func applySets(v view.View, sets string) error {
	if sets == "" {
		return nil
	}
	for _, kv := range strings.Split(sets, ",") {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("bad assignment %q, want Field=value", kv)
		}
		if err := setField(v, strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])); err != nil {
			return err
		}
	}
	return nil
}
