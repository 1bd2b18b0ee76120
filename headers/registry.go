package headers

import (
	"sort"

	"github.com/wippyai/bitfield/layout"
)

var registry = map[string]*layout.Layout{
	"ipv4":       IPv4,
	"ipv4_flags": IPv4Flags,
	"ipv6":       IPv6,
	"udp":        UDP,
	"tcp":        TCP,
	"tcp_flags":  TCPFlags,
}

// Lookup returns a header layout by its short name.
func Lookup(name string) (*layout.Layout, bool) {
	l, ok := registry[name]
	return l, ok
}

// Names lists the registered header names in order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
