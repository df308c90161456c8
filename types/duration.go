package types

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseDuration parses a config duration string into whole seconds.
// Two canonical forms are accepted, mirroring TorcControl::ParseTimeString's
// Days/Hours/Minutes/Seconds decomposition (original_source/control/torccontrol.h):
//
//	"3661"            -- a bare integer count of seconds
//	"1d01:01:01"       -- optional "<days>d" prefix, then HH:MM:SS
//
// Returns ok=false on anything unparseable; callers treat that as a
// configuration error (spec.md §7 kind 1) and drop the device.
func ParseDuration(s string) (seconds uint64, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		return n, true
	}

	var days uint64
	rest := s
	if i := strings.IndexByte(s, 'd'); i >= 0 {
		d, err := strconv.ParseUint(s[:i], 10, 64)
		if err != nil {
			return 0, false
		}
		days = d
		rest = s[i+1:]
	}

	parts := strings.Split(rest, ":")
	if len(parts) != 3 {
		return 0, false
	}
	hours, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil || minutes > 59 {
		return 0, false
	}
	secs, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil || secs > 59 {
		return 0, false
	}

	total := days*86400 + hours*3600 + minutes*60 + secs
	return total, true
}

// FormatDuration renders seconds in the canonical "[<days>d]HH:MM:SS" form,
// the inverse of ParseDuration for any value it can itself produce (the
// round-trip law in spec.md §8).
func FormatDuration(seconds uint64) string {
	days := seconds / 86400
	rem := seconds % 86400
	hours := rem / 3600
	rem %= 3600
	minutes := rem / 60
	secs := rem % 60

	if days > 0 {
		return fmt.Sprintf("%dd%02d:%02d:%02d", days, hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}
