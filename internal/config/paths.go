package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// expandPath resolves environment variables and a leading ~ in paths taken
// from config files, env or flags. On Windows %VAR% references and a ~\
// prefix are understood as well.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if runtime.GOOS == "windows" {
		p = expandPercentVars(p, os.LookupEnv)
	}

	rest, ok := trimHome(p)
	if !ok {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if rest == "" {
		return home
	}
	return filepath.Join(home, rest)
}

// trimHome reports whether p starts at the home directory and returns the
// remainder after the ~ and its separator.
func trimHome(p string) (string, bool) {
	if p == "~" {
		return "", true
	}
	if rest, ok := strings.CutPrefix(p, "~/"); ok {
		return rest, true
	}
	if runtime.GOOS == "windows" {
		if rest, ok := strings.CutPrefix(p, `~\`); ok {
			return rest, true
		}
	}
	return "", false
}

// expandPercentVars replaces %NAME% with the value lookup returns. Unknown
// names and a lone or doubled % are kept as written.
func expandPercentVars(p string, lookup func(string) (string, bool)) string {
	var b strings.Builder
	for {
		before, after, found := strings.Cut(p, "%")
		if !found {
			b.WriteString(p)
			return b.String()
		}
		b.WriteString(before)
		name, tail, closed := strings.Cut(after, "%")
		switch {
		case !closed:
			b.WriteString("%" + after)
			return b.String()
		case name == "":
			// %% keeps one percent and rescans from the second.
			b.WriteByte('%')
			p = "%" + tail
			continue
		}
		if val, ok := lookup(name); ok {
			b.WriteString(val)
		} else {
			b.WriteString("%" + name + "%")
		}
		p = tail
	}
}
