package commands

import (
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/pvlsite/internal/config"
)

// TargetList collects output target names. Names may be separated by commas
// (--targets build,dist), given as following arguments (--targets build dist),
// or both. Following arguments are taken only while they name a known target,
// so flags and command names after the list still parse.
type TargetList []string

// Decode implements kong.MapperValue.
func (l *TargetList) Decode(ctx *kong.DecodeContext) error {
	first, err := ctx.Scan.PopValue("targets")
	if err != nil {
		return err
	}
	*l = append(*l, splitTargets(first.String())...)

	for {
		next := ctx.Scan.Peek()
		if next.Type != kong.UntypedToken || !next.IsValue() {
			return nil
		}
		names := splitTargets(next.String())
		if len(names) == 0 || !allKnown(names) {
			return nil
		}
		ctx.Scan.Pop()
		*l = append(*l, names...)
	}
}

func splitTargets(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func allKnown(names []string) bool {
	for _, n := range names {
		if !config.IsKnownTarget(n) {
			return false
		}
	}
	return true
}
