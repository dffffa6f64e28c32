// Package version carries build metadata, overridable with -ldflags:
//
//	-X underware/internal/version.Version=1.0.0
package version

import (
	"encoding/json"
	"fmt"
	"runtime"
	"strings"

	"github.com/fatih/color"
)

var (
	Version    = "0.1.0-dev"
	GitCommit  = ""
	GitMessage = ""
	BuildDate  = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Info is the snapshot printed by `underware version`.
type Info struct {
	Version    string `json:"version"`
	GitCommit  string `json:"git_commit,omitempty"`
	GitMessage string `json:"git_message,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

func Current() Info {
	return Info{
		Version:    Version,
		GitCommit:  GitCommit,
		GitMessage: GitMessage,
		BuildDate:  BuildDate,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Colored paints major, minor and patch separately; the pre-release tail
// stays plain. Whether colour is emitted follows color.NoColor.
func Colored(v string) string {
	core, tail, _ := strings.Cut(v, "-")
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return v
	}
	out := majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2])
	if tail != "" {
		out += "-" + tail
	}
	return out
}

// Pretty renders info; full adds build details.
func (i Info) Pretty(full bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "underware %s\n", Colored(i.Version))
	if !full {
		return sb.String()
	}
	if i.GitCommit != "" {
		fmt.Fprintf(&sb, "  commit:   %s\n", i.GitCommit)
	}
	if i.GitMessage != "" {
		fmt.Fprintf(&sb, "  message:  %s\n", i.GitMessage)
	}
	if i.BuildDate != "" {
		fmt.Fprintf(&sb, "  built:    %s\n", i.BuildDate)
	}
	fmt.Fprintf(&sb, "  go:       %s\n", i.GoVersion)
	fmt.Fprintf(&sb, "  platform: %s\n", i.Platform)
	return sb.String()
}

func (i Info) JSON() ([]byte, error) {
	return json.MarshalIndent(i, "", "  ")
}
