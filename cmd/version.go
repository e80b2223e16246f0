package cmd

import (
	"fmt"
	"runtime"
	rdebug "runtime/debug"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/jsonpeek/internal/config"
	"github.com/oakwood-commons/jsonpeek/pkg/settings"
)

// versionData describes the running binary.
type versionData struct {
	Name      string
	Version   string
	GoVersion string
	BuildOS   string
	BuildArch string
	GitCommit string
}

func buildVersionData(cfg *config.File) versionData {
	info, ok := rdebug.ReadBuildInfo()

	v := versionData{
		Name:      settings.CliBinaryName,
		Version:   "dev",
		GoVersion: runtime.Version(),
		BuildOS:   runtime.GOOS,
		BuildArch: runtime.GOARCH,
	}
	if settings.VersionInformation.Commit != "unknown" {
		v.Version = settings.VersionInformation.BuildVersion
		v.GitCommit = settings.VersionInformation.Commit
	} else if ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			v.Version = info.Main.Version
		} else {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" && len(s.Value) >= 7 {
					v.GitCommit = s.Value[:7]
					v.Version = v.GitCommit
					break
				}
			}
		}
	}
	if ok {
		if info.GoVersion != "" {
			v.GoVersion = info.GoVersion
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "GOOS":
				v.BuildOS = s.Value
			case "GOARCH":
				v.BuildArch = s.Value
			}
		}
	}

	if cfg != nil {
		about := cfg.App.About
		if about.Name != "" {
			v.Name = about.Name
		}
		if about.Version != "" {
			v.Version = about.Version
		}
		if about.GoVersion != "" {
			v.GoVersion = about.GoVersion
		}
	}
	return v
}

// cliVersionString builds the one-line version used by `version` and --version.
func cliVersionString() string {
	cfg, err := config.Load(config.ResolvePath(""))
	if err != nil {
		cfg, _ = config.Default()
	}
	v := buildVersionData(&cfg)
	return fmt.Sprintf("%s %s (go %s)", v.Name, v.Version, v.GoVersion)
}

var versionVerbose bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print jsonpeek version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		if !versionVerbose {
			_, err := fmt.Fprintln(out, cliVersionString())
			return err
		}
		v := buildVersionData(&appConfig)
		_, err := fmt.Fprintf(out, "name: %s\nversion: %s\ngo: %s\nplatform: %s/%s\ncommit: %s\n",
			v.Name, v.Version, v.GoVersion, v.BuildOS, v.BuildArch, v.GitCommit)
		return err
	},
}

func init() { //nolint:gochecknoinits
	versionCmd.Flags().BoolVarP(&versionVerbose, "verbose", "v", false, "print build details")
	rootCmd.AddCommand(versionCmd)
}
