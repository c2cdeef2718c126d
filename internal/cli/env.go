package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const envPrefix = "INFSCROLL"

// bindEnvVars binds INFSCROLL_<FLAG_NAME> environment variables to the flags
// of cmd, e.g. "page-size" reads $INFSCROLL_PAGE_SIZE.
//
// Arguments take precedence over environment variables, which take precedence
// over default values. A flag set from the environment counts as changed, so
// it overrides the config file just like an argument would.
//
// The variable name is also appended to each flag's usage text.
func bindEnvVars(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.VisitAll(func(flag *pflag.Flag) {
		bindFlagToEnv(fs, flag)
	})

	pfs := cmd.PersistentFlags()
	pfs.VisitAll(func(flag *pflag.Flag) {
		bindFlagToEnv(pfs, flag)
	})
}

func bindFlagToEnv(fs *pflag.FlagSet, flag *pflag.Flag) {
	envName := flagToEnvName(flag.Name)

	if !strings.Contains(flag.Usage, envName) {
		flag.Usage = fmt.Sprintf("%s ($%s)", flag.Usage, envName)
	}

	if flag.Changed {
		return
	}

	envValue, ok := os.LookupEnv(envName)
	if !ok {
		return
	}

	err := fs.Set(flag.Name, envValue)
	if err != nil {
		// Keep the default.
		slog.Error("failed to set flag from environment variable",
			slog.String("flag", flag.Name),
			slog.String("env", envName),
			slog.String("value", envValue),
			slog.Any("error", err),
		)
	}
}

// flagToEnvName converts a flag name to its environment variable name.
// Example: "log-level" -> "INFSCROLL_LOG_LEVEL".
func flagToEnvName(flagName string) string {
	envName := strings.ReplaceAll(flagName, "-", "_")

	return envPrefix + "_" + strings.ToUpper(envName)
}
