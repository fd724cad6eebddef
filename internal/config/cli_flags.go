package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// EnvAnnotation is the flag annotation naming the LINKFILL_* variable that
// sets the same option. Help output lists it next to the flag.
const EnvAnnotation = "linkfill_env"

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	fs := cmd.PersistentFlags()
	fs.BoolP("verbose", "v", false, "Enable debug logging")
	fs.BoolP("quiet", "q", false, "Suppress all output except errors")
	fs.Bool("json", false, "Output in JSON format only")
	fs.String("proxy", "", "HTTP proxy, or a comma-separated list to rotate through")
	fs.String("timeout", DefaultHTTPTimeout.String(), "Set hard timeout for requests")
	fs.String("user-agent", "", "Custom user agent string")
	fs.String("config", "", "Path to a .env file (default .env)")
	fs.Float64("max-price", DefaultMaxPrice, "Reject extracted prices at or above this value")
	fs.Int("price-candidates", DefaultPriceCandidates, "Elements examined per price selector")

	BindEnv(fs, "proxy", "PROXY")
	BindEnv(fs, "timeout", "TIMEOUT")
	BindEnv(fs, "user-agent", "USER_AGENT")
	BindEnv(fs, "max-price", "MAX_PRICE")
	BindEnv(fs, "price-candidates", "PRICE_CANDIDATES")
}

// BindEnv records that flag can also be set through EnvPrefix+name
func BindEnv(fs *pflag.FlagSet, flag, name string) {
	_ = fs.SetAnnotation(flag, EnvAnnotation, []string{EnvPrefix + name})
}

// EnvFor returns the environment variable bound to f, if any
func EnvFor(f *pflag.Flag) (string, bool) {
	if v := f.Annotations[EnvAnnotation]; len(v) > 0 {
		return v[0], true
	}
	return "", false
}
