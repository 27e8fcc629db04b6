package cmd

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/direct-connect/go-tth/tiger"
	"github.com/direct-connect/go-tth/tth"
	"github.com/direct-connect/go-tth/version"
)

const Version = version.Vers

var Root = &cobra.Command{
	Use:           "tth <command>",
	Short:         "calculates Tiger Tree Hashes of files",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := readConfig(); err != nil {
			return err
		}
		if viper.GetBool("debug") {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
		return nil
	},
}

const (
	formatBase32 = "base32"
	formatHex    = "hex"
)

func readConfig() error {
	err := viper.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return nil
	} else if err != nil {
		return err
	}
	log.Println("loaded config:", viper.ConfigFileUsed())
	return nil
}

func init() {
	viper.SetConfigName("tth")
	viper.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		viper.AddConfigPath(filepath.Join(dir, "tth"))
	}
	viper.SetEnvPrefix("tth")
	viper.AutomaticEnv()

	flags := Root.PersistentFlags()
	flags.String("engine", tth.EngineParallel, "hashing engine (parallel or sequential)")
	viper.BindPFlag("engine", flags.Lookup("engine"))
	flags.IntP("workers", "w", tth.DefaultWorkers, "number of workers for the parallel engine")
	viper.BindPFlag("workers", flags.Lookup("workers"))
	flags.Int("chunk", tth.DefaultChunkSize, "size of a single file read")
	viper.BindPFlag("chunk", flags.Lookup("chunk"))
	flags.Bool("fallback", true, "retry with another engine on failure")
	viper.BindPFlag("fallback", flags.Lookup("fallback"))
	flags.String("format", formatBase32, "output format for hashes (base32 or hex)")
	viper.BindPFlag("format", flags.Lookup("format"))
	flags.Bool("debug", false, "print debug logs to stderr")
	viper.BindPFlag("debug", flags.Lookup("debug"))

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Version:\t%s\nGo runtime:\t%s\n",
				Version, runtime.Version(),
			)
		},
	}
	Root.AddCommand(versionCmd)
}

// newEngine creates an engine from the config.
// If fallback is enabled, the other engine is tried when the selected one fails.
func newEngine() (tth.Engine, error) {
	conf := tth.Config{
		Workers:   viper.GetInt("workers"),
		ChunkSize: viper.GetInt("chunk"),
	}
	name := viper.GetString("engine")
	e, err := tth.New(name, conf)
	if err != nil {
		return nil, err
	}
	if !viper.GetBool("fallback") {
		return e, nil
	}
	alt := tth.EngineSequential
	if e.Name() == tth.EngineSequential {
		alt = tth.EngineParallel
	}
	e2, err := tth.New(alt, conf)
	if err != nil {
		return nil, err
	}
	return tth.Fallback(nil, e, e2), nil
}

func formatHash(h tiger.Hash) (string, error) {
	switch f := viper.GetString("format"); f {
	case formatBase32, "":
		return h.Base32(), nil
	case formatHex:
		return h.Hex(), nil
	default:
		return "", fmt.Errorf("unsupported format: %q", f)
	}
}

func parseHash(s string) (tiger.Hash, error) {
	var h tiger.Hash
	if len(s) == 2*tiger.Size {
		return h, h.FromHex(s)
	}
	return h, h.FromBase32(s)
}
