package cmd

import (
	"os"
	"time"

	"github.com/allbin/go-serialport"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "serialport",
	Short: "Discover and talk to serial ports",
	Long: `serialport lists the serial devices attached to this machine and opens
them for raw 8N1 byte transfers.

Ports are named by key: the /dev/serial/by-path link name on Linux, the COM
index on Windows. Defaults for --baud and --timeout can be set in
$HOME/.serialport.yaml or through SERIALPORT_BAUD and SERIALPORT_TIMEOUT.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.serialport.yaml)")
	rootCmd.PersistentFlags().Uint32P("baud", "b", 115200, "Baud rate")
	rootCmd.PersistentFlags().DurationP("timeout", "t", time.Second, "Per-read timeout")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	for _, name := range []string{"baud", "timeout", "verbose"} {
		cobra.CheckErr(viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".serialport")
	}

	viper.SetEnvPrefix("serialport")
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil && cfgFile != "" {
		cobra.CheckErr(err)
	}

	setupLogging(viper.GetBool("verbose"))
	if err == nil {
		log.Debug().Str("file", viper.ConfigFileUsed()).Msg("using config file")
	}
}

func setupLogging(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
}

// openPort parses a key argument and opens it with the configured line settings
func openPort(arg string) (serial.Port, error) {
	key, err := serial.ParseKey(arg)
	if err != nil {
		return nil, err
	}

	baud := viper.GetUint32("baud")
	timeout := viper.GetDuration("timeout")
	log.Debug().
		Str("port", key.String()).
		Uint32("baud", baud).
		Dur("timeout", timeout).
		Msg("opening port")

	return serial.OpenConfig(key,
		serial.WithBaudRate(baud),
		serial.WithTimeout(timeout),
	)
}
