package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/King-RAM/kno-url/internal/utils"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

const (
	LOGO = `	 _                          _
	| | ___ __   ___        _  _ _ __| |
	| |/ / '_ \ / _ \ _____| | | | '__| |
	|   <| | | | (_) |_____| |_| | |  | |
	|_|\_\_| |_|\___/       \__,_|_|  |_|

`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kno-url",
	Short: "Interactive URL scraper with a night-ops self-destruct switch.",
	Long: LOGO + `kno-url fetches a page's raw markup, extracts every embedded absolute URL,
buckets each one by inferred content type, and filters/sorts the results.

Run it without arguments for the interactive session. The --night-ops
workflow removes the tool's local cache and binary when the op is over.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Assigned here rather than in the composite literal to avoid an
	// initialization cycle: newSession reads flags from rootCmd.
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		s, closeSession := newSession(false)
		defer closeSession()
		return s.Run()
	}

	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.kno-url.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("proxy", "", "", "HTTP Proxy (Useful for debugging. Example: http://127.0.0.1:8080)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().BoolP("insecure", "k", true, "Skip TLS certificate verification when fetching pages")
	rootCmd.PersistentFlags().IntP("timeout", "", 20, "Fetch timeout in seconds")
	rootCmd.PersistentFlags().BoolP("no-history", "", false, "Do not record scrape runs in the history database")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Local .env overrides, if present.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".kno-url")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.kno-url.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	// Set default values for all keys
	viper.SetDefault("useragent", "KNO-URL/1.0")
	viper.SetDefault("history.enabled", true)

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}
