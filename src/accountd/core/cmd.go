// Package core provides the core command and server functionality for accountd.
package core

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/castelan/accountd/src/accountd/account"
	"github.com/castelan/accountd/src/common/cli"
	"github.com/castelan/accountd/src/common/logs"
	"github.com/castelan/accountd/src/common/version"
)

var (
	// VersionInfo holds version information - set at build time via ldflags
	VersionInfo = version.New()

	// Global logger instance
	log *logs.Logger

	// Configuration file path
	cfgFile string
)

// Linker variables - these are set via ldflags at build time
// They must be initialized as empty strings or literals for ldflags to work
var (
	Version        = "dev"
	ReleaseVersion = "0.0.0"
	BuildDate      = "unknown"
	GitCommit      = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "accountd",
	Short: "Account and access-control API server",
	Long: `accountd is an account management API server.

It handles account signup and login with bcrypt password hashing, issues
JWT access tokens, and enforces role requirements declared per route.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

// Execute runs the root command
func Execute() {
	// Populate VersionInfo from linker variables
	VersionInfo.Version = Version
	VersionInfo.ReleaseVersion = ReleaseVersion
	VersionInfo.BuildDate = BuildDate
	VersionInfo.GitCommit = GitCommit

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Configuration file flag
	cli.RegisterConfigFlag(rootCmd, &cfgFile, "/etc/accountd/accountd.yaml")

	// Server flags
	rootCmd.PersistentFlags().IntP("port", "p", 8443, "Port to listen on")
	rootCmd.PersistentFlags().StringP("bind", "b", "0.0.0.0", "Address to bind to")

	// Logging flags (using common helper)
	cli.RegisterLogFlags(rootCmd)

	// Database flags
	rootCmd.PersistentFlags().String("db-path", "~/.accountd/accountd.db", "Path to persist database on shutdown")

	// Security flags
	rootCmd.PersistentFlags().Int("bcrypt-cost", 10, "bcrypt cost factor for password hashing")
	rootCmd.PersistentFlags().Duration("token-duration", account.DefaultTokenConfig().TokenDuration, "Access token lifetime")

	// Bind flags to viper
	_ = viper.BindPFlag("server.port", rootCmd.PersistentFlags().Lookup("port"))
	_ = viper.BindPFlag("server.bind", rootCmd.PersistentFlags().Lookup("bind"))
	_ = viper.BindPFlag("database.path", rootCmd.PersistentFlags().Lookup("db-path"))
	_ = viper.BindPFlag("security.bcrypt_cost", rootCmd.PersistentFlags().Lookup("bcrypt-cost"))
	_ = viper.BindPFlag("security.token_duration", rootCmd.PersistentFlags().Lookup("token-duration"))

	// Set defaults
	viper.SetDefault("server.port", 8443)
	viper.SetDefault("server.bind", "0.0.0.0")
	viper.SetDefault("database.path", "~/.accountd/accountd.db")
	viper.SetDefault("security.bcrypt_cost", 10)
	viper.SetDefault("security.token_duration", "24h")

	rootCmd.AddCommand(bootstrapCmd)
	rootCmd.AddCommand(versionCmd)
}

// versionCmd prints version and build information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(VersionInfo.String())
	},
}

// initConfig reads in config file and ENV variables if set
func initConfig() error {
	opts := cli.ConfigOptions{
		ConfigName: "accountd",
		ConfigType: "yaml",
		EnvPrefix:  "ACCOUNTD",
		SearchPaths: []string{
			"/etc/accountd",
			"/opt/accountd",
			"~/.accountd",
		},
	}
	opts.ConfigFile = cfgFile

	if err := cli.InitConfig(opts); err != nil {
		return err
	}

	// Initialize logger using common helper
	log = cli.InitLogger("accountd")

	return nil
}
