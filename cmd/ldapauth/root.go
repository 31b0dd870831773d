package main

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joewalnes/ldapauth"
)

var rootCmd = &cobra.Command{
	Use:   "ldapauth",
	Short: "Authenticate and search against an LDAP directory",
	Long: `ldapauth performs simple-bind authentication and attribute search
against an LDAP-compatible directory server.

Connection settings may also be supplied via LDAPAUTH_* environment
variables (LDAPAUTH_HOST, LDAPAUTH_PORT, LDAPAUTH_USERNAME, ...).`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("host", "", "Directory server host")
	pf.Int("port", 389, "Directory server port")
	pf.String("scheme", "ldap", "URL scheme, ldap or ldaps")
	pf.String("username", "", "Bind DN or username")
	pf.String("password", "", "Bind password")
	pf.Duration("timeout", 10*time.Second, "Dial and search timeout")
	pf.BoolP("verbose", "v", false, "Enable debug logging")

	viper.SetEnvPrefix("LDAPAUTH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	viper.BindPFlags(pf)
}

// newService builds a Service from the resolved flag/env configuration.
func newService() (*ldapauth.Service, error) {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger().
		Level(zerolog.WarnLevel)
	if viper.GetBool("verbose") {
		log = log.Level(zerolog.DebugLevel)
	}

	cfg := ldapauth.DefaultConfig()
	cfg.Scheme = viper.GetString("scheme")
	cfg.DialTimeout = viper.GetDuration("timeout")
	cfg.SearchTimeout = viper.GetDuration("timeout")
	cfg.Logger = log

	return ldapauth.New(cfg)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
