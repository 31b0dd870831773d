package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var authenticateCmd = &cobra.Command{
	Use:   "authenticate",
	Short: "Verify credentials with a simple bind",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		defer svc.Close()

		var (
			cbErr         error
			authenticated bool
		)
		err = svc.Authenticate(
			viper.GetString("host"),
			viper.GetInt("port"),
			viper.GetString("username"),
			viper.GetString("password"),
			func(err error, ok bool) {
				cbErr = err
				authenticated = ok
			},
		)
		if err != nil {
			return err
		}
		svc.Wait()

		if cbErr != nil {
			return cbErr
		}
		if !authenticated {
			fmt.Println("authentication failed")
			os.Exit(2)
		}
		fmt.Println("authenticated")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authenticateCmd)
}
