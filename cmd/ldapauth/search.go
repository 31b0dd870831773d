package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joewalnes/ldapauth"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search for an entry and print its attributes as JSON",
	Long: `Search binds with the supplied credentials, fetches the first entry
matching the filter, and prints its attributes as a JSON object. Attributes
with a single value print as a string, multi-valued attributes as an array.
When the entry has memberOf values, the synthetic allGroups attribute lists
the flattened ancestor group names.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		defer svc.Close()

		var (
			cbErr   error
			results ldapauth.Results
		)
		err = svc.Search(
			viper.GetString("host"),
			viper.GetInt("port"),
			viper.GetString("username"),
			viper.GetString("password"),
			viper.GetString("base"),
			viper.GetString("filter"),
			func(err error, r ldapauth.Results) {
				cbErr = err
				results = r
			},
		)
		if err != nil {
			return err
		}
		svc.Wait()

		if cbErr != nil {
			return cbErr
		}

		out, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	searchCmd.Flags().String("base", "", "Search base DN")
	searchCmd.Flags().String("filter", "", "Search filter, e.g. (uid=alice)")
	viper.BindPFlag("base", searchCmd.Flags().Lookup("base"))
	viper.BindPFlag("filter", searchCmd.Flags().Lookup("filter"))
	rootCmd.AddCommand(searchCmd)
}
