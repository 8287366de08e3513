package client

import (
	"fmt"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/armadaproject/cmsbench/internal/common/config"
)

// Environment variables honoured for the connection settings, kept compatible with the scripts these
// commands replace.
var connectionEnvVars = map[string]string{
	"baseUrl":         "STRAPI_URL",
	"email":           "ADMIN_EMAIL",
	"password":        "ADMIN_PASSWORD",
	"graphqlEndpoint": "GRAPHQL_ENDPOINT",
}

func AddCmsConnectionCommandlineArgs(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().String("baseUrl", DefaultBaseUrl, "specify content backend url")
	viper.BindPFlag("baseUrl", rootCmd.PersistentFlags().Lookup("baseUrl"))
	rootCmd.PersistentFlags().String("graphqlEndpoint", "", "specify GraphQL endpoint url (defaults to <baseUrl>/graphql)")
	viper.BindPFlag("graphqlEndpoint", rootCmd.PersistentFlags().Lookup("graphqlEndpoint"))
	rootCmd.PersistentFlags().String("email", DefaultEmail, "admin account email")
	viper.BindPFlag("email", rootCmd.PersistentFlags().Lookup("email"))
	rootCmd.PersistentFlags().String("password", DefaultPassword, "admin account password")
	viper.BindPFlag("password", rootCmd.PersistentFlags().Lookup("password"))
	rootCmd.PersistentFlags().Duration("timeout", DefaultTimeout, "per-request timeout")
	viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))

	for key, env := range connectionEnvVars {
		viper.BindEnv(key, env)
	}
}

// LoadCommandlineArgsFromConfigFile reads cfgFile, or $HOME/.cmsbench.yaml when cfgFile is empty.
// A missing default file is not an error.
func LoadCommandlineArgsFromConfigFile(cfgFile string) error {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			return fmt.Errorf("[LoadCommandlineArgsFromConfigFile] error getting user home directory: %s", err)
		}

		viper.AddConfigPath(home)
		viper.SetConfigName(".cmsbench")
	}

	// If a config file is found, read it in.
	err := viper.MergeInConfig()
	if err != nil {
		switch err.(type) {
		case viper.ConfigFileNotFoundError:
			// This only occurs when looking for the default .cmsbench file and it is not present
			// This is not an error as users don't have to specify it, so do nothing
		default:
			return fmt.Errorf("[LoadCommandlineArgsFromConfigFile] error reading config file %s: %s", viper.ConfigFileUsed(), err)
		}
	}
	return nil
}

func ExtractCommandlineCmsConnectionDetails() (*ApiConnectionDetails, error) {
	apiConnectionDetails := &ApiConnectionDetails{}
	if err := viper.Unmarshal(apiConnectionDetails, config.CustomHooks...); err != nil {
		return nil, err
	}
	return apiConnectionDetails, nil
}
