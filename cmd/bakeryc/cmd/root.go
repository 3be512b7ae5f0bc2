// Copyright 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kingofpayne/bakery/bakery"
	"github.com/kingofpayne/bakery/diag"
)

func Execute() {
	rootCmd := &cobra.Command{
		Use:   "bakeryc",
		Short: "bakeryc compiles bakery data files to binary and back",
	}

	cfgFile := rootCmd.PersistentFlags().String("config_file", "", "Path to config file.")
	rootCmd.PersistentFlags().StringSliceP("include", "I", nil, "Include directory searched for <...> file indications; repeatable.")
	rootCmd.PersistentFlags().Bool("verbose", false, "Dump the resolved recipe tree via glog.")
	rootCmd.PersistentFlags().Bool("abort_on_error", false, "Recorded in the driver configuration; compile and decompile do not consult it.")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if *cfgFile != "" {
			viper.SetConfigFile(*cfgFile)
			if err := viper.ReadInConfig(); err != nil {
				return fmt.Errorf("error reading config: %w", err)
			}
		}
		viper.BindPFlags(cmd.Flags())
		viper.AutomaticEnv()
		return nil
	}

	rootCmd.AddCommand(newCompileCmd())
	rootCmd.AddCommand(newDecompileCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// configFromViper collects the driver configuration the persistent flags
// and any config file/environment provide.
func configFromViper() bakery.Config {
	return bakery.Config{
		IncludeDirs:  viper.GetStringSlice("include"),
		AbortOnError: viper.GetBool("abort_on_error"),
		Verbose:      viper.GetBool("verbose"),
	}
}

// reportLog prints every accumulated message to stderr and reports
// whether the log was error-free.
func reportLog(log *diag.Log) bool {
	for _, m := range log.Messages {
		fmt.Fprintln(os.Stderr, m.String())
	}
	return log.OK()
}
