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

	log "github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kingofpayne/bakery/bakery"
)

func newDecompileCmd() *cobra.Command {
	decompile := &cobra.Command{
		Use:   "decompile in.bin recipe out.dat",
		RunE:  runDecompile,
		Short: "Decompiles a binary back to canonical data text.",
		Long: `Decompiles a binary back to canonical data text.

The recipe argument is a file indication in data-file syntax: "name" for a
path relative to the output file, or <name> for a path searched through the
include directories.`,
		Args: cobra.ExactArgs(3),
	}

	decompile.Flags().String("type", "", "Type instantiation to decode the root as, instead of the whole recipe.")

	return decompile
}

func runDecompile(cmd *cobra.Command, args []string) error {
	binPath, recipeInd, datPath := args[0], args[1], args[2]
	cfg := configFromViper()

	log.V(1).Infof("decompiling %s (recipe %s) -> %s", binPath, recipeInd, datPath)
	if !reportLog(bakery.Decompile(binPath, recipeInd, viper.GetString("type"), datPath, cfg)) {
		return fmt.Errorf("decompilation of %s failed", binPath)
	}
	return nil
}
