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
	"strings"

	log "github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kingofpayne/bakery/bakery"
)

func newCompileCmd() *cobra.Command {
	compile := &cobra.Command{
		Use:   "compile data.dat [out.bin]",
		RunE:  runCompile,
		Short: "Compiles a data file to its binary cached form.",
		Args:  cobra.RangeArgs(1, 2),
	}

	compile.Flags().Bool("force", false, "Rebuild even when the binary is newer than its sources.")

	return compile
}

func runCompile(cmd *cobra.Command, args []string) error {
	datPath := args[0]
	binPath := defaultBinPath(datPath)
	if len(args) == 2 {
		binPath = args[1]
	}
	cfg := configFromViper()

	var l = bakery.CompileIfStale
	if viper.GetBool("force") {
		l = bakery.Compile
	}

	log.V(1).Infof("compiling %s -> %s", datPath, binPath)
	if !reportLog(l(datPath, binPath, cfg)) {
		return fmt.Errorf("compilation of %s failed", datPath)
	}
	return nil
}

// defaultBinPath derives the cache path from the data file name:
// `scene.dat` becomes `scene.bin`, anything without a .dat suffix just
// gains `.bin`.
func defaultBinPath(datPath string) string {
	if strings.HasSuffix(datPath, ".dat") {
		return strings.TrimSuffix(datPath, ".dat") + ".bin"
	}
	return datPath + ".bin"
}
