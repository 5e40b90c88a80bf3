/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/notargets/govisc/InputParameters"
	"github.com/notargets/govisc/solver"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation described by a YAML input file",
	Long: `
Runs the hyperbolic solver on a structured test domain. All parameters are
read from the input file; command line flags override the basics,

govisc run -f input.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			ip            = InputParameters.Defaults()
			icFile, _     = cmd.Flags().GetString("inputFile")
			profileRun, _ = cmd.Flags().GetBool("profile")
			verbose, _    = cmd.Flags().GetBool("verbose")
		)
		if len(icFile) != 0 {
			data, err := os.ReadFile(icFile)
			if err != nil {
				panic(fmt.Errorf("unable to read input file %s: %w", icFile, err))
			}
			if err = ip.Parse(data); err != nil {
				panic(fmt.Errorf("unable to parse input file %s: %w", icFile, err))
			}
		}
		if cmd.Flags().Changed("CFL") {
			ip.CFL, _ = cmd.Flags().GetFloat64("CFL")
		}
		if cmd.Flags().Changed("finalTime") {
			ip.FinalTime, _ = cmd.Flags().GetFloat64("finalTime")
		}
		if cmd.Flags().Changed("nodes") {
			ip.NodesX, _ = cmd.Flags().GetInt("nodes")
		}
		if verbose {
			ip.Print()
		}
		if profileRun {
			defer profile.Start().Stop()
		}
		s := solver.NewSolver(ip)
		if err := s.Run(verbose); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Printf("final time %8.5f reached in %d steps, %d restarts, %d warnings\n",
			s.Time, s.NSteps, s.NRestarts(), s.NWarnings())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("inputFile", "f", "", "YAML input file with run parameters")
	runCmd.Flags().Float64("CFL", 0.5, "CFL - increase for speedup, decrease for stability")
	runCmd.Flags().Float64("finalTime", 0.2, "FinalTime - the target end time for the sim")
	runCmd.Flags().IntP("nodes", "n", 1001, "number of collocation nodes in x")
	runCmd.Flags().Bool("profile", false, "write a CPU profile of the run")
	runCmd.Flags().BoolP("verbose", "v", true, "print progress output")
}
