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
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/fiefs/InputParameters"
	"github.com/notargets/fiefs/model_problems/Euler2D"
	"github.com/notargets/fiefs/output"
)

type Model2D struct {
	InputFile      string
	OutputDir      string
	Format         string // yaml, fixed, or empty to go by the file extension
	Profile        string // cpu, mem or empty
	ParallelDegree int
}

// TwoDCmd represents the 2D command
var TwoDCmd = &cobra.Command{
	Use:   "2D",
	Short: "Two dimensional solver, reads an input parameters file and writes solution files",
	Long: `
Runs the problem generator named in the input file, solves to tmax and writes
the requested output variables to the output directory.

fiefs 2D -I inputs/kh.in -o output`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		m2d := &Model2D{}
		if m2d.InputFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			return
		}
		if m2d.Format, err = cmd.Flags().GetString("format"); err != nil {
			return
		}
		m2d.OutputDir = viper.GetString("output_dir")
		m2d.Profile = viper.GetString("profile")
		m2d.ParallelDegree = viper.GetInt("parallel")
		_, err = Run2D(m2d, cmd.OutOrStdout(), newLogger(cmd.ErrOrStderr()))
		return
	},
}

func init() {
	rootCmd.AddCommand(TwoDCmd)
	TwoDCmd.Flags().StringP("inputConditionsFile", "I", "", "input parameters file, YAML or fixed layout (.in)")
	TwoDCmd.Flags().StringP("outputDir", "o", "output", "directory for solution files")
	TwoDCmd.Flags().StringP("format", "f", "", "input file format: yaml or fixed, default from the file extension")
	TwoDCmd.Flags().String("profile", "", "write a cpu or mem profile to the output directory")
	_ = viper.BindPFlag("output_dir", TwoDCmd.Flags().Lookup("outputDir"))
	_ = viper.BindPFlag("profile", TwoDCmd.Flags().Lookup("profile"))
}

const exampleFile = `
########################################
Title: "Sod Shock Tube"
problem: shocktube
flux: roe
integrator: rk3
nx1: 200
nx2: 4
ng: 2
x1min: 0
x1max: 1
x2min: 0
x2max: 0.02
rho0: 1.0
rho1: 0.125
p0: 1.0
p1: 0.1
CFL: 0.5
tmax: 0.2
gamma: 1.4
left_bc: transmissive
right_bc: transmissive
top_bc: periodic
bottom_bc: periodic
########################################
`

func processInput(m2d *Model2D, w io.Writer) (cfg InputParameters.Config, err error) {
	if len(m2d.InputFile) == 0 {
		err = fmt.Errorf("%w: must supply an input parameters file (-I, --inputConditionsFile), for example:%s",
			InputParameters.ErrInvalidConfig, exampleFile)
		return
	}
	var ip *InputParameters.InputParameters2D
	switch strings.ToLower(m2d.Format) {
	case "":
		if ip, err = InputParameters.ReadFile(m2d.InputFile); err != nil {
			return
		}
	case "yaml", "fixed":
		var data []byte
		if data, err = os.ReadFile(m2d.InputFile); err != nil {
			return
		}
		ip = &InputParameters.InputParameters2D{}
		if strings.ToLower(m2d.Format) == "yaml" {
			err = ip.Parse(data)
		} else {
			err = ip.ParseFixed(data)
		}
		if err != nil {
			err = fmt.Errorf("unable to parse %s: %w", m2d.InputFile, err)
			return
		}
	default:
		err = fmt.Errorf("%w: unknown input format %q, must be yaml or fixed", InputParameters.ErrInvalidConfig, m2d.Format)
		return
	}
	if w != nil {
		ip.Fprint(w)
	}
	return ip.Validate()
}

func Run2D(m2d *Model2D, w io.Writer, logger *slog.Logger) (sum Euler2D.RunSummary, err error) {
	var (
		cfg  InputParameters.Config
		c    *Euler2D.Euler
		sink *output.FileSink
	)
	if cfg, err = processInput(m2d, w); err != nil {
		return
	}
	if sink, err = output.NewFileSink(m2d.OutputDir, cfg.OutputTypes, cfg.OutputVariables); err != nil {
		return
	}
	switch strings.ToLower(m2d.Profile) {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(m2d.OutputDir), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(m2d.OutputDir), profile.Quiet).Stop()
	default:
		err = fmt.Errorf("%w: unknown profile %q, must be cpu or mem", InputParameters.ErrInvalidConfig, m2d.Profile)
		return
	}
	if c, err = Euler2D.NewEuler(cfg, logger,
		Euler2D.WithParallelDegree(m2d.ParallelDegree), Euler2D.WithProgress(w)); err != nil {
		return
	}
	if sum, err = c.Solve(sink); err != nil {
		return
	}
	logger.Info("solution files written", "dir", m2d.OutputDir, "files", len(sink.Written))
	return
}
