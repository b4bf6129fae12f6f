package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gogpu/glgen"
	"github.com/gogpu/glgen/registry"
)

var (
	version = "dev"
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:     "glgen [flags] file.xml...",
	Short:   "Generate lazy GL dispatch code from Khronos registry XML",
	Long: `glgen turns Khronos API registry files (gl.xml, glx.xml, egl.xml,
wgl.xml) into a C header and dispatch source per target API family. The
generated entry points resolve their platform implementation on first call.`,
	Version: version,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runGenerate,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: none)")
	rootCmd.Flags().StringP("dir", "d", "",
		"destination directory for generated artifacts")
	rootCmd.Flags().String("log-level", "warning",
		"log level (debug, info, warning, error)")

	_ = viper.BindPFlag("dir", rootCmd.Flags().Lookup("dir"))
	_ = viper.BindPFlag("log_level", rootCmd.Flags().Lookup("log-level"))
}

func initConfig() {
	viper.SetEnvPrefix("GLGEN")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			cobra.CheckErr(err)
		}
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	logger := logrus.New()
	level, err := logrus.ParseLevel(viper.GetString("log_level"))
	if err != nil {
		return err
	}
	logger.SetLevel(level)

	return generate(afero.NewOsFs(), logger, viper.GetString("dir"), args)
}

// generate runs the pipeline for each input file against the given
// filesystem. Split out from the cobra handler so tests can drive it over
// an in-memory fs.
func generate(fs afero.Fs, logger *logrus.Logger, dir string, files []string) error {
	if dir == "" {
		return errors.New("destination directory is required (--dir)")
	}

	for _, file := range files {
		target := strings.TrimSuffix(filepath.Base(file), ".xml")

		data, err := afero.ReadFile(fs, file)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		reg, err := registry.ParseBytes(data)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}

		arts, err := glgen.GenerateWithOptions(reg, target, glgen.Options{
			Logger: logger.WithField("target", target),
		})
		if err != nil {
			return err
		}
		if err := glgen.WriteArtifacts(fs, dir, arts); err != nil {
			return err
		}

		logger.WithFields(logrus.Fields{
			"target": target,
			"header": len(arts.Header),
			"source": len(arts.Source),
		}).Info("generated artifacts")
	}
	return nil
}
