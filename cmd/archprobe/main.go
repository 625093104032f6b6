// Command archprobe is the host-side timing harness for the probe suite.
// It wraps each probe call in a wall-clock measurement (the probes
// themselves only return workload-derived cost proxies), prints the
// results, and optionally persists a JSON session report.
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/LynnColeArt/archprobe"
)

var (
	flagVerbose    bool
	flagConfig     string
	flagSessionDir string
	flagSession    string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "archprobe",
		Short: "Infer CPU cache, TLB, and branch predictor characteristics from user space",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(); err != nil {
				return err
			}
			if flagVerbose {
				logger, err := zap.NewDevelopment()
				if err != nil {
					return fmt.Errorf("failed to build logger: %w", err)
				}
				archprobe.SetLogger(logger)
			}
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"log sweep diagnostics")
	root.PersistentFlags().StringVar(&flagConfig, "config", "",
		"config file with suite parameters")
	root.PersistentFlags().StringVar(&flagSessionDir, "session-dir", "",
		"directory for JSON session reports (disabled when empty)")
	root.PersistentFlags().StringVar(&flagSession, "session", "archprobe",
		"session name for the report file")

	root.AddCommand(newListCmd(), newRunCmd(), newSuiteCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the archprobe build version",
		Run: func(cmd *cobra.Command, args []string) {
			version, sum := archprobe.Version()
			if version == "" {
				fmt.Println("archprobe (devel)")
				return
			}
			fmt.Printf("archprobe %s %s\n", version, sum)
		},
	}
}

func loadConfig() error {
	viper.SetDefault("suite.max_l1_kb", 512)
	viper.SetDefault("suite.max_l2_kb", 20480)
	viper.SetDefault("suite.max_l3_mb", 64)
	viper.SetDefault("suite.max_branches", 8192)
	viper.SetDefault("suite.max_pattern_length", 16)
	viper.SetDefault("suite.indirect_targets", 64)
	viper.SetDefault("suite.max_loop_depth", 4)
	viper.SetDefault("suite.max_call_depth", 24)

	if flagConfig == "" {
		return nil
	}
	viper.SetConfigFile(flagConfig)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config %s: %w", flagConfig, err)
	}
	return nil
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every probe and its arguments",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range archprobe.Probes() {
				fmt.Printf("%-32s %v\n", p.Name, p.Args)
			}
		},
	}
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <probe> [arg...]",
		Short: "Run one probe with explicit numeric arguments",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			numeric := make([]float64, 0, len(args)-1)
			for _, raw := range args[1:] {
				v, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					return fmt.Errorf("argument %q is not numeric: %w", raw, err)
				}
				numeric = append(numeric, v)
			}

			recorder, err := openSession()
			if err != nil {
				return err
			}

			start := time.Now()
			value, err := archprobe.Call(name, numeric...)
			wall := time.Since(start)
			if err != nil {
				return err
			}

			fmt.Printf("%-32s value=%.6g wall=%v\n", name, value, wall)
			return record(recorder, name, numeric, value, wall)
		},
	}
}

// suiteStep binds a probe name to the argument list derived from the suite
// configuration.
type suiteStep struct {
	name string
	args []float64
}

func suiteSteps() []suiteStep {
	return []suiteStep{
		{"l1_cache_size_detection", []float64{float64(viper.GetInt("suite.max_l1_kb"))}},
		{"l2_cache_size_detection", []float64{float64(viper.GetInt("suite.max_l2_kb"))}},
		{"l3_cache_size_detection", []float64{float64(viper.GetInt("suite.max_l3_mb"))}},
		{"cache_line_size_detection", nil},
		{"tlb_size_detection", nil},
		{"btb_size_detection", []float64{float64(viper.GetInt("suite.max_branches"))}},
		{"branch_history_depth_test", []float64{float64(viper.GetInt("suite.max_pattern_length"))}},
		{"indirect_branch_predictor_test", []float64{float64(viper.GetInt("suite.indirect_targets"))}},
		{"loop_branch_predictor_test", []float64{float64(viper.GetInt("suite.max_loop_depth"))}},
		{"return_stack_depth_test", []float64{float64(viper.GetInt("suite.max_call_depth"))}},
	}
}

func newSuiteCmd() *cobra.Command {
	var cold bool
	cmd := &cobra.Command{
		Use:   "suite",
		Short: "Run the full structural detection suite",
		RunE: func(cmd *cobra.Command, args []string) error {
			recorder, err := openSession()
			if err != nil {
				return err
			}

			fmt.Printf("host features: %s\n\n", archprobe.DetectHostFeatures())

			for _, step := range suiteSteps() {
				if cold {
					flushCaches()
				}
				start := time.Now()
				value, err := archprobe.Call(step.name, step.args...)
				wall := time.Since(start)
				if err != nil {
					return err
				}
				fmt.Printf("%-32s estimate=%.6g wall=%v\n", step.name, value, wall)
				if err := record(recorder, step.name, step.args, value, wall); err != nil {
					return err
				}
			}

			if recorder != nil {
				fmt.Printf("\nsession report: %s\n", recorder.Path())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&cold, "cold", false,
		"flush CPU caches before every suite step")
	return cmd
}

// flushCaches evicts the cache hierarchy by streaming through a buffer
// larger than any L3 we expect to meet, one touch per line, two passes with
// different patterns so every set sees replacement.
func flushCaches() {
	const flushSize = 64 * 1024 * 1024
	data := make([]byte, flushSize)
	for i := 0; i < len(data); i += 64 {
		data[i] = byte(i % 256)
	}
	for i := 0; i < len(data); i += 64 {
		data[i] = byte((i * 7) % 256)
	}
}

func openSession() (*archprobe.SessionRecorder, error) {
	if flagSessionDir == "" {
		return nil, nil
	}
	recorder := archprobe.NewSessionRecorder(flagSessionDir)
	if err := recorder.Start(flagSession); err != nil {
		return nil, err
	}
	return recorder, nil
}

func record(recorder *archprobe.SessionRecorder, name string, args []float64,
	value float64, wall time.Duration) error {
	if recorder == nil {
		return nil
	}
	return recorder.Record(archprobe.ProbeRecord{
		Name:  name,
		Args:  args,
		Value: value,
		Wall:  wall,
	})
}
