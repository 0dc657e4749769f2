package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/miqat/internal/cli/config"
	"github.com/leapstack-labs/miqat/pkg/salah"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Force       bool
	Interactive bool
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	opts := &InitOptions{}

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a starter miqat.yaml",
		Long: `Write a miqat.yaml with the current settings. Global flags such as
--latitude or --method are written into the file, so

  miqat init --latitude -6.18234 --longitude 106.84287 --method isna

produces a ready configuration. With --interactive each value is asked for.`,
		Example: `  # Write ./miqat.yaml with the defaults
  miqat init

  # Ask for every value
  miqat init --interactive

  # Overwrite an existing file in another directory
  miqat init ~/prayer --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite an existing configuration")
	cmd.Flags().BoolVarP(&opts.Interactive, "interactive", "i", false, "Prompt for each value")

	return cmd
}

// starterConfig is the file layout written by init.
type starterConfig struct {
	Latitude        float64       `yaml:"latitude"`
	Longitude       float64       `yaml:"longitude"`
	Timezone        float64       `yaml:"timezone"`
	Method          string        `yaml:"method"`
	Madhab          string        `yaml:"madhab"`
	SummerTime      bool          `yaml:"summer_time"`
	HijriCorrection int           `yaml:"hijri_correction"`
	Output          string        `yaml:"output"`
	Server          starterServer `yaml:"server"`
}

type starterServer struct {
	Addr  string `yaml:"addr"`
	Watch bool   `yaml:"watch"`
}

const starterHeader = `# miqat configuration
# Methods: ` + "%s" + `
# Madhabs: shafi, hanafi
# Every key can be overridden with a MIQAT_ environment variable or a flag.
`

func newStarterConfig(cfg *config.Config) starterConfig {
	return starterConfig{
		Latitude:        cfg.Latitude,
		Longitude:       cfg.Longitude,
		Timezone:        cfg.Timezone,
		Method:          cfg.Method.String(),
		Madhab:          cfg.Madhab.String(),
		SummerTime:      cfg.SummerTime,
		HijriCorrection: cfg.HijriCorrection,
		Output:          cfg.OutputFormat,
		Server: starterServer{
			Addr:  cfg.Server.Addr,
			Watch: cfg.Server.Watch,
		},
	}
}

func runInit(cmd *cobra.Command, dir string, opts *InitOptions) error {
	cmdCtx, cleanup := NewStoreContext(cmd)
	defer cleanup()
	r := cmdCtx.Renderer

	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, config.ConfigFileNames[0])
	if _, err := os.Stat(configPath); err == nil && !opts.Force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
	}

	starter := newStarterConfig(cmdCtx.Config)
	if opts.Interactive {
		rl, err := readline.NewEx(&readline.Config{
			Stdin:           io.NopCloser(cmd.InOrStdin()),
			Stdout:          cmd.OutOrStdout(),
			InterruptPrompt: "^C",
		})
		if err != nil {
			return fmt.Errorf("failed to initialize prompt: %w", err)
		}
		defer func() { _ = rl.Close() }()

		if err := promptStarter(rl, &starter); err != nil {
			return err
		}
	}

	if err := writeStarter(configPath, starter); err != nil {
		return err
	}

	r.StatusLine(configPath, "success", "")
	r.Println("")
	r.Success("miqat configured!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Run 'miqat report' to check the times")
	r.Println("  2. Save other places with 'miqat location add <name>'")
	r.Println("  3. Run 'miqat serve' or 'miqat watch'")
	return nil
}

func writeStarter(path string, starter starterConfig) error {
	body, err := yaml.Marshal(starter)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	names := make([]string, 0, len(salah.Methods()))
	for _, m := range salah.Methods() {
		names = append(names, m.String())
	}
	content := fmt.Sprintf(starterHeader, strings.Join(names, ", ")) + string(body)

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// lineReader is the part of readline used for prompting.
type lineReader interface {
	SetPrompt(prompt string)
	Readline() (string, error)
}

// errAborted is returned when the user interrupts the prompts.
var errAborted = errors.New("init aborted")

// ask prompts until parse accepts the answer. An empty answer keeps def.
func ask(rl lineReader, question, def string, parse func(string) error) error {
	for {
		rl.SetPrompt(fmt.Sprintf("%s [%s]: ", question, def))
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			return errAborted
		}
		if errors.Is(err, io.EOF) {
			return parse(def)
		}
		if err != nil {
			return fmt.Errorf("failed to read answer: %w", err)
		}

		answer := strings.TrimSpace(line)
		if answer == "" {
			answer = def
		}
		if err := parse(answer); err == nil {
			return nil
		}
	}
}

func floatParser(dst *float64, min, max float64) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		if v < min || v > max {
			return fmt.Errorf("%v out of range [%v, %v]", v, min, max)
		}
		*dst = v
		return nil
	}
}

func promptStarter(rl lineReader, s *starterConfig) error {
	format := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

	steps := []struct {
		question string
		def      string
		parse    func(string) error
	}{
		{"Latitude", format(s.Latitude), floatParser(&s.Latitude, -90, 90)},
		{"Longitude", format(s.Longitude), floatParser(&s.Longitude, -180, 180)},
		{"UTC offset in hours", format(s.Timezone), floatParser(&s.Timezone, -12, 14)},
		{"Calculation method", s.Method, func(v string) error {
			m, err := salah.ParseMethod(v)
			if err != nil {
				return err
			}
			s.Method = m.String()
			return nil
		}},
		{"Madhab (shafi/hanafi)", s.Madhab, func(v string) error {
			m, err := salah.ParseMadhab(v)
			if err != nil {
				return err
			}
			s.Madhab = m.String()
			return nil
		}},
		{"Summer time (yes/no)", yesNo(s.SummerTime), func(v string) error {
			switch strings.ToLower(v) {
			case "y", "yes", "true":
				s.SummerTime = true
			case "n", "no", "false":
				s.SummerTime = false
			default:
				return fmt.Errorf("answer yes or no")
			}
			return nil
		}},
	}

	for _, step := range steps {
		if err := ask(rl, step.question, step.def, step.parse); err != nil {
			return err
		}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
