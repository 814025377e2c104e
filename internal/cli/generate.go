// generate.go implements notebook generation, the root
// command's action.
//
// Orchestration steps:
//  1. Load settings (file, environment) and apply flag overrides
//  2. Provision the .venv next to the output notebook (unless --no-venv)
//  3. Build the notebook for the CSV path
//  4. Validate and write it to the output path
//  5. Output results (text or JSON)
package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/benchnb/internal/config"
	"github.com/shinji-kodama/benchnb/internal/model"
	"github.com/shinji-kodama/benchnb/internal/notebook"
	"github.com/shinji-kodama/benchnb/internal/venv"
)

// generateFlags holds the flag values for notebook generation.
type generateFlags struct {
	output       string // -o/--output: notebook path
	noVenv       bool   // --no-venv: skip environment provisioning
	configPath   string // --config: explicit settings file
	python       string // --python: interpreter for python -m venv
	requirements string // --requirements: manifest installed into the venv
}

// provisioner is the part of *venv.Provisioner the CLI depends on.
type provisioner interface {
	Ensure(ctx context.Context, targetDir string) (venv.Result, error)
}

// newProvisioner builds the provisioner for a run. Tests replace it to
// observe or stub process spawning.
var newProvisioner = func(opts venv.Options) provisioner {
	return venv.NewProvisioner(opts)
}

func registerGenerateFlags(cmd *cobra.Command, flags *generateFlags) {
	cmd.Flags().StringVarP(&flags.output, "output", "o", config.DefaultOutput, "Output notebook path")
	cmd.Flags().BoolVar(&flags.noVenv, "no-venv", false, "Skip virtual environment creation")
	cmd.Flags().StringVar(&flags.configPath, "config", "", "Settings file (default: benchnb.{yaml,yml,json,jsonc} in the current directory)")
	cmd.Flags().StringVar(&flags.python, "python", "", "Python interpreter used to create the venv (default: python3 or python on PATH)")
	cmd.Flags().StringVar(&flags.requirements, "requirements", "", "Requirements file installed into the venv (default: the one shipped with benchnb)")
}

// runGenerate is the main orchestration function of benchnb.
func runGenerate(cmd *cobra.Command, csvPath string, flags *generateFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Step 1: Resolve settings. Flags given explicitly beat everything else.
	cwd, err := os.Getwd()
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to get current directory", err)
	}

	overrides := config.Overrides{
		Python:       flags.python,
		Requirements: flags.requirements,
	}
	if cmd.Flags().Changed("output") {
		overrides.Output = flags.output
	}
	cfg, err := config.Load(flags.configPath, cwd, overrides)
	if err != nil {
		return model.WrapCLIError(model.ExitConfigError, "failed to load configuration", err)
	}
	if cfg.Source != "" {
		VerboseLog("Settings file: %s", cfg.Source)
	}
	if verbose {
		// The dump goes to stderr with the other verbose lines.
		pp.ColoringEnabled = colorEnabledFor(os.Stderr)
		VerboseLog("Resolved configuration: %s", pp.Sprint(cfg))
	}

	result := model.GenerateResult{
		Output:      cfg.Output,
		CSVPath:     csvPath,
		Environment: model.EnvironmentInfo{Status: model.EnvSkipped},
	}

	// Step 2: Provision the environment in the notebook's directory.
	if flags.noVenv {
		VerboseLog("Skipping virtual environment (--no-venv)")
	} else {
		env, err := ensureEnvironment(ctx, cmd, cfg)
		if err != nil {
			return err
		}
		result.Environment = env
	}

	// Step 3: Build the notebook. This cannot fail.
	doc := notebook.Build(csvPath)
	result.Cells = len(doc.Cells)
	VerboseLog("Built notebook with %d cells for %q", result.Cells, csvPath)

	// Step 4: Validate and write. The parent directory is not created.
	if err := notebook.Write(cfg.Output, doc); err != nil {
		return model.WrapCLIError(model.ExitWriteFailed, "failed to write notebook", err)
	}

	// Step 5: Report.
	return printGenerateResult(cmd, result)
}

// ensureEnvironment provisions the .venv next to the output notebook.
// A failed subprocess's exit code becomes the CLI's exit code.
func ensureEnvironment(ctx context.Context, cmd *cobra.Command, cfg *config.Config) (model.EnvironmentInfo, error) {
	targetDir, err := filepath.Abs(filepath.Dir(cfg.Output))
	if err != nil {
		return model.EnvironmentInfo{}, model.WrapCLIError(model.ExitGeneralError, "failed to resolve output directory", err)
	}
	VerboseLog("Environment directory: %s", venv.Path(targetDir))

	// In JSON mode stdout carries only the result document, so the
	// installer's output and progress lines go to stderr or nowhere.
	runner := venv.ExecRunner{Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr()}
	progress := func(msg string) { printProgress(cmd.OutOrStdout(), msg) }
	if IsJSONOutput() {
		runner.Stdout = cmd.ErrOrStderr()
		progress = func(msg string) { VerboseLog("%s", msg) }
	}

	p := newProvisioner(venv.Options{
		Python:       cfg.Python,
		Requirements: cfg.Requirements,
		Runner:       runner,
		Progress:     progress,
	})

	res, err := p.Ensure(ctx, targetDir)
	if err != nil {
		code := model.ProcessExitCode(err, model.ExitProvisionFailed)
		return model.EnvironmentInfo{}, model.WrapCLIError(code, "failed to provision virtual environment", err)
	}

	status := model.EnvExisting
	if res.Created {
		status = model.EnvCreated
	} else {
		VerboseLog("Environment already exists: %s", res.Path)
	}
	return model.EnvironmentInfo{Path: res.Path, Status: status}, nil
}
