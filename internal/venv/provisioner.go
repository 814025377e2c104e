package venv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// DirName is the name of the environment directory created inside the
// notebook's output directory.
const DirName = ".venv"

// RequirementsFile is the name of the requirements manifest installed into
// new environments.
const RequirementsFile = "requirements.txt"

// pythonCandidates are looked up on PATH, in order, when no interpreter is
// configured.
var pythonCandidates = []string{"python3", "python"}

// ErrPythonNotFound is returned when no interpreter is configured and none
// of the default names is found on PATH.
var ErrPythonNotFound = errors.New("no Python interpreter found on PATH (tried python3, python)")

// Options configures a Provisioner. The zero value is usable: the
// interpreter is looked up on PATH, the requirements manifest is found next
// to the benchnb executable and commands run through ExecRunner.
type Options struct {
	// Python is the interpreter used to create the environment.
	Python string

	// Requirements is the path of the requirements manifest.
	Requirements string

	// Runner spawns the interpreter and pip.
	Runner Runner

	// Progress, if set, receives one line per provisioning milestone.
	Progress func(msg string)
}

// Provisioner creates dependency environments.
type Provisioner struct {
	python       string
	requirements string
	runner       Runner
	progress     func(msg string)
}

// Result describes the environment after Ensure returns.
type Result struct {
	// Path is the environment directory.
	Path string

	// Created is true when this call created the environment and false
	// when it already existed.
	Created bool
}

// NewProvisioner creates a Provisioner from opts.
func NewProvisioner(opts Options) *Provisioner {
	p := &Provisioner{
		python:       opts.Python,
		requirements: opts.Requirements,
		runner:       opts.Runner,
		progress:     opts.Progress,
	}
	if p.runner == nil {
		p.runner = ExecRunner{}
	}
	if p.progress == nil {
		p.progress = func(string) {}
	}
	return p
}

// Path returns the environment directory for targetDir.
func Path(targetDir string) string {
	return filepath.Join(targetDir, DirName)
}

// PipPath returns the pip executable inside the environment at venvPath.
func PipPath(venvPath string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(venvPath, "Scripts", "pip.exe")
	}
	return filepath.Join(venvPath, "bin", "pip")
}

// ActivatePath returns the activation script inside the environment.
func ActivatePath(venvPath string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(venvPath, "Scripts", "activate")
	}
	return filepath.Join(venvPath, "bin", "activate")
}

// ActivateCommand returns the shell command that activates the environment
// on this platform.
func ActivateCommand(venvPath string) string {
	return activateCommand(runtime.GOOS, ActivatePath(venvPath))
}

// activateCommand uses "source" for POSIX shells. cmd.exe and PowerShell
// run the activation script directly.
func activateCommand(goos, script string) string {
	if goos == "windows" {
		return script
	}
	return "source " + script
}

// Ensure makes sure a dependency environment exists in targetDir.
//
// If targetDir/.venv already exists, in any form, Ensure returns at once
// without spawning anything. Otherwise it runs:
//
//	<python> -m venv <targetDir>/.venv
//	<targetDir>/.venv/bin/pip install -q -r <requirements>
//
// The first failing command aborts provisioning. Its error is returned
// wrapped, and the partially created environment is left on disk.
func (p *Provisioner) Ensure(ctx context.Context, targetDir string) (Result, error) {
	venvPath := Path(targetDir)

	exists, err := pathExists(venvPath)
	if err != nil {
		return Result{}, err
	}
	if exists {
		return Result{Path: venvPath}, nil
	}

	python, err := p.resolvePython()
	if err != nil {
		return Result{}, err
	}
	requirements, err := p.resolveRequirements()
	if err != nil {
		return Result{}, err
	}

	p.progress(fmt.Sprintf("Creating venv: %s", venvPath))
	if err := p.runner.Run(ctx, python, "-m", "venv", venvPath); err != nil {
		return Result{}, fmt.Errorf("failed to create environment %s: %w", venvPath, err)
	}

	if err := p.runner.Run(ctx, PipPath(venvPath), "install", "-q", "-r", requirements); err != nil {
		return Result{}, fmt.Errorf("failed to install %s into %s: %w", requirements, venvPath, err)
	}
	p.progress(fmt.Sprintf("Installed deps. Activate: %s", ActivateCommand(venvPath)))

	return Result{Path: venvPath, Created: true}, nil
}

func (p *Provisioner) resolvePython() (string, error) {
	if p.python != "" {
		return p.python, nil
	}
	return FindPython()
}

func (p *Provisioner) resolveRequirements() (string, error) {
	if p.requirements != "" {
		return p.requirements, nil
	}
	return DefaultRequirementsPath()
}

// FindPython returns the first default interpreter name found on PATH.
func FindPython() (string, error) {
	for _, name := range pythonCandidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", ErrPythonNotFound
}

// DefaultRequirementsPath locates the requirements manifest shipped with
// the benchnb executable. It checks the executable's directory and then its
// parent (the install prefix when the binary lives in <prefix>/bin). When
// neither has the file, the prefix location is returned and pip reports the
// missing file.
func DefaultRequirementsPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate benchnb executable: %w", err)
	}
	if resolved, evalErr := filepath.EvalSymlinks(exe); evalErr == nil {
		exe = resolved
	}
	return requirementsNear(filepath.Dir(exe)), nil
}

// requirementsNear returns binDir/requirements.txt if it exists, and
// otherwise binDir/../requirements.txt.
func requirementsNear(binDir string) string {
	local := filepath.Join(binDir, RequirementsFile)
	if ok, _ := pathExists(local); ok {
		return local
	}
	return filepath.Join(filepath.Dir(binDir), RequirementsFile)
}

// pathExists reports whether path exists. Errors other than "not exist"
// (for example permission denied on the parent) are returned.
func pathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to inspect %s: %w", path, err)
}
