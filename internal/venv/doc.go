// Package venv provisions the Python virtual environment that holds the
// notebook's analysis dependencies.
//
// The environment lives in a fixed ".venv" directory next to the generated
// notebook. Provisioning shells out twice: `python -m venv` to create the
// environment, then the environment's pip to install the requirements
// manifest shipped with benchnb.
//
// Design decisions:
//   - All process spawning goes through the Runner interface so that the
//     Provisioner can be tested with a recording fake and no Python install.
//   - An existing .venv entry is never touched. Provisioning is therefore
//     idempotent, and a broken environment must be removed by the user.
//   - Nothing is cleaned up on failure; a half-created directory is left in
//     place for inspection.
package venv
