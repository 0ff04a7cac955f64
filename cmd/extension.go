package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// Environment passed to extensions, the same variables the configuration reads.
const (
	EnvConfigFile      = "WLT_CONFIG"
	EnvDataFile        = "WLT_DATA_FILE"
	EnvBackend         = "WLT_STORAGE_BACKEND"
	EnvDisplayCurrency = "WLT_DISPLAY_CURRENCY"
	EnvVerbose         = "WLT_VERBOSE"
)

// RunExtension attempts to find and execute an external wlt-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(subcommand string, args []string) (bool, int) {
	externalCmdName := "wlt-" + subcommand

	// Look for the external command in PATH
	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	// Pass global flags as environment variables, unset flags keep the
	// inherited environment.
	cmd.Env = os.Environ()
	for _, kv := range []struct{ key, value string }{
		{EnvConfigFile, *configFile},
		{EnvDataFile, *dataFile},
		{EnvBackend, *backend},
		{EnvDisplayCurrency, *displayCurrency},
	} {
		if kv.value != "" {
			cmd.Env = append(cmd.Env, kv.key+"="+kv.value)
		}
	}
	cmd.Env = append(cmd.Env, EnvVerbose+"="+strconv.FormatBool(*Verbose))

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(stderr, "Error executing external command %q: %v\n", externalCmdName, err)
		return true, 1
	}
	return true, 0
}
