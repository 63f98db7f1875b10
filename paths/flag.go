package paths

import (
	"flag"
)

// SetupFilePathFlag creates a new string flag on the command line flag set,
// defaulting to wherever Find locates fileName, or to "" if Find does not.
func SetupFilePathFlag(fileName, flagName string, flagPtr *string) {
	SetupFilePathFlagSet(flag.CommandLine, fileName, flagName, flagPtr)
}

// SetupFilePathFlagSet is SetupFilePathFlag for an arbitrary flag set.
func SetupFilePathFlagSet(fs *flag.FlagSet, fileName, flagName string, flagPtr *string) {
	usage := "Path to " + fileName
	if dir := DefaultInstallDir(); dir != "" {
		usage += "; also searched for in " + dir
	}
	fs.StringVar(flagPtr, flagName, Find(fileName), usage)
}
