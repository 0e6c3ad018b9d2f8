package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wurlab/sparq/version"
)

// VersionCmd shows build information.
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show sparq version information",
	Long: `Display version, build time, commit hash, and platform information for the sparq binary.

With --check, verify the build version against a semver constraint
instead; the command fails when the constraint is not satisfied.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		check, _ := cmd.Flags().GetString("check")

		info := version.Get()

		if check != "" {
			return verifyVersion(info, check)
		}

		if jsonOutput {
			output, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to format version info as JSON: %w", err)
			}
			fmt.Println(string(output))
		} else {
			fmt.Println(info.String())
			fmt.Printf("Platform: %s\n", info.Platform)
			fmt.Printf("Go: %s\n", info.GoVersion)
		}
		return nil
	},
}

func init() {
	VersionCmd.Flags().BoolP("json", "j", false, "Output version info as JSON")
	VersionCmd.Flags().String("check", "", "Verify the build version satisfies a semver constraint (e.g. '>= 1.2.0')")
}

// verifyVersion fails when the build version does not satisfy the
// constraint. Untagged dev builds satisfy nothing and fail with the
// parse error from the version package.
func verifyVersion(info version.Info, constraint string) error {
	ok, err := info.Satisfies(constraint)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("version %s does not satisfy %q", info.Version, constraint)
	}
	fmt.Printf("version %s satisfies %q\n", info.Version, constraint)
	return nil
}
