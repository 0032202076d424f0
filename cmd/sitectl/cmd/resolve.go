package cmd

import (
	"github.com/spf13/cobra"

	"hotellink/internal/media"
)

var acceptLanguage string

var resolveCmd = &cobra.Command{
	Use:   "resolve <path>",
	Short: "Print the view state the app shell renders for a path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		deps, _, err := build(ctx)
		if err != nil {
			return err
		}
		defer deps.Close()

		vs, err := deps.Shell.Resolve(ctx, args[0], acceptLanguage)
		if err != nil {
			return err
		}
		return printJSON(cmd, vs)
	},
}

var classifyCmd = &cobra.Command{
	Use:   "classify <url>",
	Short: "Classify a background media URL (image, YouTube, VR360)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(cmd, media.Resolve(args[0]))
	},
}

func init() {
	resolveCmd.Flags().StringVar(&acceptLanguage, "accept-language", "", "Accept-Language header to negotiate with")
	rootCmd.AddCommand(resolveCmd, classifyCmd)
}
