package main

import (
	"github.com/spf13/cobra"
)

var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "Inspect image metadata records",
}

var imagesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List records, newest upload first",
	Args:  cobra.NoArgs,
	RunE:  runImagesList,
}

var imagesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one record",
	Args:  cobra.ExactArgs(1),
	RunE:  runImagesGet,
}

func init() {
	imagesCmd.AddCommand(imagesListCmd)
	imagesCmd.AddCommand(imagesGetCmd)

	imagesListCmd.Flags().IntP("limit", "n", 0, "Maximum number of records (0 uses LIST_DEFAULT_LIMIT)")
}

func runImagesList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	rt, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	images, err := rt.service.List(cmd.Context(), limit)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), images)
}

func runImagesGet(cmd *cobra.Command, args []string) error {
	rt, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	img, err := rt.service.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), img)
}
