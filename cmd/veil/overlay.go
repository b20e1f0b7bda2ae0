package main

import (
	"github.com/spf13/cobra"

	"github.com/tmpim/veil"
)

var overlayCmd = &cobra.Command{
	Use:   "overlay SECRET CIPHERED OUTPUT",
	Short: "Stack two shares into a reconstruction preview.",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runOverlay(args[0], args[1], args[2])
	},
}

func init() {
	rootCmd.AddCommand(overlayCmd)
}

func runOverlay(secretPath, cipherPath, outputPath string) error {
	secret, err := readShare(secretPath)
	if err != nil {
		return err
	}
	cipher, err := readShare(cipherPath)
	if err != nil {
		return err
	}

	ov, err := veil.Overlay(secret, cipher)
	if err != nil {
		return err
	}
	debugf("saving overlay %q", outputPath)
	return veil.WriteImage(outputPath, ov)
}

func readShare(path string) (*veil.Bitmap, error) {
	img, err := veil.ReadImage(path)
	if err != nil {
		return nil, err
	}
	return veil.Binarize(img, veil.BinarizeOptions{})
}
