package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tmpim/veil"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that two shares reconstruct the message.",
	Long: `Overlays the secret and cipher shares, decodes the result back to
message resolution and compares it against the prepared message image.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runVerify()
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVarP(&messagePath, "message", "m", "", "message image (required)")
	verifyCmd.MarkFlagRequired("message")
	verifyCmd.Flags().StringVarP(&secretPath, "secret", "s", "secret.png", "secret share")
	verifyCmd.Flags().StringVarP(&cipherPath, "ciphered", "c", "ciphered.png", "cipher share")
	verifyCmd.Flags().StringVarP(&resizeSpec, "resize", "r", "", "resize message to WIDTH,HEIGHT before comparing")
}

func runVerify() error {
	msg, err := prepareMessage(messagePath, resizeSpec)
	if err != nil {
		return err
	}
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

	n := viper.GetInt("expansion")
	if n == 0 {
		n = veil.DefaultExpansion
	}
	decoded, err := veil.DecodeOverlay(ov, n)
	if err != nil {
		return err
	}

	if decoded.Width() != msg.Width() || decoded.Height() != msg.Height() {
		return fmt.Errorf("decoded overlay is %dx%d, message is %dx%d",
			decoded.Width(), decoded.Height(), msg.Width(), msg.Height())
	}

	total := msg.Width() * msg.Height()
	mismatched := 0
	for y := 0; y < msg.Height(); y++ {
		for x := 0; x < msg.Width(); x++ {
			if decoded.BlackAt(x, y) != msg.BlackAt(x, y) {
				mismatched++
			}
		}
	}

	if mismatched > 0 {
		return fmt.Errorf("reconstruction differs from the message at %d of %d pixels", mismatched, total)
	}
	fmt.Printf("OK: shares reconstruct all %d message pixels\n", total)
	return nil
}
