package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tmpim/veil"
)

var (
	messagePath  string
	secretPath   string
	cipherPath   string
	resizeSpec   string
	preparedPath string
	seed         int64
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Split a message image into a secret share and a cipher share.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runEncode()
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)

	encodeCmd.Flags().StringVarP(&messagePath, "message", "m", "", "message image (required)")
	encodeCmd.MarkFlagRequired("message")
	encodeCmd.Flags().StringVarP(&secretPath, "secret", "s", "secret.png", "secret share (reused if it already exists)")
	encodeCmd.Flags().StringVarP(&cipherPath, "ciphered", "c", "ciphered.png", "cipher share to generate")
	encodeCmd.Flags().StringVarP(&resizeSpec, "resize", "r", "", "resize message to WIDTH,HEIGHT before encoding")
	encodeCmd.Flags().StringVarP(&preparedPath, "prepared-message", "p", "", "save the prepared (binarized) message here")
	encodeCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time-seeded)")
}

func runEncode() error {
	msg, err := prepareMessage(messagePath, resizeSpec)
	if err != nil {
		return err
	}

	opts := encodeOptions(seed)
	secret, saveSecret, err := loadOrGenerateSecret(msg, opts)
	if err != nil {
		return err
	}

	cipher, err := veil.EncodeWithSecret(msg, secret, opts)
	if err != nil {
		return err
	}

	if saveSecret {
		debugf("saving secret share %q", secretPath)
		if err := veil.WriteImage(secretPath, secret); err != nil {
			return err
		}
	}
	if preparedPath != "" {
		debugf("saving prepared message %q", preparedPath)
		if err := veil.WriteImage(preparedPath, msg); err != nil {
			return err
		}
	}
	debugf("saving cipher share %q", cipherPath)
	return veil.WriteImage(cipherPath, cipher)
}

// loadOrGenerateSecret reuses an existing secret share when one is on disk,
// enlarging it only if the message outgrew it, and generates a fresh one
// otherwise. A share bigger than needed is used as-is and never rewritten,
// which keeps a once-printed transparency reusable across smaller messages.
// It reports whether the share needs to be written back.
func loadOrGenerateSecret(msg *veil.Bitmap, opts veil.Options) (*veil.Bitmap, bool, error) {
	n := viper.GetInt("expansion")
	if n == 0 {
		n = veil.DefaultExpansion
	}

	if _, err := os.Stat(secretPath); err == nil {
		debugf("loading secret share %q", secretPath)
		img, err := veil.ReadImage(secretPath)
		if err != nil {
			return nil, false, err
		}
		secret, err := veil.Binarize(img, veil.BinarizeOptions{})
		if err != nil {
			return nil, false, err
		}
		if secret.Width() >= msg.Width()*n && secret.Height() >= msg.Height()*n {
			return secret, false, nil
		}

		debugf("enlarging secret share to fit %dx%d message", msg.Width(), msg.Height())
		secret, err = veil.EnlargeSecret(secret, msg.Width(), msg.Height(), opts)
		if err != nil {
			return nil, false, err
		}
		return secret, true, nil
	}

	debugf("generating secret share %q", secretPath)
	secret, err := veil.GenerateSecret(msg.Width(), msg.Height(), opts)
	if err != nil {
		return nil, false, err
	}
	return secret, true, nil
}
