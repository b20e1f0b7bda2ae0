package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tmpim/veil"
)

var verbosity int

var rootCmd = &cobra.Command{
	Use:   "veil",
	Short: "Visual secret sharing for black and white images",
	Long: `veil splits a message image into two shares: a secret share that is
indistinguishable from noise on its own, and a cipher share that reveals
the message when the two are stacked like printed transparencies.`,
	SilenceErrors: true,
}

func main() {
	log.SetFlags(0)
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "verbose output (repeat for more)")
	rootCmd.PersistentFlags().Int("expansion", veil.DefaultExpansion, "sub-pixel block side length")
	rootCmd.PersistentFlags().Int("threshold", veil.DefaultThreshold, "binarization threshold (0-255)")
	rootCmd.PersistentFlags().Int("workers", 0, "encode worker count (0 = one per CPU)")
	rootCmd.PersistentFlags().Bool("perceptual", false, "threshold on CIE L* lightness instead of luma")
	viper.BindPFlag("expansion", rootCmd.PersistentFlags().Lookup("expansion"))
	viper.BindPFlag("threshold", rootCmd.PersistentFlags().Lookup("threshold"))
	viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
	viper.BindPFlag("perceptual", rootCmd.PersistentFlags().Lookup("perceptual"))
}

func initConfig() {
	viper.SetEnvPrefix("VEIL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

func debugf(format string, args ...interface{}) {
	if verbosity > 0 {
		log.Printf(format, args...)
	}
}

func encodeOptions(seed int64) veil.Options {
	opts := veil.Options{
		Expansion: viper.GetInt("expansion"),
		Workers:   viper.GetInt("workers"),
	}
	if seed != 0 {
		opts.Rand = rand.New(rand.NewSource(seed))
	}
	return opts
}

func binarizeOptions() veil.BinarizeOptions {
	return veil.BinarizeOptions{
		Threshold:  viper.GetInt("threshold"),
		Perceptual: viper.GetBool("perceptual"),
	}
}

// parseSize parses a "WIDTH,HEIGHT" resize spec. An empty spec means no
// resize and parses to (0, 0).
func parseSize(spec string) (width, height int, err error) {
	if spec == "" {
		return 0, 0, nil
	}

	parts := strings.Split(spec, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid resize spec %q, want WIDTH,HEIGHT", spec)
	}
	width, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err == nil {
		height, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	}
	if err != nil {
		return 0, 0, fmt.Errorf("invalid resize spec %q, want WIDTH,HEIGHT", spec)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("resize dimensions must be positive, got %dx%d", width, height)
	}
	return width, height, nil
}

// prepareMessage loads and prepares the message image shared by the
// encode, verify and serve commands.
func prepareMessage(path, resizeSpec string) (*veil.Bitmap, error) {
	width, height, err := parseSize(resizeSpec)
	if err != nil {
		return nil, err
	}

	debugf("loading message image %q", path)
	img, err := veil.ReadImage(path)
	if err != nil {
		return nil, err
	}
	return veil.PrepareMessage(img, width, height, binarizeOptions())
}
