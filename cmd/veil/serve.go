package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/tmpim/veil/preview"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Preview a message's shares in a browser.",
	Long: `Encodes the message and serves the shares and their overlay over
HTTP. The page can reroll the encode to show that every run draws a fresh
secret share while the overlay stays legible.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&messagePath, "message", "m", "", "message image (required)")
	serveCmd.MarkFlagRequired("message")
	serveCmd.Flags().StringVarP(&resizeSpec, "resize", "r", "", "resize message to WIDTH,HEIGHT before encoding")
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8642", "listen address")
}

func runServe() error {
	msg, err := prepareMessage(messagePath, resizeSpec)
	if err != nil {
		return err
	}

	srv, err := preview.NewServer(msg, encodeOptions(0))
	if err != nil {
		return err
	}

	log.Println("preview server listening on", serveAddr)
	return srv.Start(serveAddr)
}
