package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mintforge",
	Short: "MintForge is a Telegram bot that mints NFTs through a chat wizard",
	Long:  `MintForge runs a conversational wizard on Telegram: users send artwork or point at an existing on-chain asset, answer a few questions, and confirm to mint.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the bot and the HTTP health endpoint",
	Run: func(cmd *cobra.Command, args []string) {
		runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
