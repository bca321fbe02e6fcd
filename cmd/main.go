package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stock-sentiment",
	Short: "A CLI for managing the stock sentiment pipeline services",
	Long:  `Stock sentiment is a pipeline that collects social media posts, extracts stock ticker mentions and scores them for financial sentiment.`,
}

func main() {

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI '%s'", err)
		os.Exit(1)
	}
}
