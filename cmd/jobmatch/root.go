package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobmatch",
	Short: "Skill-aware resume and job posting relevance engine",
	Long: "jobmatch extracts skills from resumes and postings, ranks postings against a resume, " +
		"explains skill gaps and keeps a learned skill vocabulary up to date.",
	SilenceUsage: true,
}

var (
	cfgFile    string
	debugFlag  bool
	jsonOutput bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is jobmatch.yaml in the current directory)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false, "verbose/debug logging")
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "JSON output and JSON logs")
}
