package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/copywords/internal/archive"
	"codeberg.org/snonux/copywords/internal/cli"
	"codeberg.org/snonux/copywords/internal/models"
	"codeberg.org/snonux/copywords/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	ctx := cmd.Context()

	// Config file and environment fill in what the command line left out
	cli.ApplyConfig(flags)

	// Handle --archive flag
	if flags.Archive {
		archivePath, err := archive.ArchiveCards(flags.OutputDir)
		if err != nil {
			return fmt.Errorf("failed to archive cards: %w", err)
		}
		fmt.Printf("Cards directory archived to: %s\n", archivePath)
		return nil
	}

	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(cli.GetOpenAIKey())
		return lister.ListAvailableModels(ctx, os.Stdout, flags.OpenAIModel)
	}

	// Create processor
	proc, err := processor.NewProcessor(ctx, flags)
	if err != nil {
		return err
	}

	switch {
	case flags.BatchFile != "":
		if err := proc.ProcessBatch(ctx); err != nil {
			return err
		}
	case flags.URL != "":
		if err := proc.ProcessURL(ctx, flags.URL); err != nil {
			return err
		}
	case len(args) > 0:
		if err := proc.ProcessSingleWord(ctx, args[0]); err != nil {
			return err
		}
	case !flags.GenerateAnki:
		return cmd.Help()
	}

	if flags.PrintJSON {
		return nil
	}

	// Generate Anki file if requested
	if flags.GenerateAnki {
		fmt.Printf("\nGenerating Anki import file...\n")
		outputPath, err := proc.GenerateAnkiFile()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to generate Anki file: %v\n", err)
		} else {
			fmt.Printf("Anki package created: %s\n", outputPath)
		}
	}

	fmt.Printf("\nDone! Cards saved to: %s\n", flags.OutputDir)
	return nil
}
