package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"kidtutor/internal/config"
	"kidtutor/internal/database"
	"kidtutor/internal/repository"
	"kidtutor/internal/service"
)

func main() {
	// Define subcommands
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)

	// Export flags
	exportProfile := exportCmd.String("profile", "", "Profile id to export (default: active profile)")
	exportOutput := exportCmd.String("output", "", "Output file path (default: kidtutor-sessions-<profile>.json)")

	// Import flags
	importProfile := importCmd.String("profile", "", "Profile id to import into (default: active profile)")
	importInput := importCmd.String("input", "", "Input file path (required)")
	importClear := importCmd.Bool("clear", false, "Clear the profile's existing sessions before import (WARNING: destructive)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Load configuration
	cfg := config.Load()

	// Initialize the local store
	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations to ensure schema is up to date
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	sessionRepo := repository.NewSessionRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	transfer := service.NewTransferService(sessionRepo)

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		profileID := *exportProfile
		if profileID == "" {
			profileID = settingsRepo.ActiveProfile()
		}
		handleExport(transfer, profileID, *exportOutput)

	case "import":
		importCmd.Parse(os.Args[2:])
		if *importInput == "" {
			fmt.Println("Error: -input flag is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		profileID := *importProfile
		if profileID == "" {
			profileID = settingsRepo.ActiveProfile()
		}
		handleImport(transfer, sessionRepo, profileID, *importInput, *importClear)

	default:
		printUsage()
		os.Exit(1)
	}
}

func handleExport(transfer *service.TransferService, profileID, outputPath string) {
	if outputPath == "" {
		outputPath = transfer.ArtifactName(profileID)
	}

	// Ensure directory exists
	dir := filepath.Dir(outputPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
	}

	count, err := transfer.ExportToFile(profileID, outputPath)
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	log.Printf("Export complete! %d sessions written to %s", count, outputPath)
}

func handleImport(transfer *service.TransferService, sessions *repository.SessionRepository, profileID, inputPath string, clearFirst bool) {
	// Check if file exists
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		log.Fatalf("Input file does not exist: %s", inputPath)
	}

	if clearFirst {
		fmt.Printf("WARNING: This will delete all sessions for profile %s. Type 'yes' to confirm: ", profileID)
		var confirmation string
		fmt.Scanln(&confirmation)
		if confirmation != "yes" {
			log.Println("Import cancelled")
			return
		}

		if err := sessions.DeleteAll(profileID); err != nil {
			log.Fatalf("Failed to clear sessions: %v", err)
		}
		log.Printf("Cleared sessions for profile %s", profileID)
	}

	count, err := transfer.ImportFromFile(profileID, inputPath)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	log.Printf("Import complete! %d sessions imported into profile %s", count, profileID)
}

func printUsage() {
	fmt.Println("KidTutor Session Backup Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  backup export [options]    Export a profile's sessions to a JSON file")
	fmt.Println("  backup import [options]    Import sessions from a JSON file")
	fmt.Println()
	fmt.Println("Export Options:")
	fmt.Println("  -profile <id>     Profile id (default: active profile)")
	fmt.Println("  -output <file>    Output file path")
	fmt.Println()
	fmt.Println("Import Options:")
	fmt.Println("  -profile <id>     Profile id (default: active profile)")
	fmt.Println("  -input <file>     Input file path (required)")
	fmt.Println("  -clear            Clear the profile's sessions before import")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  DB_PATH           SQLite database path (default: ./kidtutor.db)")
	fmt.Println("  MIGRATIONS_PATH   Migrations directory (default: ./migrations)")
}
